// Package auth отвечает за учётные записи администраторов: создание, проверку пароля
// и блокировку. Сессиями пакет не управляет.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/magabrotheeeer/newsletter/internal/lib/password"
	"github.com/magabrotheeeer/newsletter/internal/models"
	"github.com/magabrotheeeer/newsletter/internal/storage"
)

// MinPasswordLength минимальная длина пароля при создании учётной записи из CLI.
const MinPasswordLength = 8

// AccountRepository описывает контракт для работы с учётными записями в базе данных.
type AccountRepository interface {
	// FindAccountByEmail возвращает учётную запись или storage.ErrNotFound.
	FindAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	// InsertAccount сохраняет учётную запись; дубликат даёт storage.ErrConstraintViolation.
	InsertAccount(ctx context.Context, email, passwordHash string, isActive bool) (*models.Account, error)
	SetAccountActive(ctx context.Context, email string, active bool) error
}

var dummyHash = mustHash("newsletter-dummy-password")

func mustHash(p string) string {
	h, err := password.GetHash(p)
	if err != nil {
		panic(err)
	}
	return h
}

// Service проверяет учётные данные и создаёт учётные записи.
type Service struct {
	accounts AccountRepository
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(accounts AccountRepository, log *slog.Logger) *Service {
	return &Service{
		accounts: accounts,
		log:      log,
	}
}

// ValidatePassword проверяет минимальную длину пароля.
func ValidatePassword(p string) error {
	if p == "" {
		return &models.ValidationError{Field: "password", Reason: models.ReasonRequired}
	}
	if utf8.RuneCountInString(p) < MinPasswordLength {
		return &models.ValidationError{Field: "password", Reason: models.ReasonTooShort}
	}
	return nil
}

// Authenticate возвращает учётную запись, если пароль верен и запись активна.
// Несуществующая запись, неверный пароль и заблокированная запись неразличимы:
// во всех трёх случаях возвращается nil, nil.
func (s *Service) Authenticate(ctx context.Context, email, plaintext string) (*models.Account, error) {
	const op = "auth.Authenticate"

	acc, err := s.accounts.FindAccountByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		// время ответа не должно зависеть от наличия записи
		password.Verify(plaintext, dummyHash)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !password.Verify(plaintext, acc.PasswordHash) {
		return nil, nil
	}
	if !acc.IsActive {
		return nil, nil
	}
	return acc, nil
}

// CreateAccount хеширует пароль и сохраняет активную учётную запись.
// Если email уже занят, возвращается *models.DuplicateError.
func (s *Service) CreateAccount(ctx context.Context, email, plaintext string) (*models.Account, error) {
	const op = "auth.CreateAccount"

	_, err := s.accounts.FindAccountByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, &models.DuplicateError{Field: "email", Reason: models.ReasonAlreadyExists}
	case !errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hash, err := password.GetHash(plaintext)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	acc, err := s.accounts.InsertAccount(ctx, email, hash, true)
	if err != nil {
		if errors.Is(err, storage.ErrConstraintViolation) {
			return nil, &models.DuplicateError{Field: "email", Reason: models.ReasonAlreadyExists}
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("account created", slog.Int64("id", acc.ID))
	return acc, nil
}

// AccountExists сообщает, занят ли email учётной записью.
func (s *Service) AccountExists(ctx context.Context, email string) (bool, error) {
	const op = "auth.AccountExists"

	_, err := s.accounts.FindAccountByEmail(ctx, email)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, storage.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("%s: %w", op, err)
	}
}

// SetActive включает или блокирует учётную запись.
// Для несуществующей записи возвращается ошибка, оборачивающая storage.ErrNotFound.
func (s *Service) SetActive(ctx context.Context, email string, active bool) error {
	const op = "auth.SetActive"

	if err := s.accounts.SetAccountActive(ctx, email, active); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("account status changed", slog.Bool("active", active))
	return nil
}
