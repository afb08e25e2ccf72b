// Package postgresql реализует хранилище подписчиков и учётных записей
// администраторов на основе PostgreSQL через драйвер pgx.
package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/newsletter/internal/models"
	"github.com/magabrotheeeer/newsletter/internal/storage"
)

var _ storage.Store = (*Storage)(nil)

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(ctx context.Context, storageConnectionString string) (*Storage, error) {
	const op = "storage.postgresql.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// Ping проверяет доступность базы данных.
func (s *Storage) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// Close закрывает пул соединений.
func (s *Storage) Close() error {
	return s.DB.Close()
}

// mapError переводит ошибки драйвера в ошибки пакета storage.
func mapError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return fmt.Errorf("%s: %w: %s", op, storage.ErrConstraintViolation, pgErr.ConstraintName)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// ===== SUBSCRIBER METHODS =====

// FindSubscriberByEmail возвращает подписчика по email без учёта регистра.
func (s *Storage) FindSubscriberByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	const op = "storage.postgresql.FindSubscriberByEmail"

	query := `SELECT id, email, name, subscribed_at
			  FROM subscribers
			  WHERE lower(email) = lower($1)`
	var sub models.Subscriber
	if err := s.DB.QueryRowContext(ctx, query, email).
		Scan(&sub.ID, &sub.Email, &sub.Name, &sub.SubscribedAt); err != nil {
		return nil, mapError(op, err)
	}
	sub.SubscribedAt = sub.SubscribedAt.UTC()
	return &sub, nil
}

// InsertSubscriber сохраняет нового подписчика и возвращает его с присвоенным ID.
func (s *Storage) InsertSubscriber(ctx context.Context, email, name string, subscribedAt time.Time) (*models.Subscriber, error) {
	const op = "storage.postgresql.InsertSubscriber"

	query := `INSERT INTO subscribers (email, name, subscribed_at)
			  VALUES ($1, $2, $3)
			  RETURNING id;`
	sub := &models.Subscriber{
		Email:        email,
		Name:         name,
		SubscribedAt: subscribedAt.UTC(),
	}
	if err := s.DB.QueryRowContext(ctx, query, sub.Email, sub.Name, sub.SubscribedAt).Scan(&sub.ID); err != nil {
		return nil, mapError(op, err)
	}
	return sub, nil
}

// ListSubscribers возвращает всех подписчиков, упорядоченных по дате подписки (новые первыми).
func (s *Storage) ListSubscribers(ctx context.Context) ([]*models.Subscriber, error) {
	const op = "storage.postgresql.ListSubscribers"

	query := `SELECT id, email, name, subscribed_at
			  FROM subscribers
			  ORDER BY subscribed_at DESC, id DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Subscriber, 0)
	for rows.Next() {
		var sub models.Subscriber
		if err = rows.Scan(&sub.ID, &sub.Email, &sub.Name, &sub.SubscribedAt); err != nil {
			return nil, mapError(op, err)
		}
		sub.SubscribedAt = sub.SubscribedAt.UTC()
		result = append(result, &sub)
	}
	if err = rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return result, nil
}

// CountSubscribers возвращает количество подписчиков.
func (s *Storage) CountSubscribers(ctx context.Context) (int, error) {
	const op = "storage.postgresql.CountSubscribers"

	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM subscribers`).Scan(&count); err != nil {
		return 0, mapError(op, err)
	}
	return count, nil
}

// ===== ACCOUNT METHODS =====

// FindAccountByEmail возвращает учётную запись по точному совпадению email.
func (s *Storage) FindAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	const op = "storage.postgresql.FindAccountByEmail"

	query := `SELECT id, email, password_hash, is_active, created_at
			  FROM users
			  WHERE email = $1`
	var acc models.Account
	if err := s.DB.QueryRowContext(ctx, query, email).
		Scan(&acc.ID, &acc.Email, &acc.PasswordHash, &acc.IsActive, &acc.CreatedAt); err != nil {
		return nil, mapError(op, err)
	}
	acc.CreatedAt = acc.CreatedAt.UTC()
	return &acc, nil
}

// InsertAccount сохраняет новую учётную запись и возвращает её с присвоенным ID.
func (s *Storage) InsertAccount(ctx context.Context, email, passwordHash string, isActive bool) (*models.Account, error) {
	const op = "storage.postgresql.InsertAccount"

	query := `INSERT INTO users (email, password_hash, is_active)
			  VALUES ($1, $2, $3)
			  RETURNING id, created_at;`
	acc := &models.Account{
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     isActive,
	}
	if err := s.DB.QueryRowContext(ctx, query, email, passwordHash, isActive).
		Scan(&acc.ID, &acc.CreatedAt); err != nil {
		return nil, mapError(op, err)
	}
	acc.CreatedAt = acc.CreatedAt.UTC()
	return acc, nil
}

// SetAccountActive меняет признак активности учётной записи.
func (s *Storage) SetAccountActive(ctx context.Context, email string, active bool) error {
	const op = "storage.postgresql.SetAccountActive"

	res, err := s.DB.ExecContext(ctx, `UPDATE users SET is_active = $1 WHERE email = $2`, active, email)
	if err != nil {
		return mapError(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapError(op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}
