// Package storage описывает контракт хранилища подписчиков и учётных записей
// и общие ошибки, которые возвращают его реализации (PostgreSQL и SQLite).
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/magabrotheeeer/newsletter/internal/models"
)

var (
	// ErrNotFound возвращается, если запись не найдена.
	ErrNotFound = errors.New("record not found")
	// ErrConstraintViolation возвращается при нарушении ограничения уникальности.
	ErrConstraintViolation = errors.New("unique constraint violation")
)

// Store описывает хранилище, с которым работают сервисы подписки и аутентификации.
type Store interface {
	// FindSubscriberByEmail ищет подписчика по email без учёта регистра.
	FindSubscriberByEmail(ctx context.Context, email string) (*models.Subscriber, error)
	// InsertSubscriber сохраняет подписчика; при дубликате возвращает ErrConstraintViolation.
	InsertSubscriber(ctx context.Context, email, name string, subscribedAt time.Time) (*models.Subscriber, error)
	// ListSubscribers возвращает всех подписчиков, новые первыми.
	ListSubscribers(ctx context.Context) ([]*models.Subscriber, error)
	// CountSubscribers возвращает количество подписчиков.
	CountSubscribers(ctx context.Context) (int, error)

	// FindAccountByEmail ищет учётную запись по точному совпадению email.
	FindAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	// InsertAccount сохраняет учётную запись; при дубликате возвращает ErrConstraintViolation.
	InsertAccount(ctx context.Context, email, passwordHash string, isActive bool) (*models.Account, error)
	// SetAccountActive меняет признак активности учётной записи.
	SetAccountActive(ctx context.Context, email string, active bool) error

	Ping(ctx context.Context) error
	Close() error
}
