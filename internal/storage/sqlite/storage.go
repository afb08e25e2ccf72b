package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/magabrotheeeer/newsletter/internal/models"
	"github.com/magabrotheeeer/newsletter/internal/storage"
)

var _ storage.Store = (*Storage)(nil)

// timeLayout имеет фиксированную ширину, поэтому строки сортируются так же, как время.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Storage реализует storage.Store поверх DB.
type Storage struct {
	db  *DB
	now func() time.Time
}

// New создаёт Storage поверх открытой базы.
func New(db *DB) *Storage {
	return &Storage{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Ping проверяет доступность базы данных.
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.Reader.PingContext(ctx)
}

// Close закрывает оба пула соединений.
func (s *Storage) Close() error {
	return s.db.Close()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t.UTC(), nil
}

// mapError переводит ошибки драйвера в ошибки пакета storage.
func mapError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%s: %w", op, storage.ErrConstraintViolation)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// FindSubscriberByEmail возвращает подписчика по email; сравнение без учёта регистра
// обеспечивает COLLATE NOCASE на колонке.
func (s *Storage) FindSubscriberByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	const op = "storage.sqlite.FindSubscriberByEmail"

	const query = `SELECT id, email, name, subscribed_at FROM subscribers WHERE email = ?`
	var (
		sub          models.Subscriber
		subscribedAt string
	)
	if err := s.db.Reader.QueryRowContext(ctx, query, email).
		Scan(&sub.ID, &sub.Email, &sub.Name, &subscribedAt); err != nil {
		return nil, mapError(op, err)
	}
	t, err := parseTime(subscribedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sub.SubscribedAt = t
	return &sub, nil
}

// InsertSubscriber сохраняет нового подписчика и возвращает его с присвоенным ID.
func (s *Storage) InsertSubscriber(ctx context.Context, email, name string, subscribedAt time.Time) (*models.Subscriber, error) {
	const op = "storage.sqlite.InsertSubscriber"

	const query = `INSERT INTO subscribers (email, name, subscribed_at) VALUES (?, ?, ?)`
	res, err := s.db.Writer.ExecContext(ctx, query, email, name, formatTime(subscribedAt))
	if err != nil {
		return nil, mapError(op, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("%s: last insert id: %w", op, err)
	}
	return &models.Subscriber{
		ID:           id,
		Email:        email,
		Name:         name,
		SubscribedAt: subscribedAt.UTC(),
	}, nil
}

// ListSubscribers возвращает всех подписчиков, новые первыми.
func (s *Storage) ListSubscribers(ctx context.Context) ([]*models.Subscriber, error) {
	const op = "storage.sqlite.ListSubscribers"

	const query = `SELECT id, email, name, subscribed_at FROM subscribers ORDER BY subscribed_at DESC, id DESC`
	rows, err := s.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()

	result := make([]*models.Subscriber, 0)
	for rows.Next() {
		var (
			sub          models.Subscriber
			subscribedAt string
		)
		if err := rows.Scan(&sub.ID, &sub.Email, &sub.Name, &subscribedAt); err != nil {
			return nil, mapError(op, err)
		}
		if sub.SubscribedAt, err = parseTime(subscribedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &sub)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return result, nil
}

// CountSubscribers возвращает количество подписчиков.
func (s *Storage) CountSubscribers(ctx context.Context) (int, error) {
	const op = "storage.sqlite.CountSubscribers"

	var count int
	if err := s.db.Reader.QueryRowContext(ctx, `SELECT COUNT(*) FROM subscribers`).Scan(&count); err != nil {
		return 0, mapError(op, err)
	}
	return count, nil
}

// FindAccountByEmail возвращает учётную запись по точному совпадению email.
func (s *Storage) FindAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	const op = "storage.sqlite.FindAccountByEmail"

	const query = `SELECT id, email, password_hash, is_active, created_at FROM users WHERE email = ?`
	var (
		acc       models.Account
		createdAt string
	)
	if err := s.db.Reader.QueryRowContext(ctx, query, email).
		Scan(&acc.ID, &acc.Email, &acc.PasswordHash, &acc.IsActive, &createdAt); err != nil {
		return nil, mapError(op, err)
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	acc.CreatedAt = t
	return &acc, nil
}

// InsertAccount сохраняет новую учётную запись и возвращает её с присвоенным ID.
func (s *Storage) InsertAccount(ctx context.Context, email, passwordHash string, isActive bool) (*models.Account, error) {
	const op = "storage.sqlite.InsertAccount"

	createdAt := s.now()
	const query = `INSERT INTO users (email, password_hash, is_active, created_at) VALUES (?, ?, ?, ?)`
	res, err := s.db.Writer.ExecContext(ctx, query, email, passwordHash, isActive, formatTime(createdAt))
	if err != nil {
		return nil, mapError(op, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("%s: last insert id: %w", op, err)
	}
	return &models.Account{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     isActive,
		CreatedAt:    createdAt,
	}, nil
}

// SetAccountActive меняет признак активности учётной записи.
func (s *Storage) SetAccountActive(ctx context.Context, email string, active bool) error {
	const op = "storage.sqlite.SetAccountActive"

	res, err := s.db.Writer.ExecContext(ctx, `UPDATE users SET is_active = ? WHERE email = ?`, active, email)
	if err != nil {
		return mapError(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}
