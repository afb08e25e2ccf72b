// Package session управляет сессиями администратора поверх JWT.
//
// Отозванные при выходе токены помечаются в кеше ключом session:revoked:<jti>
// до истечения срока их действия. Дополнительно отзыв запоминается в памяти
// процесса, поэтому выход работает и без redis.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/newsletter/internal/lib/jwt"
	"github.com/magabrotheeeer/newsletter/internal/lib/sl"
	"github.com/magabrotheeeer/newsletter/internal/models"
)

// ErrInvalidSession возвращается для неверного, просроченного или отозванного токена.
var ErrInvalidSession = errors.New("invalid session")

const revokedPrefix = "session:revoked:"

// Cache хранит отметки об отзыве сессий.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// Manager выпускает, проверяет и отзывает сессии.
type Manager struct {
	maker jwt.Maker
	cache Cache
	log   *slog.Logger
	now   func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewManager создаёт Manager.
func NewManager(maker jwt.Maker, cache Cache, log *slog.Logger) *Manager {
	return &Manager{
		maker:   maker,
		cache:   cache,
		log:     log,
		now:     time.Now,
		revoked: make(map[string]time.Time),
	}
}

// Issue выпускает токен для учётной записи.
func (m *Manager) Issue(acc *models.Account) (string, *jwt.SessionClaims, error) {
	const op = "session.Issue"

	token, claims, err := m.maker.GenerateToken(acc.ID, acc.Email)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, claims, nil
}

// Validate проверяет токен и возвращает его claims.
// Ошибки разбора и отозванные токены сводятся к ErrInvalidSession.
func (m *Manager) Validate(ctx context.Context, token string) (*jwt.SessionClaims, error) {
	claims, err := m.maker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}
	if m.isRevoked(ctx, claims.ID) {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// Revoke отзывает сессию до истечения её срока действия.
func (m *Manager) Revoke(ctx context.Context, claims *jwt.SessionClaims) error {
	const op = "session.Revoke"

	expiresAt := m.now().Add(time.Minute)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	ttl := expiresAt.Sub(m.now())
	if ttl <= 0 {
		return nil
	}

	m.mu.Lock()
	m.revoked[claims.ID] = expiresAt
	m.pruneLocked()
	m.mu.Unlock()

	if err := m.cache.Set(ctx, revokedPrefix+claims.ID, true, ttl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (m *Manager) isRevoked(ctx context.Context, id string) bool {
	m.mu.Lock()
	_, ok := m.revoked[id]
	m.mu.Unlock()
	if ok {
		return true
	}

	var revoked bool
	found, err := m.cache.Get(ctx, revokedPrefix+id, &revoked)
	if err != nil {
		m.log.Warn("failed to check session revocation", sl.Err(err))
		return false
	}
	return found && revoked
}

func (m *Manager) pruneLocked() {
	now := m.now()
	for id, exp := range m.revoked {
		if !exp.After(now) {
			delete(m.revoked, id)
		}
	}
}
