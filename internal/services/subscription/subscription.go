// Package subscription содержит бизнес-логику подписки на рассылку:
// проверку и нормализацию email, защиту от дубликатов и выдачу списка подписчиков.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/magabrotheeeer/newsletter/internal/lib/sl"
	"github.com/magabrotheeeer/newsletter/internal/models"
	"github.com/magabrotheeeer/newsletter/internal/storage"
)

// ListCacheKey ключ, под которым кешируется список подписчиков.
const ListCacheKey = "subscribers:list"

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Repository определяет методы хранилища, нужные сервису.
type Repository interface {
	FindSubscriberByEmail(ctx context.Context, email string) (*models.Subscriber, error)
	InsertSubscriber(ctx context.Context, email, name string, subscribedAt time.Time) (*models.Subscriber, error)
	ListSubscribers(ctx context.Context) ([]*models.Subscriber, error)
	CountSubscribers(ctx context.Context) (int, error)
}

// Cache описывает методы для кеширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// EventPublisher публикует событие о новом подписчике.
type EventPublisher interface {
	PublishSubscriberCreated(ctx context.Context, event models.SubscriberCreatedEvent) error
}

// Service реализует сценарий подписки.
type Service struct {
	repo    Repository
	cache   Cache
	events  EventPublisher
	log     *slog.Logger
	listTTL time.Duration
	now     func() time.Time

	// writes растёт при каждой успешной вставке подписчика.
	writes atomic.Uint64
}

// New создаёт Service. listTTL задаёт время жизни закешированного списка подписчиков.
func New(repo Repository, cache Cache, events EventPublisher, log *slog.Logger, listTTL time.Duration) *Service {
	return &Service{
		repo:    repo,
		cache:   cache,
		events:  events,
		log:     log,
		listTTL: listTTL,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// ValidateEmail проверяет, что email непустой и соответствует формату.
// Проверка выполняется по строке без пробелов по краям.
func ValidateEmail(email string) error {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return &models.ValidationError{Field: "email", Reason: models.ReasonRequired}
	}
	if !emailPattern.MatchString(trimmed) {
		return &models.ValidationError{Field: "email", Reason: models.ReasonInvalidFormat}
	}
	return nil
}

// NormalizeEmail приводит email к нижнему регистру и убирает пробелы по краям.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeName убирает пробелы по краям; пустое имя заменяется на DefaultSubscriberName.
func NormalizeName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return models.DefaultSubscriberName
	}
	return trimmed
}

// Subscribe проверяет данные, отсекает дубликаты и сохраняет нового подписчика.
// При любой ошибке запись в хранилище не выполняется.
func (s *Service) Subscribe(ctx context.Context, email, name string) (*models.Subscriber, error) {
	const op = "subscription.Subscribe"

	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	email = NormalizeEmail(email)
	name = NormalizeName(name)

	exists, err := s.exists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return nil, &models.DuplicateError{Field: "email", Reason: models.ReasonAlreadySubscribed}
	}

	sub, err := s.repo.InsertSubscriber(ctx, email, name, s.now())
	if err != nil {
		if errors.Is(err, storage.ErrConstraintViolation) {
			return nil, &models.DuplicateError{Field: "email", Reason: models.ReasonAlreadySubscribed}
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("new subscriber", slog.Int64("id", sub.ID))
	s.writes.Add(1)

	if err := s.cache.Invalidate(ctx, ListCacheKey); err != nil {
		s.log.Warn("failed to invalidate subscribers cache", sl.Err(err))
	}
	event := models.SubscriberCreatedEvent{
		ID:           sub.ID,
		Email:        sub.Email,
		Name:         sub.Name,
		SubscribedAt: sub.SubscribedAt,
	}
	if err := s.events.PublishSubscriberCreated(ctx, event); err != nil {
		s.log.Warn("failed to publish subscriber event", slog.Int64("id", sub.ID), sl.Err(err))
	}
	return sub, nil
}

// IsSubscribed сообщает, есть ли подписчик с таким email после нормализации.
func (s *Service) IsSubscribed(ctx context.Context, email string) (bool, error) {
	const op = "subscription.IsSubscribed"

	exists, err := s.exists(ctx, NormalizeEmail(email))
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

func (s *Service) exists(ctx context.Context, normalized string) (bool, error) {
	_, err := s.repo.FindSubscriberByEmail(ctx, normalized)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// List возвращает подписчиков, новые первыми. Результат кешируется на listTTL.
func (s *Service) List(ctx context.Context) ([]*models.Subscriber, error) {
	const op = "subscription.List"

	var cached []*models.Subscriber
	found, err := s.cache.Get(ctx, ListCacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read subscribers from cache", sl.Err(err))
	}
	if found {
		return cached, nil
	}

	gen := s.writes.Load()
	subs, err := s.repo.ListSubscribers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(ctx, ListCacheKey, subs, s.listTTL); err != nil {
		s.log.Warn("failed to cache subscribers", sl.Err(err))
	}
	// Подписка во время чтения могла сбросить кеш раньше, чем мы записали устаревший список.
	if s.writes.Load() != gen {
		if err := s.cache.Invalidate(ctx, ListCacheKey); err != nil {
			s.log.Warn("failed to invalidate subscribers cache", sl.Err(err))
		}
	}
	return subs, nil
}

// Count возвращает количество подписчиков.
func (s *Service) Count(ctx context.Context) (int, error) {
	const op = "subscription.Count"

	n, err := s.repo.CountSubscribers(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}
