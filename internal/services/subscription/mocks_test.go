package subscription

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/newsletter/internal/models"
	"github.com/magabrotheeeer/newsletter/internal/storage"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) FindSubscriberByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscriber), args.Error(1)
}

func (m *RepoMock) InsertSubscriber(ctx context.Context, email, name string, subscribedAt time.Time) (*models.Subscriber, error) {
	args := m.Called(ctx, email, name, subscribedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscriber), args.Error(1)
}

func (m *RepoMock) ListSubscribers(ctx context.Context) ([]*models.Subscriber, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscriber), args.Error(1)
}

func (m *RepoMock) CountSubscribers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}

func (m *CacheMock) Invalidate(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) PublishSubscriberCreated(ctx context.Context, event models.SubscriberCreatedEvent) error {
	return m.Called(ctx, event).Error(0)
}

// memRepo хранит подписчиков в памяти и, как и настоящая база,
// обеспечивает уникальность email без учёта регистра.
type memRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[string]*models.Subscriber
}

func newMemRepo() *memRepo {
	return &memRepo{rows: make(map[string]*models.Subscriber)}
}

func (r *memRepo) FindSubscriberByEmail(_ context.Context, email string) (*models.Subscriber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.rows[NormalizeEmail(email)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return sub, nil
}

func (r *memRepo) InsertSubscriber(_ context.Context, email, name string, at time.Time) (*models.Subscriber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := NormalizeEmail(email)
	if _, ok := r.rows[key]; ok {
		return nil, storage.ErrConstraintViolation
	}
	r.nextID++
	sub := &models.Subscriber{ID: r.nextID, Email: email, Name: name, SubscribedAt: at}
	r.rows[key] = sub
	return sub, nil
}

func (r *memRepo) ListSubscribers(context.Context) ([]*models.Subscriber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Subscriber, 0, len(r.rows))
	for _, sub := range r.rows {
		out = append(out, sub)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SubscribedAt.Equal(out[j].SubscribedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].SubscribedAt.After(out[j].SubscribedAt)
	})
	return out, nil
}

func (r *memRepo) CountSubscribers(context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows), nil
}

type noopCache struct{}

func (noopCache) Get(context.Context, string, any) (bool, error)        { return false, nil }
func (noopCache) Set(context.Context, string, any, time.Duration) error { return nil }
func (noopCache) Invalidate(context.Context, string) error              { return nil }

type noopPublisher struct{}

func (noopPublisher) PublishSubscriberCreated(context.Context, models.SubscriberCreatedEvent) error {
	return nil
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newMemService() (*Service, *memRepo) {
	repo := newMemRepo()
	return New(repo, noopCache{}, noopPublisher{}, newNoopLogger(), time.Minute), repo
}
