package newsletter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"
	"golang.org/x/sync/errgroup"

	"github.com/magabrotheeeer/newsletter/internal/cache"
	"github.com/magabrotheeeer/newsletter/internal/config"
	grpcserver "github.com/magabrotheeeer/newsletter/internal/grpc/server"
	"github.com/magabrotheeeer/newsletter/internal/http/handlers/health"
	"github.com/magabrotheeeer/newsletter/internal/http/middlewarectx"
	"github.com/magabrotheeeer/newsletter/internal/lib/jwt"
	"github.com/magabrotheeeer/newsletter/internal/lib/sl"
	"github.com/magabrotheeeer/newsletter/internal/rabbitmq"
	"github.com/magabrotheeeer/newsletter/internal/services/auth"
	"github.com/magabrotheeeer/newsletter/internal/services/session"
	"github.com/magabrotheeeer/newsletter/internal/services/subscription"
	"github.com/magabrotheeeer/newsletter/internal/storage"
	"github.com/magabrotheeeer/newsletter/internal/storage/database"
)

const shutdownTimeout = 15 * time.Second

// dependencyCache объединяет кеш redis и его заглушку.
type dependencyCache interface {
	subscription.Cache
	Ping(ctx context.Context) error
	Close() error
}

// App объединяет HTTP-сервер рассылки и, если он включён, gRPC health-сервер.
type App struct {
	server  *http.Server
	health  *grpcserver.HealthServer
	grpcLis net.Listener
	logger  *slog.Logger
	store   storage.Store
	cache   dependencyCache
	amqp    *amqp.Connection
}

// New поднимает зависимости по cfg. Отсутствующие адреса redis и rabbitmq
// отключают кеш и публикацию событий соответственно.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.newsletter.New"

	store, err := database.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	a := &App{logger: logger, store: store, cache: cache.Noop{}}

	var cachePinger health.Pinger
	if cfg.AddressRedis != "" {
		redisCache, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		a.cache = redisCache
		cachePinger = redisCache
		logger.Info("redis cache enabled", slog.String("address", cfg.AddressRedis))
	} else {
		logger.Info("redis address is empty, cache disabled")
	}

	var events subscription.EventPublisher = rabbitmq.NoopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.MaxRetries, cfg.RabbitMQ.RetryDelay)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		a.amqp = conn
		ch, err := rabbitmq.SetupChannel(conn, rabbitmq.WelcomeQueues())
		if err != nil {
			a.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		events = rabbitmq.NewPublisher(ch)
		logger.Info("subscriber events enabled")
	} else {
		logger.Info("rabbitmq url is empty, subscriber events disabled")
	}

	services := Services{
		Subscriptions: subscription.New(store, a.cache, events, logger, cfg.ListTTL),
		Auth:          auth.New(store, logger),
		Sessions:      session.NewManager(jwt.NewJWTMaker(cfg.Session.SecretKey, cfg.Session.TTL), a.cache, logger),
		Storage:       store,
		Cache:         cachePinger,
		LoginLimiter:  middlewarectx.NewIPRateLimiter(cfg.LoginRPS, cfg.LoginBurst),
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, services)

	a.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	if cfg.AddressGRPC != "" {
		lis, err := net.Listen("tcp", cfg.AddressGRPC)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		a.grpcLis = lis
		a.health = grpcserver.NewHealthServer(store, cfg.CheckInterval, logger)
	}

	return a, nil
}

// Handler возвращает корневой HTTP-обработчик.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run обслуживает запросы до отмены ctx, затем корректно останавливает серверы
// и закрывает зависимости.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		return a.server.Shutdown(timeoutCtx)
	})

	if a.health != nil {
		g.Go(func() error {
			return a.health.Serve(gctx, a.grpcLis)
		})
	}

	return g.Wait()
}

func (a *App) close() {
	if a.amqp != nil {
		if err := a.amqp.Close(); err != nil {
			a.logger.Warn("failed to close rabbitmq connection", sl.Err(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("failed to close cache", sl.Err(err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("failed to close storage", sl.Err(err))
		}
	}
}
