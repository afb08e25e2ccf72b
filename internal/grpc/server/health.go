// Package server реализует gRPC health-сервер сервиса рассылки.
//
// Статус обслуживания периодически обновляется по результату проверки хранилища.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/magabrotheeeer/newsletter/internal/lib/sl"
)

// ServiceName имя сервиса в протоколе grpc.health.v1.
const ServiceName = "newsletter"

// Pinger проверяет доступность хранилища.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthServer обслуживает grpc.health.v1.Health.
type HealthServer struct {
	grpcServer *grpc.Server
	health     *health.Server
	pinger     Pinger
	interval   time.Duration
	log        *slog.Logger
}

const defaultCheckInterval = 10 * time.Second

// NewHealthServer создает сервер и регистрирует в нём health-сервис.
// Неположительный interval заменяется на 10 секунд.
func NewHealthServer(pinger Pinger, interval time.Duration, log *slog.Logger) *HealthServer {
	if interval <= 0 {
		interval = defaultCheckInterval
	}
	hs := health.NewServer()
	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	return &HealthServer{
		grpcServer: srv,
		health:     hs,
		pinger:     pinger,
		interval:   interval,
		log:        log,
	}
}

// Check проверяет хранилище и выставляет статус для общего и именованного сервиса.
func (s *HealthServer) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	const op = "grpc.server.Check"

	status := healthpb.HealthCheckResponse_SERVING
	if err := s.pinger.Ping(ctx); err != nil {
		s.log.Warn("storage ping failed", slog.String("op", op), sl.Err(err))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
	return status
}

// Serve принимает соединения на lis, пока не отменён ctx.
func (s *HealthServer) Serve(ctx context.Context, lis net.Listener) error {
	const op = "grpc.server.Serve"

	s.Check(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("gRPC health server listening on", slog.String("address", lis.Addr().String()))
		errCh <- s.grpcServer.Serve(lis)
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.health.Shutdown()
			s.grpcServer.GracefulStop()
			return nil
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
			return nil
		case <-ticker.C:
			checkCtx, cancel := context.WithTimeout(ctx, s.interval)
			s.Check(checkCtx)
			cancel()
		}
	}
}
