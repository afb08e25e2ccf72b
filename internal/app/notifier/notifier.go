// Package notifier собирает фоновый сервис, отправляющий приветственные письма
// по событиям subscriber.created.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/newsletter/internal/config"
	"github.com/magabrotheeeer/newsletter/internal/lib/sl"
	"github.com/magabrotheeeer/newsletter/internal/lib/smtp"
	"github.com/magabrotheeeer/newsletter/internal/rabbitmq"
	services "github.com/magabrotheeeer/newsletter/internal/services/sender"
)

// WelcomeSender отправляет приветственное письмо по телу события.
type WelcomeSender interface {
	SendWelcome(body []byte) error
}

// App читает очередь приветственных писем.
type App struct {
	conn    *amqp.Connection
	ch      *amqp.Channel
	sender  WelcomeSender
	workers int
	logger  *slog.Logger
}

// New подключается к брокеру и объявляет очереди.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.notifier.New"

	if cfg.RabbitMQ.URL == "" {
		return nil, fmt.Errorf("%s: rabbitmq url is empty", op)
	}
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("%s: smtp host is empty", op)
	}

	conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.MaxRetries, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.WelcomeQueues())
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)

	return &App{
		conn:    conn,
		ch:      ch,
		sender:  services.NewSenderService(logger, transport),
		workers: cfg.RabbitMQ.Workers,
		logger:  logger,
	}, nil
}

// WelcomeHandler переводит ошибки отправки в решения о судьбе сообщения:
// неразборчивое событие отбрасывается, остальные ошибки возвращают его в очередь.
func WelcomeHandler(sender WelcomeSender) rabbitmq.Handler {
	return func(_ context.Context, body []byte) error {
		err := sender.SendWelcome(body)
		if errors.Is(err, services.ErrBadMessage) {
			return fmt.Errorf("%w: %w", rabbitmq.ErrDrop, err)
		}
		return err
	}
}

// Run обрабатывает очередь до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("notifier consuming", slog.String("queue", rabbitmq.QueueWelcome), slog.Int("workers", a.workers))

	err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.QueueWelcome, a.workers, a.logger, WelcomeHandler(a.sender))
	if err != nil {
		a.logger.Error("failed to start welcome consumer", sl.Err(err))
	}

	a.logger.Info("notifier shutting down gracefully")
	if cerr := a.ch.Close(); cerr != nil {
		a.logger.Error("failed to close channel", sl.Err(cerr))
	}
	if cerr := a.conn.Close(); cerr != nil {
		a.logger.Error("failed to close connection", sl.Err(cerr))
	}
	return err
}
