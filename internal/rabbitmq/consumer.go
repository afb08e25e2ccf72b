package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/newsletter/internal/lib/sl"
)

// ErrDrop означает, что сообщение не удастся обработать и повторять его не нужно.
var ErrDrop = errors.New("drop message")

// Handler обрабатывает тело сообщения.
type Handler func(ctx context.Context, body []byte) error

// ConsumerMessage читает очередь до отмены ctx или закрытия канала, обрабатывая
// до workers сообщений одновременно. Сообщение подтверждается после успешной
// обработки; при ошибке возвращается в очередь один раз, при повторной ошибке
// или ErrDrop отбрасывается.
func ConsumerMessage(ctx context.Context, ch *amqp.Channel, queueName string, workers int, log *slog.Logger, handler Handler) error {
	const op = "rabbitmq.ConsumerMessage"
	delivery, err := ch.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	serve(ctx, delivery, workers, log, handler)
	return nil
}

// Acknowledger часть amqp.Delivery для подтверждения сообщений.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func serve(ctx context.Context, delivery <-chan amqp.Delivery, workers int, log *slog.Logger, handler Handler) {
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case d, ok := <-delivery:
			if !ok {
				return
			}
			sem <- struct{}{}
			wg.Add(1)
			go func(d amqp.Delivery) {
				defer func() {
					<-sem
					wg.Done()
				}()
				handle(ctx, d.Body, d.Redelivered, d, log, handler)
			}(d)
		case <-ctx.Done():
			return
		}
	}
}

func handle(ctx context.Context, body []byte, redelivered bool, ack Acknowledger, log *slog.Logger, handler Handler) {
	err := handler(ctx, body)
	switch {
	case err == nil:
		if ackErr := ack.Ack(false); ackErr != nil {
			log.Error("failed to ack message", sl.Err(ackErr))
		}
	case errors.Is(err, ErrDrop):
		log.Warn("dropping message", sl.Err(err))
		if nackErr := ack.Nack(false, false); nackErr != nil {
			log.Error("failed to nack message", sl.Err(nackErr))
		}
	case redelivered:
		log.Error("failed to handle redelivered message, dropping", sl.Err(err))
		if nackErr := ack.Nack(false, false); nackErr != nil {
			log.Error("failed to nack message", sl.Err(nackErr))
		}
	default:
		log.Error("failed to handle message", sl.Err(err))
		if nackErr := ack.Nack(false, true); nackErr != nil {
			log.Error("failed to nack message", sl.Err(nackErr))
		}
	}
}
