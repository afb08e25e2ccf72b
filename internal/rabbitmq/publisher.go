package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/newsletter/internal/models"
)

// Channel часть *amqp.Channel, нужная для публикации.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// PublishMessage публикует сообщение в формате JSON.
func PublishMessage(ch Channel, exchange string, routingkey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingkey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Publisher публикует события о подписчиках в exchange newsletter.
type Publisher struct {
	ch Channel
}

// NewPublisher создаёт Publisher поверх открытого канала.
func NewPublisher(ch Channel) *Publisher {
	return &Publisher{ch: ch}
}

// PublishSubscriberCreated публикует событие subscriber.created.
func (p *Publisher) PublishSubscriberCreated(ctx context.Context, event models.SubscriberCreatedEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return PublishMessage(p.ch, Exchange, RoutingKeySubscriberCreated, event)
}

// NoopPublisher используется, когда брокер не настроен.
type NoopPublisher struct{}

func (NoopPublisher) PublishSubscriberCreated(context.Context, models.SubscriberCreatedEvent) error {
	return nil
}
