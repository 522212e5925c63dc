package broker

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// rabbitMQBroker publishes to a durable topic exchange named after the topic. The routing key is
// the message route, so consumers bind queues to the kinds they need.
type rabbitMQBroker struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	logger   *zap.Logger
}

func newRabbitMQBroker(_ context.Context, cfg Config, logger *zap.Logger) (_ *rabbitMQBroker, err error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("broker: rabbitmq dial: %w", err)
	}
	defer func() {
		if err != nil {
			_ = conn.Close()
		}
	}()

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("broker: rabbitmq channel: %w", err)
	}
	if err = ch.ExchangeDeclare(cfg.Topic, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("broker: rabbitmq declare exchange %s: %w", cfg.Topic, err)
	}

	b := &rabbitMQBroker{conn: conn, ch: ch, exchange: cfg.Topic, logger: logger}
	go b.watch(conn.NotifyClose(make(chan *amqp.Error, 1)))
	return b, nil
}

func (b *rabbitMQBroker) watch(closed <-chan *amqp.Error) {
	if err, ok := <-closed; ok && err != nil {
		b.logger.Error("rabbitmq connection lost", zap.Error(err))
	}
}

func (b *rabbitMQBroker) Send(ctx context.Context, msg Message) error {
	err := b.ch.PublishWithContext(ctx, b.exchange, msg.Route(), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.Key,
		Type:         msg.Kind,
		Body:         msg.Body,
	})
	if err != nil {
		return fmt.Errorf("broker: rabbitmq publish %s: %w", msg.Kind, err)
	}
	return nil
}

func (b *rabbitMQBroker) Close() error {
	if err := b.ch.Close(); err != nil {
		b.logger.Warn("rabbitmq channel close", zap.Error(err))
	}
	return b.conn.Close()
}
