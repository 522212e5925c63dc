// Package broker publishes wallet events to a message broker.
package broker

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Message is an encoded Envelope on its way to a driver.
type Message struct {
	Kind string
	Key  string
	Body []byte
}

// Route is the suffix appended to the configured topic for the message kind.
func (m Message) Route() string {
	if r, ok := routes[m.Kind]; ok {
		return r
	}
	return "other"
}

// Broker delivers messages. Send must be safe for concurrent use.
type Broker interface {
	Send(ctx context.Context, msg Message) error
	Close() error
}

const (
	DriverNone     = "none"
	DriverKafka    = "kafka"
	DriverNATS     = "nats"
	DriverRabbitMQ = "rabbitmq"
)

// Config selects the driver. Topic is a kafka topic, a NATS subject prefix or a RabbitMQ
// exchange depending on Driver.
type Config struct {
	Driver string
	URL    string
	Topic  string
}

func (c Config) driver() string {
	d := strings.ToLower(strings.TrimSpace(c.Driver))
	if d == "" {
		return DriverNone
	}
	return d
}

func (c Config) validate() error {
	switch c.driver() {
	case DriverNone:
		return nil
	case DriverKafka, DriverNATS, DriverRabbitMQ:
	default:
		return fmt.Errorf("broker: unsupported driver %q", c.Driver)
	}
	if strings.TrimSpace(c.URL) == "" {
		return fmt.Errorf("broker: %s url is required", c.driver())
	}
	if strings.TrimSpace(c.Topic) == "" {
		return fmt.Errorf("broker: %s topic is required", c.driver())
	}
	return nil
}

// Open connects the configured driver. Without a driver, messages are dropped.
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (Broker, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	logger = logger.Named("broker").With(zap.String("driver", cfg.driver()), zap.String("topic", cfg.Topic))

	var (
		br  Broker
		err error
	)
	switch cfg.driver() {
	case DriverNone:
		return discard{}, nil
	case DriverKafka:
		br, err = newKafkaBroker(cfg, logger)
	case DriverNATS:
		br, err = newNATSBroker(cfg, logger)
	case DriverRabbitMQ:
		br, err = newRabbitMQBroker(ctx, cfg, logger)
	}
	if err != nil {
		return nil, err
	}
	logger.Info("broker connected")
	return br, nil
}

type discard struct{}

func (discard) Send(context.Context, Message) error { return nil }

func (discard) Close() error { return nil }
