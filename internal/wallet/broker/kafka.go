package broker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	kafka "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const kafkaBatchTimeout = 20 * time.Millisecond

// kafkaBroker writes every kind to one topic. Messages of a key land on one partition and carry
// their kind in a header.
type kafkaBroker struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func newKafkaBroker(cfg Config, logger *zap.Logger) (*kafkaBroker, error) {
	addrs := kafkaAddrs(cfg.URL)
	if len(addrs) == 0 {
		return nil, errors.New("broker: kafka url lists no brokers")
	}
	return &kafkaBroker{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(addrs...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: kafkaBatchTimeout,
			ErrorLogger:  kafka.LoggerFunc(logger.Sugar().Errorf),
		},
		logger: logger,
	}, nil
}

func (b *kafkaBroker) Send(ctx context.Context, msg Message) error {
	err := b.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(msg.Key),
		Value:   msg.Body,
		Headers: []kafka.Header{{Key: "kind", Value: []byte(msg.Kind)}},
	})
	if err != nil {
		return fmt.Errorf("broker: kafka write %s: %w", msg.Kind, err)
	}
	return nil
}

func (b *kafkaBroker) Close() error {
	stats := b.writer.Stats()
	b.logger.Info("kafka writer closing", zap.Int64("messages", stats.Messages), zap.Int64("errors", stats.Errors))
	return b.writer.Close()
}

// kafkaAddrs parses a comma separated broker list.
func kafkaAddrs(url string) []string {
	var addrs []string
	for _, a := range strings.Split(url, ",") {
		if a = strings.TrimSpace(a); a != "" {
			addrs = append(addrs, a)
		}
	}
	return addrs
}
