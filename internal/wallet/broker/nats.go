package broker

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const natsConnectTimeout = 5 * time.Second

// natsBroker publishes each kind on its own subject under the topic, e.g. wallet.note.spent.
type natsBroker struct {
	conn   *nats.Conn
	prefix string
	logger *zap.Logger
}

func newNATSBroker(cfg Config, logger *zap.Logger) (*natsBroker, error) {
	conn, err := nats.Connect(cfg.URL,
		nats.Name("shieldsync-syncer"),
		nats.Timeout(natsConnectTimeout),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", zap.String("url", c.ConnectedUrlRedacted()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("broker: nats connect: %w", err)
	}
	return &natsBroker{conn: conn, prefix: cfg.Topic, logger: logger}, nil
}

func (b *natsBroker) subject(msg Message) string {
	return b.prefix + "." + msg.Route()
}

func (b *natsBroker) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := nats.NewMsg(b.subject(msg))
	m.Data = msg.Body
	m.Header.Set("Wallet-Event", msg.Kind)
	m.Header.Set("Wallet-Key", msg.Key)
	if err := b.conn.PublishMsg(m); err != nil {
		return fmt.Errorf("broker: nats publish %s: %w", m.Subject, err)
	}
	return nil
}

// Close flushes pending messages before disconnecting.
func (b *natsBroker) Close() error {
	return b.conn.Drain()
}
