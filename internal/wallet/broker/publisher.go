package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
)

// Event is a payload to publish. Key routes related messages together; it defaults to the network.
type Event struct {
	Kind    string
	Height  uint64
	Key     string
	Payload any
}

// Publisher wraps events in an Envelope and hands them to a Broker.
type Publisher struct {
	br      Broker
	network model.Network
	logger  *zap.Logger
}

func NewPublisher(br Broker, network model.Network, logger *zap.Logger) (*Publisher, error) {
	if br == nil {
		return nil, errors.New("publisher: broker is nil")
	}
	return &Publisher{br: br, network: network, logger: logger.Named("publisher")}, nil
}

// Publish sends events in order and stops at the first failure.
func (p *Publisher) Publish(ctx context.Context, events ...Event) error {
	for _, e := range events {
		payload, err := json.Marshal(e.Payload)
		if err != nil {
			return fmt.Errorf("publisher: marshal %s payload: %w", e.Kind, err)
		}
		value, err := json.Marshal(Envelope{
			Version: "v1",
			Kind:    e.Kind,
			Network: string(p.network),
			Height:  e.Height,
			Payload: payload,
		})
		if err != nil {
			return fmt.Errorf("publisher: marshal envelope: %w", err)
		}

		key := e.Key
		if key == "" {
			key = string(p.network)
		}
		if err := p.br.Send(ctx, Message{Kind: e.Kind, Key: key, Body: value}); err != nil {
			return err
		}
		p.logger.Debug("event published", zap.String("kind", e.Kind), zap.Uint64("height", e.Height))
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.br.Close()
}
