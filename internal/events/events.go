package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

const subjectPrefix = "clinic."

type Publisher interface {
	Publish(ctx context.Context, subject string, data any) error
	Close() error
}

type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("clinic-api"))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NATSPublisher{conn: conn}, nil
}

func (n *NATSPublisher) Publish(ctx context.Context, subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", subject, err)
	}

	zerolog.Ctx(ctx).Debug().Str("subject", subjectPrefix+subject).Msg("publishing event")

	return n.conn.Publish(subjectPrefix+subject, payload)
}

func (n *NATSPublisher) Close() error {
	return n.conn.Drain()
}

// NopPublisher is used when NATS_URL is empty.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }

func (NopPublisher) Close() error { return nil }

// New connects to NATS when url is set and falls back to NopPublisher.
func New(url string) (Publisher, error) {
	if url == "" {
		return NopPublisher{}, nil
	}
	return NewNATSPublisher(url)
}
