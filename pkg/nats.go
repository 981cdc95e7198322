package pkg

import (
	"context"
	"fmt"
	"time"

	"github.com/aquamarinepk/aqm/events"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// NATSPublisher publishes storefront events on plain NATS subjects. When a
// stream name is configured the subjects are also captured by a JetStream
// stream so operators can replay them.
type NATSPublisher struct {
	conn *nats.Conn
}

// NATSPublisherConfig configures a NATSPublisher.
type NATSPublisherConfig struct {
	URL        string
	StreamName string        // optional, e.g. "STOREFRONT_EVENTS"
	Subjects   []string      // subjects captured by the stream
	MaxAge     time.Duration // retention for captured events
}

func NewNATSPublisher(url string) (*NATSPublisher, error) {
	return NewNATSPublisherWithConfig(NATSPublisherConfig{URL: url})
}

func NewNATSPublisherWithConfig(cfg NATSPublisherConfig) (*NATSPublisher, error) {
	conn, err := nats.Connect(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	if cfg.StreamName != "" {
		if err := ensureStream(conn, cfg); err != nil {
			conn.Close()
			return nil, err
		}
	}

	return &NATSPublisher{conn: conn}, nil
}

func ensureStream(conn *nats.Conn, cfg NATSPublisherConfig) error {
	js, err := jetstream.New(conn)
	if err != nil {
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}

	streamConfig := jetstream.StreamConfig{
		Name:     cfg.StreamName,
		Subjects: cfg.Subjects,
		MaxAge:   cfg.MaxAge,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := js.CreateOrUpdateStream(ctx, streamConfig); err != nil {
		return fmt.Errorf("failed to create/update stream %s: %w", cfg.StreamName, err)
	}
	return nil
}

func (p *NATSPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	return p.conn.Publish(topic, msg)
}

func (p *NATSPublisher) Start(ctx context.Context) error {
	return nil
}

func (p *NATSPublisher) Stop(ctx context.Context) error {
	return p.Close()
}

func (p *NATSPublisher) Close() error {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
	return nil
}

// NATSSubscriber is used by operator tooling to follow storefront events.
type NATSSubscriber struct {
	conn *nats.Conn
}

func NewNATSSubscriber(url string) (*NATSSubscriber, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSSubscriber{conn: conn}, nil
}

// Subscribe delivers every message on topic to handler. Handler errors are
// passed to onError when it is not nil.
func (s *NATSSubscriber) Subscribe(ctx context.Context, topic string, handler events.HandlerFunc, onError func(subject string, err error)) error {
	_, err := s.conn.Subscribe(topic, func(msg *nats.Msg) {
		if err := handler(ctx, msg.Data); err != nil && onError != nil {
			onError(msg.Subject, err)
		}
	})
	return err
}

func (s *NATSSubscriber) Close() error {
	s.conn.Close()
	return nil
}
