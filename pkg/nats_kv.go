package pkg

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// NATSKeyValue stores storefront collections in a JetStream key-value bucket.
// It is started and stopped by the service lifecycle.
type NATSKeyValue struct {
	url    string
	bucket string
	conn   *nats.Conn
	kv     jetstream.KeyValue
}

func NewNATSKeyValue(url, bucket string) *NATSKeyValue {
	return &NATSKeyValue{url: url, bucket: bucket}
}

func (s *NATSKeyValue) Start(ctx context.Context) error {
	conn, err := nats.Connect(s.url)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}

	kv, err := js.KeyValue(ctx, s.bucket)
	if errors.Is(err, jetstream.ErrBucketNotFound) {
		kv, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
			Bucket:      s.bucket,
			Description: "storefront collections",
			History:     1,
		})
	}
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open key-value bucket %s: %w", s.bucket, err)
	}

	s.conn = conn
	s.kv = kv
	return nil
}

func (s *NATSKeyValue) Stop(ctx context.Context) error {
	if s.conn != nil {
		s.conn.Close()
	}
	return nil
}

func (s *NATSKeyValue) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s.kv == nil {
		return nil, false, errors.New("key-value bucket not started")
	}

	entry, err := s.kv.Get(ctx, key)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cannot get %s: %w", key, err)
	}

	return entry.Value(), true, nil
}

func (s *NATSKeyValue) Set(ctx context.Context, key string, value []byte) error {
	if s.kv == nil {
		return errors.New("key-value bucket not started")
	}

	if _, err := s.kv.Put(ctx, key, value); err != nil {
		return fmt.Errorf("cannot put %s: %w", key, err)
	}
	return nil
}

func (s *NATSKeyValue) Delete(ctx context.Context, key string) error {
	if s.kv == nil {
		return errors.New("key-value bucket not started")
	}

	err := s.kv.Delete(ctx, key)
	if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("cannot delete %s: %w", key, err)
	}
	return nil
}
