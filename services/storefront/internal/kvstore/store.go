package kvstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnavailable marks reads that failed in the store itself, as opposed to
// values that were read but could not be decoded.
var ErrUnavailable = errors.New("store unavailable")

// Store is a string-keyed byte store. Every storefront collection lives
// under a single key as a JSON array.
type Store interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type ReadStatus int

const (
	ReadOK ReadStatus = iota
	ReadEmpty
	ReadCorrupted
	ReadUnavailable
)

func (s ReadStatus) String() string {
	switch s {
	case ReadOK:
		return "ok"
	case ReadEmpty:
		return "empty"
	case ReadCorrupted:
		return "corrupted"
	case ReadUnavailable:
		return "unavailable"
	}
	return fmt.Sprintf("ReadStatus(%d)", int(s))
}

// ReadResult is the outcome of reading a collection. Value is only
// meaningful when Status is ReadOK. Err is set for ReadCorrupted and
// ReadUnavailable.
type ReadResult[T any] struct {
	Status ReadStatus
	Value  T
	Err    error
}

func (r ReadResult[T]) OK() bool {
	return r.Status == ReadOK
}

// Unavailable reports whether the store could not be reached. Callers that
// write the collection back must not treat this as an empty collection.
func (r ReadResult[T]) Unavailable() bool {
	return r.Status == ReadUnavailable
}

// OrDefault returns the stored value, or initial when the key was empty or
// unreadable.
func (r ReadResult[T]) OrDefault(initial T) T {
	if r.Status == ReadOK {
		return r.Value
	}
	return initial
}

var jsonNull = []byte("null")

// ReadCollection loads and decodes the value under key.
func ReadCollection[T any](ctx context.Context, store Store, key string) ReadResult[T] {
	data, found, err := store.Get(ctx, key)
	if err != nil {
		return ReadResult[T]{Status: ReadUnavailable, Err: fmt.Errorf("read %s: %w: %w", key, ErrUnavailable, err)}
	}

	data = bytes.TrimSpace(data)
	if !found || len(data) == 0 || bytes.Equal(data, jsonNull) {
		return ReadResult[T]{Status: ReadEmpty}
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return ReadResult[T]{Status: ReadCorrupted, Err: fmt.Errorf("decode %s: %w", key, err)}
	}

	return ReadResult[T]{Status: ReadOK, Value: value}
}

// WriteCollection encodes value and overwrites whatever is stored under key.
func WriteCollection[T any](ctx context.Context, store Store, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	if err := store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
