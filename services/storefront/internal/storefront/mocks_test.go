package storefront

import (
	"context"
	"sync"
	"time"

	"github.com/appetiteclub/storefront/services/storefront/internal/kvstore"
)

// MockPublisher is a test mock for events.Publisher
type MockPublisher struct {
	mu              sync.Mutex
	PublishedEvents []PublishedEvent
	PublishFunc     func(ctx context.Context, topic string, data []byte) error
}

type PublishedEvent struct {
	Topic string
	Data  []byte
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		PublishedEvents: make([]PublishedEvent, 0),
	}
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, data []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublishedEvents = append(m.PublishedEvents, PublishedEvent{Topic: topic, Data: data})
	return nil
}

func (m *MockPublisher) Topics() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	topics := make([]string, len(m.PublishedEvents))
	for i, e := range m.PublishedEvents {
		topics[i] = e.Topic
	}
	return topics
}

// MockStore wraps a memory store and lets tests fail or count calls.
type MockStore struct {
	*kvstore.Memory
	mu       sync.Mutex
	SetCalls int
	GetFunc  func(ctx context.Context, key string) ([]byte, bool, error)
	SetFunc  func(ctx context.Context, key string, value []byte) error
}

func NewMockStore() *MockStore {
	return &MockStore{Memory: kvstore.NewMemory()}
}

func (m *MockStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return m.Memory.Get(ctx, key)
}

func (m *MockStore) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	m.SetCalls++
	m.mu.Unlock()
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value)
	}
	return m.Memory.Set(ctx, key, value)
}

func (m *MockStore) raw(key string) string {
	data, _, _ := m.Memory.Get(context.Background(), key)
	return string(data)
}

func (m *MockStore) put(key, value string) {
	_ = m.Memory.Set(context.Background(), key, []byte(value))
}

// newTestRepo builds a repository over a fresh mock store with zero latency
// and a clock that advances one second per call.
func newTestRepo(opts RepoOptions) (*Repo, *MockStore) {
	store := NewMockStore()
	repo := NewRepo(store, opts, nil)

	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	repo.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		clock = clock.Add(time.Second)
		return clock
	}
	return repo, store
}
