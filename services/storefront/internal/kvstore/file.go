package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File persists all keys as one JSON snapshot on disk. Values are kept as
// raw strings so a damaged entry stays damaged instead of breaking the
// whole snapshot.
type File struct {
	path string

	mu   sync.RWMutex
	data map[string]string
}

func NewFile(path string) *File {
	return &File{path: path, data: make(map[string]string)}
}

// Start loads the snapshot if one exists.
func (f *File) Start(ctx context.Context) error {
	snap, err := readSnapshot(f.path)
	if err != nil {
		return fmt.Errorf("cannot load snapshot %s: %w", f.path, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if snap != nil {
		f.data = snap
	}
	return nil
}

func (f *File) Stop(ctx context.Context) error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return writeSnapshot(f.path, f.data)
}

func (f *File) Get(ctx context.Context, key string) ([]byte, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	value, ok := f.data[key]
	if !ok {
		return nil, false, nil
	}
	return []byte(value), true, nil
}

func (f *File) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	prev, existed := f.data[key]
	f.data[key] = string(value)
	if err := writeSnapshot(f.path, f.data); err != nil {
		if existed {
			f.data[key] = prev
		} else {
			delete(f.data, key)
		}
		return err
	}
	return nil
}

func (f *File) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	prev, existed := f.data[key]
	if !existed {
		return nil
	}
	delete(f.data, key)
	if err := writeSnapshot(f.path, f.data); err != nil {
		f.data[key] = prev
		return err
	}
	return nil
}

func readSnapshot(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	snap := make(map[string]string)
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func writeSnapshot(path string, snap map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create snapshot dir: %w", err)
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	temp := path + ".tmp"
	if err := os.WriteFile(temp, data, 0o644); err != nil {
		return fmt.Errorf("cannot write snapshot: %w", err)
	}
	return os.Rename(temp, path)
}
