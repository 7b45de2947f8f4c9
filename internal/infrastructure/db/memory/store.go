// Package memory provides a process-local KVStore. It backs development runs
// and tests; state is lost when the process exits.
package memory

import (
	"context"
	"fmt"
	"sync"

	json "github.com/goccy/go-json"

	"github.com/clockwise/attendance-tracker/internal/core/ports"
)

// Store keeps encoded values in a map guarded by a single lock.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ ports.KVStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{data: make(map[string][]byte)}
}

func (s *Store) Get(_ context.Context, key string, dst any) (bool, error) {
	s.mu.RLock()
	raw, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("memory get %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("memory set %s: %w", key, err)
	}
	s.mu.Lock()
	s.data[key] = raw
	s.mu.Unlock()
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

// Update holds the write lock for the whole of fn, so transactions are
// serialised. Pending writes are applied only if fn succeeds.
func (s *Store) Update(ctx context.Context, keys []string, fn func(tx ports.KVTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &memTx{store: s, allowed: keySet(keys), pending: make(map[string][]byte)}
	if err := fn(tx); err != nil {
		return err
	}
	for k, v := range tx.pending {
		s.data[k] = v
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Close(context.Context) error {
	return nil
}

// Keys returns the keys currently present. Used by tests and diagnostics.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.data))
	for k := range s.data {
		out = append(out, k)
	}
	return out
}

type memTx struct {
	store   *Store
	allowed map[string]struct{}
	pending map[string][]byte
}

func (t *memTx) Get(key string, dst any) (bool, error) {
	if _, ok := t.allowed[key]; !ok {
		return false, fmt.Errorf("memory tx: key %q not declared", key)
	}
	raw, ok := t.pending[key]
	if !ok {
		raw, ok = t.store.data[key]
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("memory tx get %s: %w", key, err)
	}
	return true, nil
}

func (t *memTx) Set(key string, value any) error {
	if _, ok := t.allowed[key]; !ok {
		return fmt.Errorf("memory tx: key %q not declared", key)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("memory tx set %s: %w", key, err)
	}
	t.pending[key] = raw
	return nil
}

func keySet(keys []string) map[string]struct{} {
	m := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		m[k] = struct{}{}
	}
	return m
}
