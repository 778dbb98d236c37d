package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mateusmacedo/go-railbook/pkg/domain"
)

// MemoryStore holds a collection in process memory. Records are kept as
// their JSON encoding so callers never share backing arrays with the store.
type MemoryStore[T any] struct {
	mu      sync.RWMutex
	data    []byte
	saveErr error
}

// NewMemoryStore seeds the store with initial. It panics when a seed record
// cannot be encoded as JSON.
func NewMemoryStore[T any](initial ...T) *MemoryStore[T] {
	s := &MemoryStore[T]{}
	if len(initial) > 0 {
		data, err := json.Marshal(initial)
		if err != nil {
			panic(fmt.Sprintf("store: encode seed records: %v", err))
		}
		s.data = data
	}
	return s
}

var _ domain.RecordStore[struct{}] = (*MemoryStore[struct{}])(nil)

func (s *MemoryStore[T]) LoadAll(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	records := []T{}
	if len(s.data) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(s.data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *MemoryStore[T]) SaveAll(ctx context.Context, records []T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saveErr != nil {
		return s.saveErr
	}
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	s.data = data
	return nil
}

// Snapshot returns what was last saved.
func (s *MemoryStore[T]) Snapshot() []T {
	records, _ := s.LoadAll(context.Background())
	return records
}

// FailSaves makes every later SaveAll return err. Pass nil to recover.
func (s *MemoryStore[T]) FailSaves(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}
