package kv

import (
	"context"
	"sync"
)

type MemStore struct {
	mu sync.RWMutex
	m  map[string][]byte

	// MaxBytes caps the total stored size when > 0, like a browser quota.
	MaxBytes int
}

func NewMemStore() *MemStore {
	return &MemStore{m: map[string][]byte{}}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Read(ctx context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, ErrEmptyKey
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.m[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *MemStore) Write(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.MaxBytes > 0 && s.sizeWith(key, len(value)) > s.MaxBytes {
		return ErrQuotaExceeded
	}
	s.m[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemStore) sizeWith(key string, n int) int {
	total := len(key) + n
	for k, v := range s.m {
		if k == key {
			continue
		}
		total += len(k) + len(v)
	}
	return total
}
