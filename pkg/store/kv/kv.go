// Package kv defines the opaque key-value substrate the report collection is
// persisted into, plus a registry of substrate backends.
package kv

import (
	"context"
	"errors"
	"sync"
)

// ErrKeyNotFound is returned by Get when nothing was ever stored under the key.
var ErrKeyNotFound = errors.New("kv: key not found")

// Substrate stores whole values under string keys. Put replaces any previous
// value of the key.
type Substrate interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Settings carries the backend specific options of a substrate.
type Settings struct {
	// Path is the data directory (file) or database file (sqlite).
	Path string
	// Table holds the key-value rows of SQL backends.
	Table string
	// Profile points at the backend credentials file.
	Profile string
	// ProfileName selects a section inside the credentials file.
	ProfileName string
	HTTPPath    string
	Bucket      string
	Prefix      string
	Region      string
}

// Memory is an in-process substrate. It is used in tests and as a scratch
// backend.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), value...), nil
}

func (m *Memory) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Close() error {
	return nil
}
