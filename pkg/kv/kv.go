// Package kv stores opaque values under string keys. It plays the part the
// browser's local storage played: the task list is one blob under one key.
package kv

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound is returned by Get when nothing was stored under the key.
var ErrNotFound = errors.New("key not found")

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

var Backends = []string{BackendFile, BackendMemory, BackendSQLite, BackendRedis}

// Options selects and configures a backend.
type Options struct {
	Backend string
	// Path is a directory for the file backend and a database file for sqlite.
	Path string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Open creates the backend named in opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendFile, "":
		return NewFile(opts.Path)
	case BackendMemory:
		return NewMemory(), nil
	case BackendSQLite:
		return NewSQLite(opts.Path)
	case BackendRedis:
		return NewRedis(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
	}
	return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
}

// Memory keeps values for the lifetime of the process.
type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{values: map[string][]byte{}}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Close() error {
	return nil
}
