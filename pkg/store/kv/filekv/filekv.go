// Package filekv keeps every key as one JSON file inside a data directory.
package filekv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"github.com/de-tools/material-atlas/pkg/store/kv"
)

const defaultDir = "material-atlas-data"

type store struct {
	dir string
}

// Factory opens a directory backed substrate rooted at settings.Path.
func Factory(_ context.Context, settings kv.Settings) (kv.Substrate, error) {
	return New(settings.Path)
}

func New(dir string) (kv.Substrate, error) {
	if dir == "" {
		dir = defaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return &store{dir: dir}, nil
}

func (s *store) path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key)+".json")
}

func (s *store) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, kv.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return data, nil
}

// Put writes to a temporary file first so a crash never leaves a half
// written value behind.
func (s *store) Put(_ context.Context, key string, value []byte) error {
	tmp, err := os.CreateTemp(s.dir, ".put-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return fmt.Errorf("failed to replace key %q: %w", key, err)
	}
	return nil
}

func (s *store) Close() error {
	return nil
}
