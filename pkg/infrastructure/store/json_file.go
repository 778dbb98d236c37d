package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/mateusmacedo/go-railbook/pkg/application"
	"github.com/mateusmacedo/go-railbook/pkg/domain"
)

// JSONFileStore keeps a whole collection as one JSON array on disk.
type JSONFileStore[T any] struct {
	mu     sync.Mutex
	path   string
	logger application.AppLogger
}

func NewJSONFileStore[T any](path string, logger application.AppLogger) domain.RecordStore[T] {
	return &JSONFileStore[T]{
		path:   path,
		logger: logger,
	}
}

// LoadAll reads the collection. A missing file is created holding an
// empty array.
func (s *JSONFileStore[T]) LoadAll(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		application.LogInfo(ctx, s.logger, "store file not found, creating empty collection", map[string]interface{}{
			"path": s.path,
		})
		if err := s.write([]byte("[]")); err != nil {
			return nil, err
		}
		return []T{}, nil
	}
	if err != nil {
		application.LogError(ctx, s.logger, "failed to read store file", err, map[string]interface{}{
			"path": s.path,
		})
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		application.LogError(ctx, s.logger, "failed to decode store file", err, map[string]interface{}{
			"path": s.path,
		})
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	if records == nil {
		records = []T{}
	}

	application.LogDebug(ctx, s.logger, "collection loaded", map[string]interface{}{
		"path":  s.path,
		"count": len(records),
	})
	return records, nil
}

func (s *JSONFileStore[T]) SaveAll(ctx context.Context, records []T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if records == nil {
		records = []T{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.write(data); err != nil {
		application.LogError(ctx, s.logger, "failed to write store file", err, map[string]interface{}{
			"path": s.path,
		})
		return err
	}

	application.LogDebug(ctx, s.logger, "collection saved", map[string]interface{}{
		"path":  s.path,
		"count": len(records),
	})
	return nil
}

// write replaces the file through a sibling temp file so a crash never
// leaves a half-written collection behind.
func (s *JSONFileStore[T]) write(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", s.path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", s.path, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", s.path, err)
	}
	return nil
}
