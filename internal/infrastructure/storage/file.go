package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"calbot/internal/domain/entities"
	"calbot/internal/ports/output"
)

var _ output.EventStorage = (*FileStorage)(nil)

// FileStorage keeps the collection as a JSON array in one file, rewritten
// whole through a temp file + rename.
type FileStorage struct {
	path string
}

// NewFileStorage ensures the parent directory and an initial empty collection
// exist at path. Calling it on an existing file leaves the file untouched.
func NewFileStorage(path string) (*FileStorage, error) {
	if path == "" {
		return nil, errors.New("storage: events file path is empty")
	}
	s := &FileStorage{path: path}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("storage: create data dir: %w", err)
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := s.Write(context.Background(), []entities.Event{}); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("storage: stat %s: %w", path, err)
	}
	return s, nil
}

func (s *FileStorage) Path() string { return s.path }

func (s *FileStorage) Read(_ context.Context) []entities.Event {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("❌ Lecture de %s: %v", s.path, err)
		}
		return []entities.Event{}
	}
	return decodeEvents(data, s.path)
}

func (s *FileStorage) Write(_ context.Context, events []entities.Event) error {
	data, err := encodeEvents(events)
	if err != nil {
		return fmt.Errorf("storage: encode events: %w", err)
	}
	return writeFileAtomic(s.path, data)
}

func (s *FileStorage) Available(context.Context) bool { return true }

// writeFileAtomic writes data to a temp file in the target directory, then
// renames it over path.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("storage: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("storage: write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("storage: sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("storage: chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("storage: rename %s: %w", path, err)
	}
	return nil
}
