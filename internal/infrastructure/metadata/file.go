package metadata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"calbot/internal/ports/output"
)

var _ output.BroadcastMetadataStore = (*FileStore)(nil)

type entry struct {
	LastBroadcast int64 `json:"last_broadcast"`
}

// FileStore persists broadcast metadata as
// {"<event id>": {"last_broadcast": <unix seconds>}}.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load returns the stored entries. A missing or blank file is an empty map.
func (s *FileStore) Load() (map[string]time.Time, error) {
	out := make(map[string]time.Time)
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return out, nil
	}
	if err != nil {
		return out, fmt.Errorf("metadata: read %s: %w", s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return out, nil
	}
	var raw map[string]entry
	if err := json.Unmarshal(data, &raw); err != nil {
		return out, fmt.Errorf("metadata: parse %s: %w", s.path, err)
	}
	for id, e := range raw {
		out[id] = time.Unix(e.LastBroadcast, 0)
	}
	return out, nil
}

// Save rewrites the whole file through a temp file + rename.
func (s *FileStore) Save(entries map[string]time.Time) error {
	raw := make(map[string]entry, len(entries))
	for id, at := range entries {
		raw[id] = entry{LastBroadcast: at.Unix()}
	}
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("metadata: encode: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("metadata: create dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".broadcast-metadata-*.tmp")
	if err != nil {
		return fmt.Errorf("metadata: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("metadata: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("metadata: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("metadata: rename %s: %w", s.path, err)
	}
	return nil
}
