package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// FileStore keeps every key in one JSON or YAML document. Writes replace
// the file atomically via a temp file and rename.
type FileStore struct {
	mu     sync.Mutex
	path   string
	format Format
}

func OpenFile(path string) (*FileStore, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("storage: empty file path")
	}
	if err := ensureDir(trimmed); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileStore{path: trimmed, format: FormatForPath(trimmed)}, nil
}

func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Close() error { return nil }

func (f *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := entries[key]
	return v, ok, nil
}

func (f *FileStore) Put(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.read()
	if err != nil {
		return err
	}
	entries[key] = value
	return f.write(entries)
}

func (f *FileStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := entries[key]; !ok {
		return ErrNotFound
	}
	delete(entries, key)
	return f.write(entries)
}

func (f *FileStore) read() (map[string]string, error) {
	out := make(map[string]string)
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, err
	}
	if strings.TrimSpace(string(raw)) == "" {
		return out, nil
	}
	switch f.format {
	case FormatYAML:
		err = yaml.Unmarshal(raw, &out)
	default:
		err = json.Unmarshal(raw, &out)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return out, nil
}

func (f *FileStore) write(entries map[string]string) error {
	var (
		payload []byte
		err     error
	)
	switch f.format {
	case FormatYAML:
		payload, err = yaml.Marshal(maps.Clone(entries))
	default:
		payload, err = json.MarshalIndent(entries, "", "  ")
		payload = append(payload, '\n')
	}
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}
