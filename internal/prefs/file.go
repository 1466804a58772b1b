package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const fileVersion = "1"

type fileContents struct {
	Version string            `json:"version"`
	Items   map[string]string `json:"items"`
}

// FileStore keeps preferences in a JSON file. Every SetItem rewrites the file.
type FileStore struct {
	mu   sync.RWMutex
	path string
}

// NewFileStore creates a store backed by path. The file is created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) read() (fileContents, error) {
	contents := fileContents{Version: fileVersion, Items: map[string]string{}}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return contents, nil
		}
		return contents, fmt.Errorf("failed to read preferences: %w", err)
	}
	if err := json.Unmarshal(data, &contents); err != nil {
		return contents, fmt.Errorf("failed to parse preferences: %w", err)
	}
	if contents.Items == nil {
		contents.Items = map[string]string{}
	}
	return contents, nil
}

// GetItem returns the stored value for key.
func (s *FileStore) GetItem(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contents, err := s.read()
	if err != nil {
		return "", false, err
	}
	v, ok := contents.Items[key]
	return v, ok, nil
}

// SetItem stores value under key.
func (s *FileStore) SetItem(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	contents, err := s.read()
	if err != nil {
		// A corrupt file is replaced rather than blocking every future write.
		contents = fileContents{Version: fileVersion, Items: map[string]string{}}
	}
	contents.Items[key] = value

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}
	data, err := json.MarshalIndent(contents, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }
