package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore appends entries to a JSONL file, one JSON object per line.
// Suitable for single-instance deployments and local development.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates the parent directory if needed. If path is empty,
// defaults to feedback.jsonl in the user cache directory.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("get cache dir: %w", err)
		}
		path = filepath.Join(dir, "wafermap", "feedback.jsonl")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("create feedback dir: %w", err)
		}
	}
	return &FileStore{path: path}, nil
}

// Save appends the entry as one JSON line.
func (s *FileStore) Save(ctx context.Context, entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal feedback: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open feedback file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write feedback: %w", err)
	}
	return nil
}

// Close does nothing for the file store.
func (s *FileStore) Close(ctx context.Context) error { return nil }

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
