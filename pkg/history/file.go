package history

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/renderkit/husksubmit/pkg/errors"
)

// FileStore appends records to a JSONL file, one record per line.
// It is the default backend for single-workstation use.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a file-backed store at path, creating parent
// directories as needed.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create history dir")
	}
	return &FileStore{path: path}, nil
}

// Append writes one record as a JSON line.
func (s *FileStore) Append(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "open history file")
	}
	defer f.Close()

	data, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode history record")
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write history record")
	}
	return f.Sync()
}

// List returns records newest first. Lines that fail to decode are
// skipped rather than failing the whole listing.
func (s *FileStore) List(ctx context.Context, limit int) ([]*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open history file")
	}
	defer f.Close()

	var records []*Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		records = append(records, &rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read history file")
	}

	// File order is oldest first; reverse for newest first.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// Close does nothing for the file store.
func (s *FileStore) Close(ctx context.Context) error {
	return nil
}

var _ Store = (*FileStore)(nil)
