package history

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidyapp/tidy/internal/fsops"
)

// Store persists the history document.
//
// The document is read and written as a whole; there is no partial-write
// protocol. Saves go through an atomic temp-file-then-rename so a crashed
// writer can never truncate the journal. Callers must not run two
// history-mutating operations concurrently against the same store.
type Store interface {
	// Load reads the whole document. A missing store file yields an empty
	// document at the current version, not an error.
	Load() (*Document, error)

	// Save writes the whole document atomically.
	Save(doc *Document) error
}

// FileStore implements Store using a JSON file on disk.
type FileStore struct {
	fs   fsops.FS
	path string
}

// NewFileStore creates a FileStore persisting to the given path.
func NewFileStore(fs fsops.FS, path string) *FileStore {
	return &FileStore{fs: fs, path: path}
}

// Load reads the history document from disk.
func (s *FileStore) Load() (*Document, error) {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewDocument(), nil
		}
		return nil, fmt.Errorf("failed to read history store: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal history store: %w", err)
	}
	if doc.Version == "" {
		doc.Version = StoreVersion
	}
	if doc.Entries == nil {
		doc.Entries = []OperationHistoryEntry{}
	}

	return &doc, nil
}

// Save writes the history document atomically.
func (s *FileStore) Save(doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history store: %w", err)
	}

	if err := s.fs.AtomicWrite(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write history store: %w", err)
	}

	return nil
}
