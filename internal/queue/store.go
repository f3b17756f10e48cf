package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// Store abstracts durable persistence of the full queue state. The persist
// step is the atomic boundary: a crash mid-write must never leave a request
// duplicated across pending and completed.
type Store interface {
	// Load returns the current state, initializing an empty one if no
	// state has ever been persisted.
	Load() (*State, error)
	// Save durably replaces the state.
	Save(*State) error
}

// FileStore persists the queue as a single JSON document. Writes go to a
// temporary file first and are renamed into place; the rename is atomic on
// POSIX systems, so readers never observe a partially written document.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore at path, initializing the file with an
// empty queue state if it does not exist yet.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := s.Save(newState(time.Now().UTC())); err != nil {
			return nil, fmt.Errorf("initialize queue file: %w", err)
		}
	} else if err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads and decodes the queue file. A missing or corrupt file is
// replaced with a freshly initialized state rather than failing the
// operation; a backup of corrupt content is left beside the file.
func (s *FileStore) Load() (*State, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return s.reinitialize()
	}
	if err != nil {
		return nil, err
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		// Keep the bad payload around for inspection before recovering.
		_ = os.WriteFile(s.path+".corrupt", data, 0o644)
		return s.reinitialize()
	}
	if st.PendingRequests == nil {
		st.PendingRequests = []PurchaseRequest{}
	}
	if st.CompletedRequests == nil {
		st.CompletedRequests = []PurchaseRequest{}
	}
	return &st, nil
}

// Save writes the state atomically and stamps metadata.last_updated.
func (s *FileStore) Save(st *State) error {
	st.Metadata.LastUpdated = time.Now().UTC()
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(s.path, data, 0o644)
}

func (s *FileStore) reinitialize() (*State, error) {
	st := newState(time.Now().UTC())
	if err := s.Save(st); err != nil {
		return nil, err
	}
	return st, nil
}

// atomicWriteFile writes data to a temporary sibling file and renames it
// over the target path. The rename prevents a crash mid-write from leaving
// a truncated JSON document behind.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
