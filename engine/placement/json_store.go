package placement

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

// JSONStore keeps every board in one JSON file.
type JSONStore struct {
	path string

	mu     sync.RWMutex
	boards map[string][]Object
}

type jsonFile struct {
	Boards map[string][]Object `json:"boards"`
}

// NewJSONStore opens path, creating the file when it does not exist.
func NewJSONStore(path string) (*JSONStore, error) {
	s := &JSONStore{path: path, boards: make(map[string][]Object)}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var f jsonFile
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("placement: parse %s: %w", path, err)
		}
		if f.Boards != nil {
			s.boards = f.Boards
		}
	case errors.Is(err, os.ErrNotExist):
		if err := s.flush(); err != nil {
			return nil, fmt.Errorf("placement: create %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("placement: read %s: %w", path, err)
	}
	return s, nil
}

// flush must be called with mu held or before the store is shared.
func (s *JSONStore) flush() error {
	data, err := json.MarshalIndent(jsonFile{Boards: s.boards}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}

// SaveBoard stores a copy of objects under name and rewrites the file.
func (s *JSONStore) SaveBoard(name string, objects []Object) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boards[name] = append([]Object(nil), objects...)
	if err := s.flush(); err != nil {
		return fmt.Errorf("placement: save board %q: %w", name, err)
	}
	return nil
}

// LoadBoard returns the objects stored under name.
func (s *JSONStore) LoadBoard(name string) ([]Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	objects, ok := s.boards[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBoardNotFound, name)
	}
	return append([]Object(nil), objects...), nil
}

// Close is a no-op for the JSON store.
func (s *JSONStore) Close() error {
	return nil
}
