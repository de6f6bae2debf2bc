package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"keep/internal/task"
)

type JSONFile struct {
	path string
}

func NewJSONFile(path string) (*JSONFile, error) {
	if path == "" {
		return nil, errors.New("data path is empty")
	}
	return &JSONFile{path: path}, nil
}

func (f *JSONFile) Path() string { return f.path }

func (f *JSONFile) Load() (*task.Store, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return task.NewStore(), nil
	}
	if err != nil {
		return task.NewStore(), fmt.Errorf("read %s: %w", f.path, err)
	}

	s := task.NewStore()
	if err := json.Unmarshal(data, s); err != nil {
		return task.NewStore(), fmt.Errorf("%w: %s: %v", ErrCorrupt, f.path, err)
	}
	if s.Tasks == nil {
		s.Tasks = []task.Task{}
	}
	s.EnsureIDs()
	return s, nil
}

// Save writes to a temp file next to the target and renames it into place.
func (f *JSONFile) Save(s *task.Store) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}

func (f *JSONFile) Close() error { return nil }
