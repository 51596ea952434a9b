// Package state persists per-task configuration fingerprints between runs.
// The store is a single JSON file kept inside the run's output root; losing
// it is safe and merely forces fingerprinted tasks to re-run once.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Record is what the store remembers about one completed task.
type Record struct {
	Fingerprint string    `json:"fingerprint"`
	CompletedAt time.Time `json:"completed_at"`
}

// Store is a concurrency-safe fingerprint store backed by one JSON file.
// Executor workers record completions concurrently; Save is called once at
// the end of the run.
type Store struct {
	path string

	mu      sync.Mutex
	records map[string]Record
}

// Load reads the store at path, returning an empty store when the file does
// not exist yet.
func Load(path string) (*Store, error) {
	s := &Store{path: path, records: map[string]Record{}}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading state file %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &s.records); err != nil {
		return nil, fmt.Errorf("parsing state file %s: %w", path, err)
	}
	return s, nil
}

// Fingerprint returns the recorded fingerprint for a task.
func (s *Store) Fingerprint(taskName string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[taskName]
	return rec.Fingerprint, ok
}

// Record stores a task's fingerprint after it completed successfully. An
// empty fingerprint clears any previous record so a task downgraded to plain
// file dependencies does not keep a stale digest around.
func (s *Store) Record(taskName, fingerprint string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if fingerprint == "" {
		delete(s.records, taskName)
		return
	}
	s.records[taskName] = Record{Fingerprint: fingerprint, CompletedAt: time.Now().UTC()}
}

// Save writes the store to disk via a temp file and rename, so a crash
// mid-save leaves the previous state intact.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".state-*.json")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing state file %s: %w", s.path, err)
	}
	return nil
}
