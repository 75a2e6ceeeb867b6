// Package state persists the results of update checks so that repeated runs
// within a TTL do not query repositories again.
//
// The state file is YAML keyed by artifact (group:name or PURL). Only
// definite results are stored: an unknown status always triggers a new check.
package state

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/git-pkgs/updatecheck/internal/core"
)

// Entry is the cached check result for one artifact.
type Entry struct {
	CheckedAt      time.Time   `yaml:"checked_at"`
	CurrentVersion string      `yaml:"current_version"`
	Status         core.Status `yaml:"status"`
	LatestVersion  string      `yaml:"latest_version,omitempty"`
	LatestLocation string      `yaml:"latest_location,omitempty"`
}

// EntryFromResult converts a check result. current is the configured
// current version.
func EntryFromResult(current string, res core.Result) Entry {
	e := Entry{
		CheckedAt:      time.Now(),
		CurrentVersion: current,
		Status:         res.Status,
		LatestLocation: res.Location,
	}
	if res.Latest != nil {
		e.LatestVersion = res.Latest.String()
	}
	return e
}

// Store holds state entries and writes them back to a file. A Store with an
// empty path keeps entries in memory only.
type Store struct {
	path string
	now  func() time.Time

	mu      sync.Mutex
	entries map[string]Entry
}

// Open reads the state file at path. A missing file yields an empty store.
func Open(path string) (*Store, error) {
	s := &Store{path: path, now: time.Now, entries: make(map[string]Entry)}
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, &s.entries); err != nil {
		return nil, err
	}
	if s.entries == nil {
		s.entries = make(map[string]Entry)
	}
	return s, nil
}

// Path returns the file backing s.
func (s *Store) Path() string {
	return s.path
}

// Fresh returns the entry for key if it was recorded for the same current
// version less than ttl ago.
func (s *Store) Fresh(key, current string, ttl time.Duration) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || e.CurrentVersion != current || e.Status == core.StatusUnknown {
		return Entry{}, false
	}
	if s.now().Sub(e.CheckedAt) >= ttl {
		return Entry{}, false
	}
	return e, true
}

// Record stores e under key. Unknown results remove any previous entry.
func (s *Store) Record(key string, e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.Status == core.StatusUnknown || e.Status == "" {
		delete(s.entries, key)
		return
	}
	s.entries[key] = e
}

// Forget removes the entry for key.
func (s *Store) Forget(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Save atomically writes the state file (write to temp, rename).
func (s *Store) Save() error {
	if s.path == "" {
		return nil
	}

	s.mu.Lock()
	data, err := yaml.Marshal(s.entries)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
