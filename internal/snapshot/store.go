package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gofrs/flock"

	"github.com/michael-freling/claude-code-guards/internal/logger"
)

const (
	filePrefix     = "pre-compact-state-"
	fileGlob       = filePrefix + "*.json"
	fileTimeFormat = "20060102_150405"
	lockFileName   = ".pre-compact.lock"
)

var (
	// ErrStoreLocked is returned when another process holds the store lock.
	ErrStoreLocked = errors.New("state directory is locked by another process")
	// ErrStateCorrupted is returned when a state file cannot be decoded.
	ErrStateCorrupted = errors.New("state file is corrupted")
)

// Store keeps state files in a single directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes state to a new file named after at and returns its path.
func (s *Store) Save(state *State, at time.Time) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create state directory: %w", err)
	}

	fileLock := flock.New(filepath.Join(s.dir, lockFileName))
	locked, err := fileLock.TryLock()
	if err != nil {
		return "", fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return "", ErrStoreLocked
	}
	defer fileLock.Close()
	defer fileLock.Unlock()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal state: %w", err)
	}

	path := filepath.Join(s.dir, filePrefix+at.Format(fileTimeFormat)+".json")
	if _, err := os.Stat(path); err == nil && len(state.ID) >= 8 {
		path = strings.TrimSuffix(path, ".json") + "-" + state.ID[:8] + ".json"
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write state file: %w", err)
	}
	logger.Debug("state captured", "path", path)
	return path, nil
}

// List returns the state files, newest first.
func (s *Store) List() ([]string, error) {
	if _, err := os.Stat(s.dir); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	matches, err := doublestar.Glob(os.DirFS(s.dir), fileGlob, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to list state files: %w", err)
	}

	type entry struct {
		path    string
		modTime time.Time
	}
	entries := make([]entry, 0, len(matches))
	for _, m := range matches {
		path := filepath.Join(s.dir, m)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		entries = append(entries, entry{path: path, modTime: info.ModTime()})
	}

	slices.SortFunc(entries, func(a, b entry) int {
		if c := b.modTime.Compare(a.modTime); c != 0 {
			return c
		}
		return strings.Compare(b.path, a.path)
	})

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, e.path)
	}
	return paths, nil
}

// Load reads a state file.
func (s *Store) Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStateCorrupted, err)
	}
	return &state, nil
}

// Prune removes all but the keep newest files of paths, which must be
// ordered newest first.
func (s *Store) Prune(paths []string, keep int) {
	if len(paths) <= keep {
		return
	}
	for _, path := range paths[keep:] {
		if err := os.Remove(path); err != nil {
			logger.Debug("failed to clean up state file", "file", filepath.Base(path), "error", err)
			continue
		}
		logger.Debug("cleaned up old state file", "file", filepath.Base(path))
	}
}
