package guard

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/michael-freling/claude-code-guards/internal/command"
	"github.com/michael-freling/claude-code-guards/internal/logger"
	"github.com/michael-freling/claude-code-guards/internal/workspace"
)

const (
	timestampFormat = "20060102-150405"
	lockFileName    = ".lock"
)

// TimeProvider provides the current time.
type TimeProvider func() time.Time

// BackupOptions configures where backups go and what they skip.
type BackupOptions struct {
	// Dir is the backup directory, relative to the working directory.
	Dir string
	// Ignore lists base name globs skipped by copies.
	Ignore []string
}

// Outcome is the result of one backup attempt.
type Outcome struct {
	Type     BackupType `json:"type"`
	Success  bool       `json:"success"`
	Location string     `json:"location"`
	Error    string     `json:"error"`
}

// BackupManager creates backups of a working directory.
type BackupManager struct {
	git          command.GitRunner
	dir          string
	opts         BackupOptions
	timeProvider TimeProvider
}

// NewBackupManager creates a manager for the working directory dir.
func NewBackupManager(git command.GitRunner, dir string, opts BackupOptions) *BackupManager {
	return &BackupManager{
		git:          git,
		dir:          dir,
		opts:         opts,
		timeProvider: time.Now,
	}
}

// SetTimeProvider sets a custom time provider for testing
func (m *BackupManager) SetTimeProvider(tp TimeProvider) {
	m.timeProvider = tp
}

// BackupDir returns the absolute backup directory.
func (m *BackupManager) BackupDir() string {
	if filepath.IsAbs(m.opts.Dir) {
		return m.opts.Dir
	}
	return filepath.Join(m.dir, m.opts.Dir)
}

// Create takes a backup and returns its location. target is the directory or
// file to copy for DirectoryCopy and FileCopy; DirectoryCopy defaults to ".".
func (m *BackupManager) Create(ctx context.Context, t BackupType, target string) (string, error) {
	backupDir := m.BackupDir()
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	fileLock := flock.New(filepath.Join(backupDir, lockFileName))
	locked, err := fileLock.TryLock()
	if err != nil {
		return "", fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return "", ErrBackupLocked
	}
	defer fileLock.Close()
	defer fileLock.Unlock()

	ts := m.timeProvider().Format(timestampFormat)

	switch t {
	case GitStash:
		return m.stash(ctx, ts)
	case GitBranch:
		return m.branch(ctx, ts)
	case DirectoryCopy:
		return m.directory(ts, target)
	case FileCopy:
		return m.file(ts, target)
	case FullRepository:
		return m.fullRepository(ts)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownBackupType, t)
	}
}

// CreateAll takes each backup in order and reports every outcome.
func (m *BackupManager) CreateAll(ctx context.Context, types []BackupType) []Outcome {
	outcomes := make([]Outcome, 0, len(types))
	for _, t := range types {
		location, err := m.Create(ctx, t, "")
		outcome := Outcome{Type: t, Success: err == nil, Location: location}
		if err != nil {
			outcome.Error = err.Error()
			logger.Error("failed to create backup", "type", string(t), "error", err)
		} else {
			logger.Info("created backup", "type", string(t), "location", location)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// AllSucceeded reports whether every outcome succeeded.
func AllSucceeded(outcomes []Outcome) bool {
	for _, o := range outcomes {
		if !o.Success {
			return false
		}
	}
	return true
}

func (m *BackupManager) stash(ctx context.Context, ts string) (string, error) {
	if !m.git.IsRepository(ctx, m.dir) {
		return "", ErrNotRepository
	}
	name := "destructive-guard-backup-" + ts
	if err := m.git.StashPush(ctx, m.dir, name, true); err != nil {
		return "", fmt.Errorf("git stash failed: %w", err)
	}
	return "Git stash: " + name, nil
}

func (m *BackupManager) branch(ctx context.Context, ts string) (string, error) {
	if !m.git.IsRepository(ctx, m.dir) {
		return "", ErrNotRepository
	}
	name := "backup-" + ts
	if err := m.git.CreateBranch(ctx, m.dir, name); err != nil {
		return "", fmt.Errorf("git branch creation failed: %w", err)
	}
	return "Git branch: " + name, nil
}

func (m *BackupManager) directory(ts, target string) (string, error) {
	if target == "" {
		target = "."
	}
	source := filepath.Join(m.dir, target)
	if info, err := os.Stat(source); err != nil || !info.IsDir() {
		return "", fmt.Errorf("source directory does not exist: %s", target)
	}

	name := strings.ReplaceAll(strings.ReplaceAll(target, "/", "_"), ".", "current") + "-backup-" + ts
	dst := filepath.Join(m.BackupDir(), name)

	ignore := append(m.copyIgnore(), ".git")
	if err := workspace.CopyTree(source, dst, ignore); err != nil {
		return "", fmt.Errorf("failed to copy %s: %w", target, err)
	}
	return dst, nil
}

func (m *BackupManager) file(ts, target string) (string, error) {
	if target == "" {
		return "", ErrTargetRequired
	}
	source := filepath.Join(m.dir, target)
	if info, err := os.Stat(source); err != nil || info.IsDir() {
		return "", fmt.Errorf("source file does not exist: %s", target)
	}

	dst := filepath.Join(m.BackupDir(), filepath.Base(source)+"-backup-"+ts)
	if err := workspace.CopyFile(source, dst); err != nil {
		return "", err
	}
	return dst, nil
}

func (m *BackupManager) fullRepository(ts string) (string, error) {
	abs, err := filepath.Abs(m.dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", m.dir, err)
	}

	dst := filepath.Join(filepath.Dir(abs), filepath.Base(abs)+"-full-backup-"+ts)
	if err := workspace.CopyTree(abs, dst, m.copyIgnore()); err != nil {
		return "", fmt.Errorf("failed to copy repository: %w", err)
	}
	return dst, nil
}

// copyIgnore returns the configured ignores plus the backup directory.
func (m *BackupManager) copyIgnore() []string {
	ignore := make([]string, 0, len(m.opts.Ignore)+1)
	ignore = append(ignore, m.opts.Ignore...)
	return append(ignore, filepath.Base(m.BackupDir()))
}
