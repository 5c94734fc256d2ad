// Package guard analyses commands for data loss risk, recommends backups and
// creates them.
package guard

import (
	"errors"
	"fmt"
	"strings"
)

// BackupType names a kind of backup.
type BackupType string

const (
	GitStash       BackupType = "git_stash"
	GitBranch      BackupType = "git_branch"
	DirectoryCopy  BackupType = "directory_copy"
	FileCopy       BackupType = "file_copy"
	FullRepository BackupType = "full_repository"
)

// BackupTypes lists every backup type.
var BackupTypes = []BackupType{GitStash, GitBranch, DirectoryCopy, FileCopy, FullRepository}

// ConfirmationPhrase must be typed to proceed with a dangerous operation.
const ConfirmationPhrase = "I understand the risks"

// PassingScore is the lowest safety score verify-safety accepts.
const PassingScore = 0.8

var (
	// ErrUnknownBackupType is returned for a backup type that does not exist.
	ErrUnknownBackupType = errors.New("unknown backup type")
	// ErrNotRepository is returned for git backups outside a repository.
	ErrNotRepository = errors.New("not in a git repository")
	// ErrTargetRequired is returned when a file backup has no target.
	ErrTargetRequired = errors.New("file target required for file backup")
	// ErrBackupLocked is returned when another process holds the backup lock.
	ErrBackupLocked = errors.New("backup directory is locked by another process")
)

// ParseBackupType parses a backup type name.
func ParseBackupType(s string) (BackupType, error) {
	for _, t := range BackupTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownBackupType, s)
}

// Title returns the display name, e.g. "Git Stash".
func (t BackupType) Title() string {
	words := strings.Split(string(t), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
