// Package recovery detects data loss in a working directory and restores it
// from git history or backup directories.
package recovery

import (
	"fmt"
	"time"
)

// IncidentType classifies a data loss incident.
type IncidentType string

const (
	UncommittedChangesLost IncidentType = "uncommitted_changes_lost"
	FilesDeleted           IncidentType = "files_deleted"
	BranchDeleted          IncidentType = "branch_deleted"
	StashLost              IncidentType = "stash_lost"
	RepositoryCorrupted    IncidentType = "repository_corrupted"
	ConfigFilesMissing     IncidentType = "config_files_missing"
	WorkDirectoryEmpty     IncidentType = "work_directory_empty"
)

// PointType classifies a recovery point.
type PointType string

const (
	GitStash        PointType = "git_stash"
	GitBranch       PointType = "git_branch"
	GitReflog       PointType = "git_reflog"
	BackupDirectory PointType = "backup_directory"
	GuardBackup     PointType = "destructive_guard_backup"
	RecentCommit    PointType = "recent_commits"
)

// Strategy is the recommended way to recover from an incident.
type Strategy string

const (
	Automatic Strategy = "automatic"
	Guided    Strategy = "guided"
	Manual    Strategy = "manual"
	Emergency Strategy = "emergency"
)

// TimeProvider provides the current time.
type TimeProvider func() time.Time

// CriticalSeverity is the lowest severity handled by the emergency protocol.
const CriticalSeverity = 0.8

// AutoRecoverConfidence is the lowest confidence recovered automatically.
const AutoRecoverConfidence = 0.8

// Incident is a detected data loss.
type Incident struct {
	Type          IncidentType `json:"type"`
	Description   string       `json:"description"`
	Severity      float64      `json:"severity"`
	AffectedFiles []string     `json:"affected_files"`
	DetectedAt    time.Time    `json:"detected_at"`
	Strategy      Strategy     `json:"recommended_strategy"`
}

// Point is a state the working directory can be restored to.
type Point struct {
	Type                PointType `json:"type"`
	Identifier          string    `json:"identifier"`
	Timestamp           time.Time `json:"timestamp"`
	Description         string    `json:"description"`
	Confidence          float64   `json:"confidence"`
	FilesAffected       []string  `json:"files_affected"`
	RecoveryCommand     string    `json:"recovery_command"`
	VerificationCommand string    `json:"verification_command"`

	// GitArgs restores the point with git.
	GitArgs []string `json:"-"`
	// Source restores the point by copying a directory.
	Source string `json:"-"`
}

// SeverityIndicator returns the display marker for a severity.
func SeverityIndicator(severity float64) string {
	switch {
	case severity >= 0.8:
		return "🚨"
	case severity >= 0.5:
		return "⚠️"
	default:
		return "ℹ️"
	}
}

// ConfidenceIndicator returns the display marker for a confidence.
func ConfidenceIndicator(confidence float64) string {
	switch {
	case confidence >= 0.8:
		return "🔥"
	case confidence >= 0.6:
		return "✅"
	default:
		return "🤔"
	}
}

// FormatAge renders how long before now t was, e.g. "3h ago".
func FormatAge(t, now time.Time) string {
	diff := now.Sub(t)
	if diff < 0 {
		return "just now"
	}
	days := int(diff / (24 * time.Hour))
	seconds := int((diff % (24 * time.Hour)).Seconds())

	switch {
	case days > 0:
		return fmt.Sprintf("%dd ago", days)
	case seconds > 3600:
		return fmt.Sprintf("%dh ago", seconds/3600)
	case seconds > 60:
		return fmt.Sprintf("%dm ago", seconds/60)
	default:
		return "just now"
	}
}
