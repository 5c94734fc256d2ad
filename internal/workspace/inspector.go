// Package workspace inspects the git state of a working directory.
package workspace

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/michael-freling/claude-code-guards/internal/command"
	"github.com/michael-freling/claude-code-guards/internal/logger"
)

// RecentCommitCount is the number of commits reported in a status.
const RecentCommitCount = 5

// NotRepositoryWarning is reported when unsaved work cannot be detected.
const NotRepositoryWarning = "Not in a git repository - cannot detect unsaved work"

// GitStatus is a snapshot of the repository state.
type GitStatus struct {
	CurrentBranch  string   `json:"current_branch"`
	StagedFiles    []string `json:"staged_files"`
	UnstagedFiles  []string `json:"unstaged_files"`
	UntrackedFiles []string `json:"untracked_files"`
	RecentCommits  []string `json:"recent_commits"`
	Stashes        []string `json:"stashes"`
}

// UnsavedWork describes changes that a destructive command could lose.
type UnsavedWork struct {
	HasUnsavedWork bool     `json:"has_unsaved_work"`
	Warnings       []string `json:"work_warnings"`
}

// Inspector reads the git state of a directory.
type Inspector struct {
	git             command.GitRunner
	dir             string
	ignoreUntracked []string
}

// NewInspector creates an inspector for dir. Untracked files matching one of
// ignoreUntracked are not counted as unsaved work.
func NewInspector(git command.GitRunner, dir string, ignoreUntracked []string) *Inspector {
	return &Inspector{
		git:             git,
		dir:             dir,
		ignoreUntracked: ignoreUntracked,
	}
}

// Dir returns the inspected directory.
func (i *Inspector) Dir() string {
	return i.dir
}

// IsRepository reports whether the directory is inside a git repository.
func (i *Inspector) IsRepository(ctx context.Context) bool {
	return i.git.IsRepository(ctx, i.dir)
}

// GitStatus collects branch, changes, commits and stashes. It returns nil
// outside a repository. Individual git failures leave their field empty.
func (i *Inspector) GitStatus(ctx context.Context) *GitStatus {
	if !i.IsRepository(ctx) {
		return nil
	}

	status := &GitStatus{CurrentBranch: "unknown"}

	if branch, err := i.git.GetCurrentBranch(ctx, i.dir); err == nil && branch != "" {
		status.CurrentBranch = branch
	} else if err != nil {
		logger.Debug("failed to read current branch", "error", err)
	}

	status.StagedFiles = i.list(ctx, "staged files", i.git.ListStagedFiles)
	status.UnstagedFiles = i.list(ctx, "unstaged files", i.git.ListUnstagedFiles)
	status.UntrackedFiles = i.ImportantUntracked(i.list(ctx, "untracked files", i.git.ListUntrackedFiles))
	status.Stashes = i.list(ctx, "stashes", i.git.ListStashes)

	commits, err := i.git.GetRecentCommits(ctx, i.dir, RecentCommitCount)
	if err != nil {
		logger.Debug("failed to read recent commits", "error", err)
		commits = []string{}
	}
	status.RecentCommits = commits

	return status
}

func (i *Inspector) list(ctx context.Context, what string, fn func(context.Context, string) ([]string, error)) []string {
	files, err := fn(ctx, i.dir)
	if err != nil {
		logger.Debug("failed to list "+what, "error", err)
		return []string{}
	}
	return files
}

// UnsavedWork reports staged, unstaged and important untracked files.
func (i *Inspector) UnsavedWork(ctx context.Context) UnsavedWork {
	status := i.GitStatus(ctx)
	if status == nil {
		return UnsavedWork{Warnings: []string{NotRepositoryWarning}}
	}
	return Summarize(status)
}

// Summarize derives the unsaved work warnings from a status.
func Summarize(status *GitStatus) UnsavedWork {
	work := UnsavedWork{Warnings: []string{}}
	if status == nil {
		return work
	}

	if n := len(status.StagedFiles); n > 0 {
		work.HasUnsavedWork = true
		work.Warnings = append(work.Warnings, fmt.Sprintf("Staged changes in %d files", n))
	}
	if n := len(status.UnstagedFiles); n > 0 {
		work.HasUnsavedWork = true
		work.Warnings = append(work.Warnings, fmt.Sprintf("Unstaged changes in %d files", n))
	}
	if n := len(status.UntrackedFiles); n > 0 {
		work.HasUnsavedWork = true
		work.Warnings = append(work.Warnings, fmt.Sprintf("Untracked important files: %d files", n))
	}
	return work
}

// ImportantUntracked drops files matching the ignore globs.
func (i *Inspector) ImportantUntracked(files []string) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		if f == "" || MatchAny(i.ignoreUntracked, f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// MatchAny reports whether path matches one of the doublestar patterns.
// Paths are compared in slash form without a leading slash.
func MatchAny(patterns []string, path string) bool {
	normalized := NormalizePath(path)
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, normalized); err == nil && ok {
			return true
		}
	}
	return false
}

// NormalizePath converts a path to slash form without a leading slash.
func NormalizePath(path string) string {
	p := filepath.ToSlash(strings.ReplaceAll(path, `\`, "/"))
	return strings.TrimLeft(p, "/")
}
