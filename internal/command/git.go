package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// GitRunner abstracts git command execution
type GitRunner interface {
	// IsRepository reports whether dir is inside a git work tree
	IsRepository(ctx context.Context, dir string) bool
	// GetCurrentBranch returns the current git branch name
	GetCurrentBranch(ctx context.Context, dir string) (string, error)
	// ListStagedFiles returns the files with staged changes
	ListStagedFiles(ctx context.Context, dir string) ([]string, error)
	// ListUnstagedFiles returns the files with unstaged changes
	ListUnstagedFiles(ctx context.Context, dir string) ([]string, error)
	// ListUntrackedFiles returns untracked files that are not ignored
	ListUntrackedFiles(ctx context.Context, dir string) ([]string, error)
	// GetRecentCommits returns up to count commits in oneline format, newest first
	GetRecentCommits(ctx context.Context, dir string, count int) ([]string, error)
	// ListStashes returns the stash list entries
	ListStashes(ctx context.Context, dir string) ([]string, error)
	// GetStatusPorcelain returns the porcelain status output
	GetStatusPorcelain(ctx context.Context, dir string) (string, error)
	// StashPush stashes the working tree with a message
	StashPush(ctx context.Context, dir string, message string, includeUntracked bool) error
	// CreateBranch creates a branch at HEAD without checking it out
	CreateBranch(ctx context.Context, dir string, branchName string) error
}

type gitRunner struct {
	runner Runner
}

// NewGitRunner creates a new GitRunner instance
func NewGitRunner(runner Runner) GitRunner {
	return &gitRunner{
		runner: runner,
	}
}

// IsRepository reports whether dir is inside a git work tree
func (g *gitRunner) IsRepository(ctx context.Context, dir string) bool {
	_, _, err := g.runner.RunInDir(ctx, dir, "git", "rev-parse", "--git-dir")
	return err == nil
}

// GetCurrentBranch returns the current git branch name
func (g *gitRunner) GetCurrentBranch(ctx context.Context, dir string) (string, error) {
	stdout, _, err := g.runner.RunInDir(ctx, dir, "git", "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}

	return strings.TrimSpace(stdout), nil
}

// ListStagedFiles returns the files with staged changes
func (g *gitRunner) ListStagedFiles(ctx context.Context, dir string) ([]string, error) {
	stdout, stderr, err := g.runner.RunInDir(ctx, dir, "git", "diff", "--cached", "--name-only")
	if err != nil {
		return nil, fmt.Errorf("failed to list staged files: %w (stderr: %s)", err, stderr)
	}

	return splitLines(stdout), nil
}

// ListUnstagedFiles returns the files with unstaged changes
func (g *gitRunner) ListUnstagedFiles(ctx context.Context, dir string) ([]string, error) {
	stdout, stderr, err := g.runner.RunInDir(ctx, dir, "git", "diff", "--name-only")
	if err != nil {
		return nil, fmt.Errorf("failed to list unstaged files: %w (stderr: %s)", err, stderr)
	}

	return splitLines(stdout), nil
}

// ListUntrackedFiles returns untracked files that are not ignored
func (g *gitRunner) ListUntrackedFiles(ctx context.Context, dir string) ([]string, error) {
	stdout, stderr, err := g.runner.RunInDir(ctx, dir, "git", "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return nil, fmt.Errorf("failed to list untracked files: %w (stderr: %s)", err, stderr)
	}

	return splitLines(stdout), nil
}

// GetRecentCommits returns up to count commits in oneline format, newest first
func (g *gitRunner) GetRecentCommits(ctx context.Context, dir string, count int) ([]string, error) {
	if count <= 0 {
		return nil, fmt.Errorf("commit count must be positive, got %d", count)
	}

	stdout, stderr, err := g.runner.RunInDir(ctx, dir, "git", "log", "--oneline", "-"+strconv.Itoa(count))
	if err != nil {
		return nil, fmt.Errorf("failed to get recent commits: %w (stderr: %s)", err, stderr)
	}

	return splitLines(stdout), nil
}

// ListStashes returns the stash list entries
func (g *gitRunner) ListStashes(ctx context.Context, dir string) ([]string, error) {
	stdout, stderr, err := g.runner.RunInDir(ctx, dir, "git", "stash", "list")
	if err != nil {
		return nil, fmt.Errorf("failed to list stashes: %w (stderr: %s)", err, stderr)
	}

	return splitLines(stdout), nil
}

// GetStatusPorcelain returns the porcelain status output
func (g *gitRunner) GetStatusPorcelain(ctx context.Context, dir string) (string, error) {
	stdout, stderr, err := g.runner.RunInDir(ctx, dir, "git", "status", "--porcelain")
	if err != nil {
		return "", fmt.Errorf("failed to get status: %w (stderr: %s)", err, stderr)
	}

	return stdout, nil
}

// StashPush stashes the working tree with a message
func (g *gitRunner) StashPush(ctx context.Context, dir string, message string, includeUntracked bool) error {
	if message == "" {
		return fmt.Errorf("stash message cannot be empty")
	}

	args := []string{"stash", "push", "-m", message}
	if includeUntracked {
		args = append(args, "--include-untracked")
	}

	_, stderr, err := g.runner.RunInDir(ctx, dir, "git", args...)
	if err != nil {
		return fmt.Errorf("failed to stash changes: %w (stderr: %s)", err, stderr)
	}

	return nil
}

// CreateBranch creates a branch at HEAD without checking it out
func (g *gitRunner) CreateBranch(ctx context.Context, dir string, branchName string) error {
	if branchName == "" {
		return fmt.Errorf("branch name cannot be empty")
	}

	_, stderr, err := g.runner.RunInDir(ctx, dir, "git", "branch", branchName)
	if err != nil {
		return fmt.Errorf("failed to create branch %s: %w (stderr: %s)", branchName, err, stderr)
	}

	return nil
}

// splitLines splits command output into non-empty trimmed lines.
func splitLines(output string) []string {
	output = strings.TrimSpace(output)
	if output == "" {
		return []string{}
	}

	lines := strings.Split(output, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			result = append(result, line)
		}
	}
	return result
}
