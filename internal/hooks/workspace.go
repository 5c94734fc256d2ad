package hooks

import (
	"context"

	"github.com/michael-freling/claude-code-guards/internal/command"
	"github.com/michael-freling/claude-code-guards/internal/workspace"
)

// Workspace reports unsaved work in the current directory.
type Workspace interface {
	// UnsavedWork returns staged, unstaged and important untracked files.
	UnsavedWork(ctx context.Context) workspace.UnsavedWork
}

// NewWorkspace creates a Workspace for dir backed by git.
func NewWorkspace(dir string, ignoreUntracked []string) Workspace {
	return NewWorkspaceWithRunner(command.NewGitRunner(command.NewRunner()), dir, ignoreUntracked)
}

// NewWorkspaceWithRunner creates a Workspace with a custom runner for testing.
func NewWorkspaceWithRunner(runner command.GitRunner, dir string, ignoreUntracked []string) Workspace {
	return workspace.NewInspector(runner, dir, ignoreUntracked)
}
