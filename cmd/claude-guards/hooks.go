package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/michael-freling/claude-code-guards/internal/audit"
	"github.com/michael-freling/claude-code-guards/internal/command"
	"github.com/michael-freling/claude-code-guards/internal/hooks"
	"github.com/michael-freling/claude-code-guards/internal/lint"
	"github.com/michael-freling/claude-code-guards/internal/logger"
	"github.com/michael-freling/claude-code-guards/internal/snapshot"
)

// hookFunc evaluates one hook payload. event is nil when the payload is not a
// tool event.
type hookFunc func(ctx context.Context, env *environment, input []byte) (result *hooks.RuleResult, event *hooks.Event, err error)

// runHook reads stdin, evaluates fn and prints the result. Any failure
// allows the action so a broken hook never blocks the host.
func runHook(cmd *cobra.Command, opts *rootOptions, name string, fn hookFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("hook panicked", "hook", name, "panic", r)
			err = nil
		}
	}()
	start := time.Now()

	input, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil
	}

	env, err := opts.load()
	if err != nil {
		logger.Debug("hook setup failed", "hook", name, "error", err)
		return nil
	}
	opts.initAudit(env.cfg)
	defer func() {
		if err := audit.Close(); err != nil {
			logger.Debug("failed to close audit log", "error", err)
		}
	}()

	result, event, err := fn(cmd.Context(), env, input)
	entry := audit.Entry{
		Hook: name,
		Cwd:  env.dir,
	}
	if event != nil {
		entry.SessionID = event.SessionID
		entry.ToolName = event.Name()
		if event.Cwd != "" {
			entry.Cwd = event.Cwd
		}
	}
	if err != nil {
		logger.Debug("hook error", "hook", name, "error", err)
		entry.Error = err.Error()
		logAudit(entry, start)
		return nil
	}
	if result == nil {
		result = hooks.NewAllowedResult()
	}

	stderr := cmd.ErrOrStderr()
	for _, note := range result.Notes {
		fmt.Fprintln(stderr, note)
	}
	if result.Message != "" {
		fmt.Fprintln(stderr, result.Message)
	}

	entry.Level = result.Decision.String()
	entry.ExitCode = result.ExitCode()
	entry.Violations = result.Violations
	logAudit(entry, start)

	return exitWith(result.ExitCode())
}

func logAudit(entry audit.Entry, start time.Time) {
	if !audit.IsEnabled() {
		return
	}
	entry.DurationMs = float64(time.Since(start).Microseconds()) / 1000
	if err := audit.Log(entry); err != nil {
		logger.Debug("failed to write audit entry", "error", err)
	}
}

// parseEvent parses a tool event. Empty and invalid payloads yield a nil
// event without an error.
func parseEvent(input []byte) *hooks.Event {
	event, err := hooks.ParseEventBytes(input)
	if err != nil {
		if !errors.Is(err, hooks.ErrEmptyInput) {
			logger.Debug("invalid JSON input", "error", err)
		}
		return nil
	}
	return event
}

func newReasoningValidatorCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reasoning-validator",
		Short: "Block workarounds and destructive operations that lack root-cause reasoning",
		Long: `Reads a PreToolUse event from stdin and checks the tool call for destructive
operations, unsaved work at risk and quality-control bypasses without proper
reasoning. Exits 3 for critical data loss, 1 to block, 2 to warn and 0 to allow.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHook(cmd, opts, "reasoning-validator", func(ctx context.Context, env *environment, input []byte) (*hooks.RuleResult, *hooks.Event, error) {
				event := parseEvent(input)
				if event == nil {
					return nil, nil, nil
				}
				catalog, err := env.catalog()
				if err != nil {
					return nil, event, err
				}
				ws := hooks.NewWorkspace(env.dir, env.cfg.Workspace.IgnoreUntracked)
				result, err := hooks.NewReasoningValidator(catalog, ws).Validate(ctx, event)
				return result, event, err
			})
		},
	}
}

func newWriteValidatorCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "write-validator",
		Short: "Validate TypeScript and JavaScript content before it is written",
		Long: `Reads a PreToolUse event for the Write tool from stdin and checks the content
for banned patterns, TypeScript strict-mode errors and ESLint errors. Exits 1 to
block the write, 2 when validation itself failed and 0 to allow.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHook(cmd, opts, "write-validator", func(ctx context.Context, env *environment, input []byte) (*hooks.RuleResult, *hooks.Event, error) {
				event := parseEvent(input)
				if event == nil {
					return nil, nil, nil
				}
				catalog, err := env.catalog()
				if err != nil {
					return nil, event, err
				}

				w := env.cfg.Write
				checker := lint.NewChecker(command.NewRunner(), w.ToolTimeout())
				validator := hooks.NewWriteValidator(catalog.Content, checker, hooks.WriteOptions{
					Extensions:    w.Extensions,
					TestFileGlobs: w.TestFileGlobs,
					RunTypeScript: w.RunTypeScript,
					RunESLint:     w.RunESLint,
				})
				result, err := validator.Validate(ctx, event)
				if err != nil {
					return hooks.NewWarningResult("write-validator", fmt.Sprintf("⚠️  Write validation error: %v", err)), event, nil
				}
				return result, event, nil
			})
		},
	}
}

func newTodoSyncCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "todo-sync",
		Short: "Remind the agent to sync task checkboxes after TodoWrite",
		Long: `Reads a PostToolUse event from stdin. After a successful TodoWrite call it
counts the todos by status and exits 2 with a reminder to sync task checkboxes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHook(cmd, opts, "todo-sync", func(ctx context.Context, env *environment, input []byte) (*hooks.RuleResult, *hooks.Event, error) {
				event := parseEvent(input)
				if event == nil {
					return nil, nil, nil
				}
				result, err := hooks.SyncTodos(event)
				return result, event, err
			})
		},
	}
}

func newPreCompactCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pre-compact",
		Short: "Capture working context before the session history is compacted",
		Long: `Reads a PreCompact event from stdin and saves the working directory, git,
project, todo, environment and agent-comm context to a state file. Exits 2 with
a summary of what was captured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHook(cmd, opts, "pre-compact", func(ctx context.Context, env *environment, input []byte) (*hooks.RuleResult, *hooks.Event, error) {
				input = bytes.TrimSpace(input)
				if len(input) == 0 {
					return nil, nil, nil
				}
				if !json.Valid(input) {
					logger.Debug("invalid JSON input")
					return nil, nil, nil
				}
				event := parseEvent(input)

				git := command.NewGitRunner(command.NewRunner())
				state := snapshot.NewCapturer(git, env.dir).Capture(ctx, input)
				store := snapshot.NewStore(env.resolve(env.cfg.Snapshot.Dir))

				path, err := store.Save(state, time.Now())
				if err != nil {
					logger.Debug("pre-compact state capture failed", "error", err)
					return hooks.NewWarningResult("pre-compact", fmt.Sprintf("⚠️  Pre-compact state capture failed: %v", err)), event, nil
				}
				return hooks.NewWarningResult("pre-compact", snapshot.CaptureMessage(state, path)), event, nil
			})
		},
	}
}

func newSessionRecoveryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "session-recovery",
		Short: "Show the context captured before the last compaction",
		Long: `Looks for pre-compact state files, summarises the newest ones and exits 2
with recovery information. Older state files are pruned. Exits 0 when there is
nothing to recover. The stdin payload is optional.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHook(cmd, opts, "session-recovery", func(ctx context.Context, env *environment, input []byte) (*hooks.RuleResult, *hooks.Event, error) {
				event := parseEvent(input)

				s := env.cfg.Snapshot
				store := snapshot.NewStore(env.resolve(s.Dir))
				message, err := store.Recover(time.Now(), s.Summarize, s.Keep)
				if err != nil {
					return nil, event, err
				}
				if message == "" {
					return nil, event, nil
				}
				return hooks.NewWarningResult("session-recovery", message), event, nil
			})
		},
	}
}
