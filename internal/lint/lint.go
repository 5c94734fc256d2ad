// Package lint runs the TypeScript compiler and ESLint against file content
// that has not been written yet.
package lint

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/michael-freling/claude-code-guards/internal/command"
	"github.com/michael-freling/claude-code-guards/internal/logger"
)

// DefaultTimeout bounds each external tool run.
const DefaultTimeout = 30 * time.Second

// Report is the outcome of one check. A tool that cannot run or times out
// reports Passed with a warning message.
type Report struct {
	Passed   bool
	Messages []string
}

// Checker runs npx-based checks through a command.Runner.
type Checker struct {
	runner  command.Runner
	timeout time.Duration
	tempDir string
}

// NewChecker creates a checker. A non-positive timeout selects DefaultTimeout.
func NewChecker(runner command.Runner, timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Checker{runner: runner, timeout: timeout}
}

// TypeCheck runs tsc in strict mode on content.
func (c *Checker) TypeCheck(ctx context.Context, filePath, content string) Report {
	stdout, stderr, err := c.runOnTemp(ctx, filePath, content,
		"npx", "tsc", "--noEmit", "--strict", "--exactOptionalPropertyTypes", "--skipLibCheck")
	if err == nil {
		return Report{Passed: true}
	}
	if !command.IsExitError(err) {
		logger.Debug("typescript check failed", "error", err)
		return Report{Passed: true, Messages: []string{fmt.Sprintf("Warning: TypeScript check failed: %v", err)}}
	}

	var messages []string
	for _, line := range strings.Split(stdout+"\n"+stderr, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && strings.Contains(line, "error TS") {
			messages = append(messages, "TypeScript: "+line)
		}
	}
	return Report{Passed: false, Messages: messages}
}

type eslintFile struct {
	Messages []eslintMessage `json:"messages"`
}

type eslintMessage struct {
	RuleID   *string `json:"ruleId"`
	Severity int     `json:"severity"`
	Message  string  `json:"message"`
	Line     *int    `json:"line"`
}

// ESLint runs eslint with JSON output on content.
func (c *Checker) ESLint(ctx context.Context, filePath, content string) Report {
	stdout, _, err := c.runOnTemp(ctx, filePath, content, "npx", "eslint", "--format", "json")
	if err == nil {
		return Report{Passed: true}
	}
	if !command.IsExitError(err) {
		logger.Debug("eslint check failed", "error", err)
		return Report{Passed: true, Messages: []string{fmt.Sprintf("Warning: ESLint check failed: %v", err)}}
	}

	return ParseESLintOutput(stdout)
}

// ParseESLintOutput converts eslint output into a report. Output that is not
// JSON is scanned for error and warning lines.
func ParseESLintOutput(stdout string) Report {
	var files []eslintFile
	if err := json.Unmarshal([]byte(stdout), &files); err != nil {
		var messages []string
		for _, line := range strings.Split(stdout, "\n") {
			lower := strings.ToLower(line)
			if strings.Contains(lower, "error") || strings.Contains(lower, "warning") {
				messages = append(messages, "ESLint: "+strings.TrimSpace(line))
			}
		}
		return Report{Passed: false, Messages: messages}
	}

	var messages []string
	errorCount := 0
	for _, f := range files {
		for _, m := range f.Messages {
			severity := "Warning"
			if m.Severity == 2 {
				severity = "Error"
				errorCount++
			}
			ruleID := "unknown"
			if m.RuleID != nil {
				ruleID = *m.RuleID
			}
			line := "?"
			if m.Line != nil {
				line = fmt.Sprint(*m.Line)
			}
			messages = append(messages, fmt.Sprintf("ESLint %s (line %s): %s [%s]", severity, line, m.Message, ruleID))
		}
	}
	return Report{Passed: errorCount == 0, Messages: messages}
}

func (c *Checker) runOnTemp(ctx context.Context, filePath, content, name string, args ...string) (string, string, error) {
	tmp, err := os.CreateTemp(c.tempDir, "claude-guards-*.ts")
	if err != nil {
		return "", "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return "", "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", "", fmt.Errorf("failed to close temp file: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	stdout, stderr, err := c.runner.RunInDir(ctx, filepath.Dir(filePath), name, append(args, tmp.Name())...)
	if err != nil && ctx.Err() != nil {
		return stdout, stderr, fmt.Errorf("timed out after %s: %w", c.timeout, ctx.Err())
	}
	return stdout, stderr, err
}
