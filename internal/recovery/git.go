package recovery

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/michael-freling/claude-code-guards/internal/command"
	"github.com/michael-freling/claude-code-guards/internal/logger"
)

// DefaultTimeout bounds each git command.
const DefaultTimeout = 30 * time.Second

// git runs git commands in one directory with a per-command timeout.
type git struct {
	runner  command.Runner
	dir     string
	timeout time.Duration
}

// run returns stdout, stderr and whether the command succeeded.
func (g *git) run(ctx context.Context, args ...string) (string, string, bool) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	stdout, stderr, err := g.runner.RunInDir(ctx, g.dir, "git", args...)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			stderr = "Git command timed out"
		} else if stderr == "" {
			stderr = "Git command failed: " + err.Error()
		}
		logger.Debug("git command failed", "args", strings.Join(args, " "), "stderr", stderr)
		return stdout, stderr, false
	}
	return stdout, stderr, true
}

func (g *git) available(ctx context.Context) bool {
	_, _, ok := g.run(ctx, "rev-parse", "--git-dir")
	return ok
}

// gitTimeLayout matches git's %ci format.
const gitTimeLayout = "2006-01-02 15:04:05 -0700"

func parseGitTime(s string) (time.Time, error) {
	return time.Parse(gitTimeLayout, strings.TrimSpace(s))
}

func lines(output string) []string {
	var out []string
	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}
