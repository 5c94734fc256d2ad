package snapshot

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/michael-freling/claude-code-guards/internal/logger"
)

const (
	maxSummaryCommits = 3
	maxSummaryAgents  = 5
)

// Summary is the part of a State shown when a session resumes.
type Summary struct {
	Timestamp        string
	Age              string
	Project          *ProjectContext
	Git              *GitSummary
	Agents           *AgentSummary
	WorkingDirectory *WorkingDirectory
	ContextItems     []string
}

// GitSummary is the git part of a Summary.
type GitSummary struct {
	Branch        string
	RecentCommits []string
	HasChanges    bool
}

// AgentSummary counts agents that have tasks.
type AgentSummary struct {
	Count   int
	Details []AgentDetail
}

// AgentDetail counts the tasks of one agent.
type AgentDetail struct {
	Name       string
	TotalTasks int
	InProgress int
	Completed  int
}

// Summarize reduces a state to a Summary.
func Summarize(state *State, now time.Time) Summary {
	summary := Summary{
		Timestamp:    state.Timestamp,
		Age:          FormatAge(state.Timestamp, now),
		ContextItems: []string{},
	}

	if state.Project != nil {
		summary.Project = state.Project
		summary.ContextItems = append(summary.ContextItems, "Project details")
	}

	if state.Git != nil {
		summary.Git = &GitSummary{
			Branch:        state.Git.CurrentBranch,
			RecentCommits: state.Git.RecentCommits[:min(len(state.Git.RecentCommits), maxSummaryCommits)],
			HasChanges:    strings.TrimSpace(state.Git.Status) != "",
		}
		summary.ContextItems = append(summary.ContextItems, "Git status")
	}

	if state.AgentComm != nil {
		var active []Agent
		for _, a := range state.AgentComm.Agents {
			if len(a.Tasks) > 0 {
				active = append(active, a)
			}
		}
		if len(active) > 0 {
			agents := &AgentSummary{Count: len(active)}
			for _, a := range active[:min(len(active), maxSummaryAgents)] {
				detail := AgentDetail{Name: a.Name, TotalTasks: len(a.Tasks)}
				for _, t := range a.Tasks {
					switch t.Status {
					case "PLAN":
						detail.InProgress++
					case "DONE":
						detail.Completed++
					}
				}
				agents.Details = append(agents.Details, detail)
			}
			summary.Agents = agents
			summary.ContextItems = append(summary.ContextItems, "Agent tasks")
		}
	}

	if len(state.Todo) > 0 {
		summary.ContextItems = append(summary.ContextItems, "Todo list")
	}

	if state.WorkingDirectory.Path != "" {
		wd := state.WorkingDirectory
		summary.WorkingDirectory = &wd
		summary.ContextItems = append(summary.ContextItems, "Directory context")
	}

	return summary
}

// FormatAge renders how long ago an RFC 3339 timestamp was. Unparseable
// timestamps are returned unchanged.
func FormatAge(timestamp string, now time.Time) string {
	t, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return timestamp
	}

	diff := now.Sub(t)
	if diff < 0 {
		return "Just now"
	}
	days := int(diff / (24 * time.Hour))
	seconds := int((diff % (24 * time.Hour)).Seconds())

	switch {
	case days > 0:
		return fmt.Sprintf("%d day(s) ago", days)
	case seconds > 3600:
		return fmt.Sprintf("%d hour(s) ago", seconds/3600)
	case seconds > 60:
		return fmt.Sprintf("%d minute(s) ago", seconds/60)
	default:
		return "Just now"
	}
}

// CaptureMessage reports a successful capture.
func CaptureMessage(state *State, path string) string {
	var items []string
	if p := state.Project; p != nil {
		version := p.Version
		if version == "" {
			version = "?"
		}
		items = append(items, fmt.Sprintf("Project: %s v%s", p.Name, version))
	}
	if state.Git != nil {
		items = append(items, "Branch: "+state.Git.CurrentBranch)
	}
	if state.AgentComm != nil && len(state.AgentComm.Agents) > 0 {
		items = append(items, fmt.Sprintf("Active agents: %d", len(state.AgentComm.Agents)))
	}
	if len(state.Todo) > 0 {
		items = append(items, "Todo list captured")
	}

	summary := "Basic context"
	if len(items) > 0 {
		summary = strings.Join(items, " | ")
	}

	return fmt.Sprintf(`💾 Pre-compact state captured successfully

📄 State file: %s
📋 Context: %s
🕒 Timestamp: %s

This state will be available for recovery after compaction.`, filepath.Base(path), summary, state.Timestamp)
}

// RecoveryMessage renders the recovery information for the newest summary.
// summaries must be ordered newest first.
func RecoveryMessage(summaries []Summary, newestPath string) string {
	if len(summaries) == 0 {
		return ""
	}
	newest := summaries[0]

	lines := []string{
		"🔄 Session recovery information available",
		"",
		fmt.Sprintf("📄 Found %d state capture(s), newest from %s", len(summaries), newest.Age),
	}

	if p := newest.Project; p != nil && p.Name != "" {
		line := "📦 Project: " + p.Name
		if p.Version != "" {
			line += " v" + p.Version
		}
		lines = append(lines, line)
	}

	if g := newest.Git; g != nil {
		line := "🌿 Branch: " + g.Branch
		if g.HasChanges {
			line += " (with uncommitted changes)"
		}
		lines = append(lines, line)

		if len(g.RecentCommits) > 0 {
			lines = append(lines, "📝 Recent commits:")
			for _, c := range g.RecentCommits {
				lines = append(lines, "   • "+c)
			}
		}
	}

	if a := newest.Agents; a != nil {
		lines = append(lines, fmt.Sprintf("🤖 Active agents: %d", a.Count))
		if len(a.Details) > 0 {
			lines = append(lines, "📊 Agent status:")
			for _, d := range a.Details {
				var parts []string
				if d.InProgress > 0 {
					parts = append(parts, fmt.Sprintf("%d in progress", d.InProgress))
				}
				if d.Completed > 0 {
					parts = append(parts, fmt.Sprintf("%d completed", d.Completed))
				}
				status := ""
				if len(parts) > 0 {
					status = " (" + strings.Join(parts, ", ") + ")"
				}
				lines = append(lines, fmt.Sprintf("   • %s: %d task(s)%s", d.Name, d.TotalTasks, status))
			}
		}
	}

	if len(newest.ContextItems) > 0 {
		lines = append(lines, "💾 Captured: "+strings.Join(newest.ContextItems, ", "))
	}

	lines = append(lines,
		"",
		"🗃️  State file: "+filepath.Base(newestPath),
		"ℹ️  Use this information to restore your working context.",
	)
	return strings.Join(lines, "\n")
}

// Recover summarises up to summarize of the newest state files, prunes the
// store to keep files and returns the recovery message. It returns an empty
// message when no valid state file exists.
func (s *Store) Recover(now time.Time, summarize, keep int) (string, error) {
	paths, err := s.List()
	if err != nil {
		return "", err
	}
	if len(paths) == 0 {
		return "", nil
	}

	var summaries []Summary
	for _, path := range paths[:min(len(paths), summarize)] {
		state, err := s.Load(path)
		if err != nil {
			logger.Debug("failed to load state file", "file", filepath.Base(path), "error", err)
			continue
		}
		summaries = append(summaries, Summarize(state, now))
	}
	if len(summaries) == 0 {
		return "", nil
	}

	message := RecoveryMessage(summaries, paths[0])
	s.Prune(paths, keep)
	return message, nil
}
