package guard

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/michael-freling/claude-code-guards/internal/logger"
	"github.com/michael-freling/claude-code-guards/internal/risk"
	"github.com/michael-freling/claude-code-guards/internal/workspace"
)

// MaxDisplayedAlternatives bounds the alternatives in a formatted report.
const MaxDisplayedAlternatives = 5

// Workspace reads the git state the guard reports on.
type Workspace interface {
	GitStatus(ctx context.Context) *workspace.GitStatus
}

// Report is the safety analysis of a single command.
type Report struct {
	Command            string               `json:"command"`
	Level              risk.Level           `json:"risk_level"`
	Violations         []string             `json:"violations"`
	Segments           []string             `json:"segments"`
	Alternatives       []string             `json:"alternatives"`
	HasUnsavedWork     bool                 `json:"has_unsaved_work"`
	WorkWarnings       []string             `json:"work_warnings"`
	GitStatus          *workspace.GitStatus `json:"git_status"`
	RecommendedBackups []BackupType         `json:"recommended_backups"`
	SafetyScore        float64              `json:"safety_score"`
	ApprovalRequired   bool                 `json:"approval_required"`
	BackupRequired     bool                 `json:"backup_required"`
}

// Protocol combines classification and workspace state into a Report.
type Protocol struct {
	classifier *risk.Classifier
	workspace  Workspace
}

// NewProtocol creates a protocol over the guard tiers.
func NewProtocol(tiers risk.Tiers, ws Workspace) *Protocol {
	return &Protocol{
		classifier: risk.NewClassifier(tiers),
		workspace:  ws,
	}
}

// Check analyses command.
func (p *Protocol) Check(ctx context.Context, command string) *Report {
	classification := p.classifier.Classify(command)

	status := p.workspace.GitStatus(ctx)
	work := workspace.UnsavedWork{Warnings: []string{workspace.NotRepositoryWarning}}
	if status != nil {
		work = workspace.Summarize(status)
	}

	violations := classification.Descriptions()
	segments := make([]string, 0, len(classification.Violations))
	for _, v := range classification.Violations {
		segments = append(segments, v.Segment)
	}

	report := &Report{
		Command:            command,
		Level:              classification.Level,
		Violations:         violations,
		Segments:           segments,
		Alternatives:       classification.Alternatives,
		HasUnsavedWork:     work.HasUnsavedWork,
		WorkWarnings:       work.Warnings,
		GitStatus:          status,
		RecommendedBackups: RecommendBackups(classification.Level, work.HasUnsavedWork),
		SafetyScore:        risk.SafetyScore(classification.Level, work.HasUnsavedWork, len(violations)),
		ApprovalRequired:   risk.ApprovalRequired(classification.Level),
	}
	report.BackupRequired = report.ApprovalRequired || work.HasUnsavedWork

	logger.Debug("checked operation",
		"level", report.Level.String(),
		"violations", len(report.Violations),
		"score", report.SafetyScore,
	)
	return report
}

// RecommendBackups returns the backups to take before an operation, in a
// stable order without duplicates.
func RecommendBackups(level risk.Level, hasUnsavedWork bool) []BackupType {
	var out []BackupType
	add := func(types ...BackupType) {
		for _, t := range types {
			if !slices.Contains(out, t) {
				out = append(out, t)
			}
		}
	}

	if hasUnsavedWork {
		add(GitStash, GitBranch)
	}
	switch level {
	case risk.Critical:
		add(GitBranch, FullRepository)
	case risk.Dangerous:
		add(GitStash, DirectoryCopy)
	case risk.Risky:
		add(GitStash)
	}

	if out == nil {
		return []BackupType{}
	}
	return out
}

var levelEmoji = map[risk.Level]string{
	risk.Safe:      "✅",
	risk.Risky:     "🤔",
	risk.Dangerous: "⚠️",
	risk.Critical:  "🚨",
}

// FormatReport renders a report for the terminal.
func FormatReport(r *Report) string {
	var lines []string

	lines = append(lines,
		fmt.Sprintf("%s OPERATION SAFETY ANALYSIS - %s RISK", levelEmoji[r.Level], strings.ToUpper(r.Level.String())),
		"Command: "+r.Command,
		fmt.Sprintf("Safety Score: %.2f/1.0", r.SafetyScore),
		"",
	)

	if len(r.Violations) > 0 {
		lines = append(lines, "🚫 DETECTED RISKS:")
		for _, v := range r.Violations {
			lines = append(lines, "  • "+v)
		}
		lines = append(lines, "")
	}

	if r.HasUnsavedWork {
		lines = append(lines, "📝 UNSAVED WORK DETECTED:")
		for _, w := range r.WorkWarnings {
			lines = append(lines, "  • "+w)
		}
		lines = append(lines, "")
	}

	if s := r.GitStatus; s != nil {
		lines = append(lines,
			"📊 WORKSPACE STATUS:",
			"  • Branch: "+s.CurrentBranch,
			fmt.Sprintf("  • Staged files: %d", len(s.StagedFiles)),
			fmt.Sprintf("  • Unstaged files: %d", len(s.UnstagedFiles)),
			fmt.Sprintf("  • Untracked files: %d", len(s.UntrackedFiles)),
			fmt.Sprintf("  • Stashes: %d", len(s.Stashes)),
			"",
		)
	}

	if len(r.Alternatives) > 0 {
		lines = append(lines, "✅ SAFER ALTERNATIVES:")
		for _, alt := range r.Alternatives[:min(len(r.Alternatives), MaxDisplayedAlternatives)] {
			lines = append(lines, "  • "+alt)
		}
		lines = append(lines, "")
	}

	if len(r.RecommendedBackups) > 0 {
		lines = append(lines, "🛡️ RECOMMENDED BACKUPS:")
		for _, b := range r.RecommendedBackups {
			lines = append(lines, "  • "+b.Title())
		}
		lines = append(lines, "")
	}

	if r.ApprovalRequired {
		lines = append(lines, "⚠️ APPROVAL REQUIRED: This operation requires explicit confirmation")
	}
	if r.BackupRequired {
		lines = append(lines, "📦 BACKUP REQUIRED: Create backups before proceeding")
	}

	return strings.Join(lines, "\n")
}

// FormatVerification renders the short verify-safety summary.
func FormatVerification(r *Report) string {
	unsaved := "No"
	if r.HasUnsavedWork {
		unsaved = "Yes"
	}
	return strings.Join([]string{
		fmt.Sprintf("Safety Score: %.2f/1.0", r.SafetyScore),
		"Risk Level: " + strings.ToUpper(r.Level.String()),
		fmt.Sprintf("Violations: %d", len(r.Violations)),
		"Unsaved Work: " + unsaved,
	}, "\n")
}

// Passes reports whether the report meets the verify-safety threshold.
func (r *Report) Passes() bool {
	return r.SafetyScore >= PassingScore
}
