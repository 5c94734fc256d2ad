package hooks

import (
	"context"
	"strings"

	"github.com/michael-freling/claude-code-guards/internal/logger"
	"github.com/michael-freling/claude-code-guards/internal/risk"
	"github.com/michael-freling/claude-code-guards/internal/rules"
	"github.com/michael-freling/claude-code-guards/internal/workspace"
)

// ProperReasoningThreshold is the number of reasoning signals that marks a
// root-cause approach.
const ProperReasoningThreshold = 2

// Analysis holds every fact the reasoning rules decide on.
type Analysis struct {
	Text             string
	Critical         []string
	Dangerous        []string
	Risky            []string
	Bypass           []string
	ReasoningSignals []string
	Unsaved          workspace.UnsavedWork
}

// HasProperReasoning reports whether enough reasoning signals were found.
func (a *Analysis) HasProperReasoning() bool {
	return len(a.ReasoningSignals) >= ProperReasoningThreshold
}

// HasDestructive reports whether any destructive tier matched.
func (a *Analysis) HasDestructive() bool {
	return len(a.Critical) > 0 || len(a.Dangerous) > 0 || len(a.Risky) > 0
}

// Level returns the highest destructive tier that matched.
func (a *Analysis) Level() risk.Level {
	switch {
	case len(a.Critical) > 0:
		return risk.Critical
	case len(a.Dangerous) > 0:
		return risk.Dangerous
	case len(a.Risky) > 0:
		return risk.Risky
	default:
		return risk.Safe
	}
}

// Violations returns every destructive and bypass match.
func (a *Analysis) Violations() []string {
	var out []string
	out = append(out, a.Critical...)
	out = append(out, a.Dangerous...)
	out = append(out, a.Risky...)
	out = append(out, a.Bypass...)
	return out
}

// Analyzer builds an Analysis from text.
type Analyzer struct {
	catalog    *rules.Catalog
	classifier *risk.Classifier
	workspace  Workspace
}

// NewAnalyzer creates an analyzer over the reasoning tiers of catalog.
func NewAnalyzer(catalog *rules.Catalog, ws Workspace) *Analyzer {
	return &Analyzer{
		catalog:    catalog,
		classifier: risk.NewClassifier(catalog.Reasoning),
		workspace:  ws,
	}
}

// Analyze scans text against every tier and reads the unsaved work.
func (a *Analyzer) Analyze(ctx context.Context, text string) *Analysis {
	scan := a.classifier.Scan(text)
	analysis := &Analysis{
		Text:             text,
		Critical:         scan.CriticalDescriptions(),
		Dangerous:        scan.DangerousDescriptions(),
		Risky:            scan.RiskyDescriptions(),
		Bypass:           risk.Match(a.catalog.Bypass, text),
		ReasoningSignals: risk.Match(a.catalog.ReasoningSignals, text),
		Unsaved:          a.workspace.UnsavedWork(ctx),
	}

	logger.Debug("analyzed content",
		"preview", preview(text, 100),
		"level", analysis.Level().String(),
		"bypass", len(analysis.Bypass),
		"reasoning_signals", len(analysis.ReasoningSignals),
		"unsaved_work", analysis.Unsaved.HasUnsavedWork,
	)
	return analysis
}

func preview(s string, n int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= n {
		return string(runes)
	}
	return string(runes[:n]) + "..."
}
