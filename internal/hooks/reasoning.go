package hooks

import (
	"context"
	"strings"

	"github.com/michael-freling/claude-code-guards/internal/logger"
	"github.com/michael-freling/claude-code-guards/internal/rules"
)

// ReasoningValidator checks tool usage for destructive operations and
// quality-control bypasses.
type ReasoningValidator struct {
	analyzer *Analyzer
	engine   *ruleEngine
}

// NewReasoningValidator creates a validator with the ordered reasoning rules.
func NewReasoningValidator(catalog *rules.Catalog, ws Workspace) *ReasoningValidator {
	return &ReasoningValidator{
		analyzer: NewAnalyzer(catalog, ws),
		engine: NewRuleEngine(
			NewCriticalOperationRule(),
			NewUnsavedDangerRule(),
			NewBypassRule(catalog.Guidance),
			NewOperationWarningRule(),
		),
	}
}

// Validate evaluates the event text. Events without text are allowed.
func (v *ReasoningValidator) Validate(ctx context.Context, event *Event) (*RuleResult, error) {
	text := event.Text()
	if strings.TrimSpace(text) == "" {
		logger.Debug("no content to analyze")
		return NewAllowedResult(), nil
	}

	analysis := v.analyzer.Analyze(ctx, text)
	result, err := v.engine.Evaluate(analysis)
	if err != nil {
		return nil, err
	}

	if result.Allowed() {
		if analysis.HasProperReasoning() {
			logger.Debug("proper reasoning detected", "signals", analysis.ReasoningSignals)
		} else {
			logger.Debug("neutral content, no reasoning issues detected")
		}
	}
	return result, nil
}
