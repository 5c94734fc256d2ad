package hooks

import (
	"fmt"
	"strings"
)

// criticalOperationRule forbids operations that will definitely lose data.
type criticalOperationRule struct{}

// NewCriticalOperationRule creates the rule that forbids critical operations.
func NewCriticalOperationRule() Rule {
	return &criticalOperationRule{}
}

func (r *criticalOperationRule) Name() string {
	return "critical-operation"
}

func (r *criticalOperationRule) Description() string {
	return "Forbids operations that will definitely lose data"
}

func (r *criticalOperationRule) Evaluate(a *Analysis) (*RuleResult, error) {
	if len(a.Critical) == 0 {
		return NewAllowedResult(), nil
	}

	message := fmt.Sprintf(`🚨 CRITICAL DATA LOSS OPERATION FORBIDDEN

%s

🧠 SAFETY CHECKPOINT FAILED:
This operation WILL DEFINITELY lose data or critical files.

⛔ OPERATION BLOCKED: Critical destructive operations are not permitted under any circumstances.`, DestructiveGuidance(a))

	result := NewForbiddenResult(r.Name(), message)
	result.Violations = a.Critical
	return result, nil
}

// unsavedDangerRule blocks dangerous operations while work is unsaved.
type unsavedDangerRule struct{}

// NewUnsavedDangerRule creates the rule that blocks dangerous operations
// when unsaved work is present.
func NewUnsavedDangerRule() Rule {
	return &unsavedDangerRule{}
}

func (r *unsavedDangerRule) Name() string {
	return "unsaved-work-danger"
}

func (r *unsavedDangerRule) Description() string {
	return "Blocks dangerous operations while unsaved work is present"
}

func (r *unsavedDangerRule) Evaluate(a *Analysis) (*RuleResult, error) {
	if len(a.Dangerous) == 0 || !a.Unsaved.HasUnsavedWork {
		return NewAllowedResult(), nil
	}

	message := fmt.Sprintf(`⚠️  DANGEROUS OPERATION WITH UNSAVED WORK

%s

🧠 MANDATORY SAFETY PROTOCOL:
You have unsaved work that could be lost by this operation.

🛑 BLOCKED: Save your work before proceeding with dangerous operations.`, DestructiveGuidance(a))

	result := NewBlockedResult(r.Name(), message)
	result.Violations = append(append([]string{}, a.Dangerous...), a.Unsaved.Warnings...)
	return result, nil
}

// bypassRule blocks quality-control bypasses that lack root-cause reasoning.
type bypassRule struct {
	guidance map[string]string
}

// NewBypassRule creates the rule that blocks bypass language without proper
// reasoning. guidance maps bypass descriptions to reasoning guidance.
func NewBypassRule(guidance map[string]string) Rule {
	return &bypassRule{guidance: guidance}
}

func (r *bypassRule) Name() string {
	return "bypass-without-reasoning"
}

func (r *bypassRule) Description() string {
	return "Blocks quality-control bypasses that lack root-cause reasoning"
}

func (r *bypassRule) Evaluate(a *Analysis) (*RuleResult, error) {
	if len(a.Bypass) == 0 || a.HasProperReasoning() {
		return NewAllowedResult(), nil
	}

	guidance := ReasoningGuidance(a.Bypass, r.guidance)

	var message string
	if len(a.Dangerous) > 0 || len(a.Risky) > 0 {
		message = fmt.Sprintf(`🚫 COMPOUND VIOLATION: BYPASS + DESTRUCTIVE OPERATIONS

%s

%s

🧠 DOUBLE SAFETY FAILURE:
1. Attempting to bypass quality controls
2. Using potentially destructive operations

⛔ OPERATION BLOCKED: This combination is extremely dangerous.`, guidance, DestructiveGuidance(a))
	} else {
		message = fmt.Sprintf(`🚫 REASONING VIOLATION DETECTED

%s

🧠 MANDATORY REASONING PROTOCOL:
1. What is the ROOT CAUSE of this issue?
2. Why am I trying to BYPASS instead of FIX?
3. How do I PROPERLY SOLVE this problem?
4. Will my solution MEET ALL QUALITY STANDARDS?

⚠️  BLOCKED: Bypass attempts are not permitted. Fix the underlying issue.`, guidance)
	}

	result := NewBlockedResult(r.Name(), message)
	result.Violations = a.Violations()
	return result, nil
}

// operationWarningRule warns about issues that do not block.
type operationWarningRule struct{}

// NewOperationWarningRule creates the rule that warns on reasoned bypasses,
// dangerous operations without unsaved work, risky operations and unsaved work.
func NewOperationWarningRule() Rule {
	return &operationWarningRule{}
}

func (r *operationWarningRule) Name() string {
	return "operation-warning"
}

func (r *operationWarningRule) Description() string {
	return "Warns about operations that need care but are not blocked"
}

func (r *operationWarningRule) Evaluate(a *Analysis) (*RuleResult, error) {
	var conditions []string

	if len(a.Bypass) > 0 && a.HasProperReasoning() {
		conditions = append(conditions, fmt.Sprintf(
			"Bypass patterns detected but reasoning present (%d bypasses, %d reasoning signals)",
			len(a.Bypass), len(a.ReasoningSignals)))
	}
	if len(a.Dangerous) > 0 && !a.Unsaved.HasUnsavedWork {
		conditions = append(conditions, fmt.Sprintf(
			"Dangerous operations detected but no unsaved work at risk (%d operations)", len(a.Dangerous)))
	}
	if len(a.Risky) > 0 {
		conditions = append(conditions, fmt.Sprintf(
			"Risky operations that need careful consideration (%d operations)", len(a.Risky)))
	}
	if a.Unsaved.HasUnsavedWork && len(a.Critical) == 0 && len(a.Dangerous) == 0 {
		conditions = append(conditions, fmt.Sprintf(
			"Unsaved work detected - consider committing changes (%d warnings)", len(a.Unsaved.Warnings)))
	}

	if len(conditions) == 0 {
		return NewAllowedResult(), nil
	}

	var parts []string
	if len(a.Bypass) > 0 {
		parts = append(parts, "⚠️  BYPASS WARNING:\nBypass patterns detected but proper reasoning also found.")
	}
	if len(a.Dangerous) > 0 || len(a.Risky) > 0 {
		parts = append(parts, DestructiveGuidance(a))
	}

	message := fmt.Sprintf(`⚠️  OPERATION WARNING

%s

%s

🧠 RECOMMENDED ACTIONS:
• Ensure you're addressing root causes, not working around them
• Consider safer alternatives for destructive operations
• Commit unsaved work before risky operations`, strings.Join(conditions, "\n"), strings.Join(parts, "\n"))

	result := NewWarningResult(r.Name(), message)
	result.Violations = a.Violations()
	return result, nil
}
