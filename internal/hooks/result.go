package hooks

// Decision is the verdict of a hook. Its value is the process exit code.
type Decision int

const (
	// Allow lets the action proceed.
	Allow Decision = 0
	// Block stops the action until the user intervenes.
	Block Decision = 1
	// Warn lets the action proceed with guidance.
	Warn Decision = 2
	// Forbid stops the action unconditionally.
	Forbid Decision = 3
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Block:
		return "block"
	case Warn:
		return "warn"
	case Forbid:
		return "forbid"
	default:
		return "unknown"
	}
}

// RuleResult represents the result of evaluating a rule.
type RuleResult struct {
	// Decision is the verdict and exit code.
	Decision Decision

	// Message explains the decision and is printed to stderr.
	Message string

	// RuleName identifies which rule produced this result.
	RuleName string

	// Notes are printed before Message regardless of the decision.
	Notes []string

	// Violations lists what the rule matched, for the audit log.
	Violations []string
}

// Allowed reports whether the action may proceed without guidance.
func (r *RuleResult) Allowed() bool {
	return r.Decision == Allow
}

// ExitCode returns the process exit code for the result.
func (r *RuleResult) ExitCode() int {
	return int(r.Decision)
}

// NewAllowedResult creates a result that allows the action.
func NewAllowedResult() *RuleResult {
	return &RuleResult{Decision: Allow}
}

// NewBlockedResult creates a result that blocks the action.
func NewBlockedResult(ruleName, message string) *RuleResult {
	return &RuleResult{
		Decision: Block,
		Message:  message,
		RuleName: ruleName,
	}
}

// NewWarningResult creates a result that allows the action with a warning.
func NewWarningResult(ruleName, message string) *RuleResult {
	return &RuleResult{
		Decision: Warn,
		Message:  message,
		RuleName: ruleName,
	}
}

// NewForbiddenResult creates a result that forbids the action.
func NewForbiddenResult(ruleName, message string) *RuleResult {
	return &RuleResult{
		Decision: Forbid,
		Message:  message,
		RuleName: ruleName,
	}
}
