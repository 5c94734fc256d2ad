package hooks

// Rule represents one ordered decision of a validator.
type Rule interface {
	// Name returns the unique identifier for this rule.
	Name() string

	// Description returns a human-readable description of what this rule does.
	Description() string

	// Evaluate inspects the analysis and returns a decision.
	Evaluate(analysis *Analysis) (*RuleResult, error)
}
