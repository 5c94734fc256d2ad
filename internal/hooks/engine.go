package hooks

import "fmt"

// ruleEngine implements the rule evaluation engine.
type ruleEngine struct {
	rules []Rule
}

// NewRuleEngine creates a new rule engine with the given rules.
func NewRuleEngine(rules ...Rule) *ruleEngine {
	return &ruleEngine{
		rules: rules,
	}
}

// Evaluate evaluates the rules in order.
// Returns the first result that is not an allow, or an allowed result.
func (e *ruleEngine) Evaluate(analysis *Analysis) (*RuleResult, error) {
	if analysis == nil {
		return nil, fmt.Errorf("analysis cannot be nil")
	}

	for _, rule := range e.rules {
		result, err := rule.Evaluate(analysis)
		if err != nil {
			return nil, fmt.Errorf("rule %s failed: %w", rule.Name(), err)
		}

		if !result.Allowed() {
			return result, nil
		}
	}

	return NewAllowedResult(), nil
}
