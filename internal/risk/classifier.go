// Package risk classifies commands and text into safe, risky, dangerous and
// critical tiers using ordered regular expression rules.
package risk

import "strings"

// Violation is a rule that matched the classified text.
type Violation struct {
	Level       Level  `json:"level"`
	Description string `json:"description"`
	// Segment is the shell segment the rule matched in.
	Segment string `json:"segment,omitempty"`
}

// Classification is the outcome of Classify.
type Classification struct {
	Level        Level       `json:"risk_level"`
	Violations   []Violation `json:"violations"`
	Alternatives []string    `json:"alternatives"`
}

// Descriptions returns the violation descriptions in match order.
func (c Classification) Descriptions() []string {
	return descriptions(c.Violations)
}

// ScanResult holds every tier's matches collected independently.
type ScanResult struct {
	Critical  []Violation
	Dangerous []Violation
	Risky     []Violation
}

// Level returns the highest tier with at least one match.
func (s ScanResult) Level() Level {
	switch {
	case len(s.Critical) > 0:
		return Critical
	case len(s.Dangerous) > 0:
		return Dangerous
	case len(s.Risky) > 0:
		return Risky
	default:
		return Safe
	}
}

// CriticalDescriptions returns the critical match descriptions.
func (s ScanResult) CriticalDescriptions() []string { return descriptions(s.Critical) }

// DangerousDescriptions returns the dangerous match descriptions.
func (s ScanResult) DangerousDescriptions() []string { return descriptions(s.Dangerous) }

// RiskyDescriptions returns the risky match descriptions.
func (s ScanResult) RiskyDescriptions() []string { return descriptions(s.Risky) }

// Classifier matches text against tiered rules.
type Classifier struct {
	tiers Tiers
}

// NewClassifier creates a classifier over the given tiers.
func NewClassifier(tiers Tiers) *Classifier {
	return &Classifier{tiers: tiers}
}

// Classify returns the highest tier that matches. Lower tiers are not
// evaluated once a higher tier has matched.
func (c *Classifier) Classify(text string) Classification {
	lowered := strings.ToLower(text)
	segments := Segments(lowered)

	for _, tier := range c.tiers.ordered() {
		var violations []Violation
		var alternatives []string
		for _, rule := range tier.rules {
			if !rule.Pattern.MatchString(lowered) {
				continue
			}
			violations = append(violations, Violation{
				Level:       tier.level,
				Description: rule.Description,
				Segment:     attribute(rule, segments, lowered),
			})
			alternatives = append(alternatives, rule.Alternatives...)
		}
		if len(violations) > 0 {
			return Classification{
				Level:        tier.level,
				Violations:   violations,
				Alternatives: alternatives,
			}
		}
	}

	return Classification{Level: Safe, Violations: []Violation{}, Alternatives: []string{}}
}

// Scan matches every tier without short-circuiting.
func (c *Classifier) Scan(text string) ScanResult {
	lowered := strings.ToLower(text)
	segments := Segments(lowered)

	match := func(level Level, rules []Rule) []Violation {
		var out []Violation
		for _, rule := range rules {
			if rule.Pattern.MatchString(lowered) {
				out = append(out, Violation{
					Level:       level,
					Description: rule.Description,
					Segment:     attribute(rule, segments, lowered),
				})
			}
		}
		return out
	}

	return ScanResult{
		Critical:  match(Critical, c.tiers.Critical),
		Dangerous: match(Dangerous, c.tiers.Dangerous),
		Risky:     match(Risky, c.tiers.Risky),
	}
}

// Match returns the descriptions of every rule matching the lower-cased text.
func Match(rules []Rule, text string) []string {
	lowered := strings.ToLower(text)
	var out []string
	for _, rule := range rules {
		if rule.Pattern.MatchString(lowered) {
			out = append(out, rule.Description)
		}
	}
	return out
}

func attribute(rule Rule, segments []string, whole string) string {
	for _, seg := range segments {
		if rule.Pattern.MatchString(seg) {
			return seg
		}
	}
	return strings.TrimSpace(whole)
}

func descriptions(violations []Violation) []string {
	out := make([]string, 0, len(violations))
	for _, v := range violations {
		out = append(out, v.Description)
	}
	return out
}
