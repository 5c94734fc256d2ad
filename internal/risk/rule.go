package risk

import (
	"fmt"
	"regexp"
)

// Flags select regexp matching modes for a rule.
type Flags uint8

const (
	// IgnoreCase matches case-insensitively.
	IgnoreCase Flags = 1 << iota
	// Multiline lets ^ and $ match at line boundaries.
	Multiline
)

// Compile compiles expr with the given flags.
func Compile(expr string, flags Flags) (*regexp.Regexp, error) {
	prefix := ""
	if flags&IgnoreCase != 0 {
		prefix += "i"
	}
	if flags&Multiline != 0 {
		prefix += "m"
	}
	if prefix != "" {
		expr = "(?" + prefix + ")" + expr
	}
	return regexp.Compile(expr)
}

// Rule is a single pattern in a tier.
type Rule struct {
	Pattern      *regexp.Regexp
	Description  string
	Alternatives []string
}

// NewRule compiles a rule pattern.
func NewRule(expr, description string, flags Flags, alternatives ...string) (Rule, error) {
	re, err := Compile(expr, flags)
	if err != nil {
		return Rule{}, fmt.Errorf("invalid pattern for rule %q: %w", description, err)
	}
	return Rule{
		Pattern:      re,
		Description:  description,
		Alternatives: alternatives,
	}, nil
}

// MustRule is NewRule that panics on an invalid pattern.
func MustRule(expr, description string, flags Flags, alternatives ...string) Rule {
	r, err := NewRule(expr, description, flags, alternatives...)
	if err != nil {
		panic(err)
	}
	return r
}

// Tiers holds the ordered rule lists for each non-safe level.
type Tiers struct {
	Critical  []Rule
	Dangerous []Rule
	Risky     []Rule
}

func (t Tiers) ordered() []struct {
	level Level
	rules []Rule
} {
	return []struct {
		level Level
		rules []Rule
	}{
		{Critical, t.Critical},
		{Dangerous, t.Dangerous},
		{Risky, t.Risky},
	}
}
