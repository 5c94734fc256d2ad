package risk

import (
	"fmt"
	"strings"
)

// Level is the risk tier of an operation, ordered by severity.
type Level int

const (
	Safe Level = iota
	Risky
	Dangerous
	Critical
)

var levelNames = map[Level]string{
	Safe:      "safe",
	Risky:     "risky",
	Dangerous: "dangerous",
	Critical:  "critical",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// MarshalText encodes the level as its lower-case name.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText decodes a level name.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLevel parses a level name case-insensitively.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for level, n := range levelNames {
		if n == name {
			return level, nil
		}
	}
	return Safe, fmt.Errorf("unknown risk level %q", s)
}

// ExitCode maps a level to the destructive guard exit code.
func ExitCode(l Level) int {
	switch l {
	case Critical:
		return 3
	case Dangerous:
		return 1
	case Risky:
		return 2
	default:
		return 0
	}
}

// ApprovalRequired reports whether the level needs explicit user approval.
func ApprovalRequired(l Level) bool {
	return l >= Dangerous
}

// SafetyScore rates an operation between 0.0 and 1.0.
func SafetyScore(l Level, hasUnsavedWork bool, violationCount int) float64 {
	var score float64
	switch l {
	case Safe:
		score = 1.0
	case Risky:
		score = 0.7
	case Dangerous:
		score = 0.3
	default:
		score = 0.0
	}

	if hasUnsavedWork {
		score *= 0.5
	}

	penalty := min(0.1*float64(violationCount), 0.5)
	score *= 1 - penalty

	return max(0.0, score)
}
