package risk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTiers() Tiers {
	return Tiers{
		Critical: []Rule{
			MustRule(`git\s+reset\s+--hard`, "hard reset", IgnoreCase, "git stash", "git branch backup"),
			MustRule(`rm\s+-rf\s+\*`, "delete everything", IgnoreCase, "ls -la"),
		},
		Dangerous: []Rule{
			MustRule(`git\s+stash\s+drop`, "stash drop", IgnoreCase, "git stash show -p"),
			MustRule(`git\s+branch\s+-D`, "branch force delete", IgnoreCase),
		},
		Risky: []Rule{
			MustRule(`chmod\s+000`, "remove permissions", IgnoreCase, "ls -la file"),
		},
	}
}

func TestClassifier_Classify(t *testing.T) {
	tests := []struct {
		name             string
		text             string
		wantLevel        Level
		wantDescriptions []string
		wantAlternatives []string
		wantSegments     []string
	}{
		{
			name:             "safe command",
			text:             "ls -la",
			wantLevel:        Safe,
			wantDescriptions: []string{},
			wantAlternatives: []string{},
		},
		{
			name:             "critical command",
			text:             "git reset --hard HEAD~3",
			wantLevel:        Critical,
			wantDescriptions: []string{"hard reset"},
			wantAlternatives: []string{"git stash", "git branch backup"},
			wantSegments:     []string{"git reset --hard HEAD~3"},
		},
		{
			name:             "upper case input still matches",
			text:             "GIT RESET --HARD",
			wantLevel:        Critical,
			wantDescriptions: []string{"hard reset"},
			wantAlternatives: []string{"git stash", "git branch backup"},
		},
		{
			name:             "critical wins over dangerous",
			text:             "git stash drop && git reset --hard",
			wantLevel:        Critical,
			wantDescriptions: []string{"hard reset"},
			wantAlternatives: []string{"git stash", "git branch backup"},
			wantSegments:     []string{"git reset --hard"},
		},
		{
			name:             "all critical matches collected",
			text:             "git reset --hard; rm -rf *",
			wantLevel:        Critical,
			wantDescriptions: []string{"hard reset", "delete everything"},
			wantAlternatives: []string{"git stash", "git branch backup", "ls -la"},
			wantSegments:     []string{"git reset --hard", "rm -rf *"},
		},
		{
			name:             "lower case branch delete matches case-insensitive rule",
			text:             "git branch -d feature",
			wantLevel:        Dangerous,
			wantDescriptions: []string{"branch force delete"},
			wantAlternatives: []string{},
		},
		{
			name:             "risky command",
			text:             "chmod 000 secret.txt",
			wantLevel:        Risky,
			wantDescriptions: []string{"remove permissions"},
			wantAlternatives: []string{"ls -la file"},
		},
	}

	c := NewClassifier(testTiers())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.text)

			assert.Equal(t, tt.wantLevel, got.Level)
			assert.Equal(t, tt.wantDescriptions, got.Descriptions())
			if len(tt.wantAlternatives) == 0 {
				assert.Empty(t, got.Alternatives)
			} else {
				assert.Equal(t, tt.wantAlternatives, got.Alternatives)
			}
			for i, seg := range tt.wantSegments {
				require.Greater(t, len(got.Violations), i)
				assert.Equal(t, tt.wantLevel, got.Violations[i].Level)
				assert.Equal(t, strings.ToLower(seg), got.Violations[i].Segment)
			}
		})
	}
}

func TestClassifier_Scan(t *testing.T) {
	c := NewClassifier(testTiers())

	got := c.Scan("git stash drop; chmod 000 f; git reset --hard")

	assert.Equal(t, Critical, got.Level())
	assert.Equal(t, []string{"hard reset"}, got.CriticalDescriptions())
	assert.Equal(t, []string{"stash drop"}, got.DangerousDescriptions())
	assert.Equal(t, []string{"remove permissions"}, got.RiskyDescriptions())

	safe := c.Scan("echo hello")
	assert.Equal(t, Safe, safe.Level())
	assert.Empty(t, safe.CriticalDescriptions())
}

func TestScanResult_Level(t *testing.T) {
	assert.Equal(t, Safe, ScanResult{}.Level())
	assert.Equal(t, Risky, ScanResult{Risky: []Violation{{}}}.Level())
	assert.Equal(t, Dangerous, ScanResult{Dangerous: []Violation{{}}, Risky: []Violation{{}}}.Level())
}

func TestMatch(t *testing.T) {
	rules := []Rule{
		MustRule(`workaround`, "workaround", IgnoreCase|Multiline),
		MustRule(`^skip`, "line start skip", IgnoreCase|Multiline),
	}

	assert.Equal(t, []string{"workaround", "line start skip"}, Match(rules, "A WORKAROUND\nSkip it"))
	assert.Empty(t, Match(rules, "proper fix"))
}

func TestNewRule_InvalidPattern(t *testing.T) {
	_, err := NewRule(`(unclosed`, "broken", IgnoreCase)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid pattern for rule "broken"`)

	assert.Panics(t, func() { MustRule(`(unclosed`, "broken", 0) })
}

func TestCompile_Flags(t *testing.T) {
	re, err := Compile(`ab`, 0)
	require.NoError(t, err)
	assert.False(t, re.MatchString("AB"))

	re, err = Compile(`ab`, IgnoreCase)
	require.NoError(t, err)
	assert.True(t, re.MatchString("AB"))

	re, err = Compile(`^b$`, Multiline)
	require.NoError(t, err)
	assert.True(t, re.MatchString("a\nb\nc"))
}
