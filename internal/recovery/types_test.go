package recovery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIndicators(t *testing.T) {
	tests := []struct {
		value          float64
		wantSeverity   string
		wantConfidence string
	}{
		{value: 0.95, wantSeverity: "🚨", wantConfidence: "🔥"},
		{value: 0.8, wantSeverity: "🚨", wantConfidence: "🔥"},
		{value: 0.7, wantSeverity: "⚠️", wantConfidence: "✅"},
		{value: 0.6, wantSeverity: "⚠️", wantConfidence: "✅"},
		{value: 0.5, wantSeverity: "⚠️", wantConfidence: "🤔"},
		{value: 0.3, wantSeverity: "ℹ️", wantConfidence: "🤔"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.wantSeverity, SeverityIndicator(tt.value), "severity %v", tt.value)
		assert.Equal(t, tt.wantConfidence, ConfidenceIndicator(tt.value), "confidence %v", tt.value)
	}
}

func TestFormatAge(t *testing.T) {
	now := fixedNow()
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{name: "future", at: now.Add(time.Minute), want: "just now"},
		{name: "seconds", at: now.Add(-30 * time.Second), want: "just now"},
		{name: "exactly one minute", at: now.Add(-time.Minute), want: "just now"},
		{name: "minutes", at: now.Add(-61 * time.Second), want: "1m ago"},
		{name: "exactly one hour", at: now.Add(-time.Hour), want: "60m ago"},
		{name: "hours", at: now.Add(-5*time.Hour - time.Minute), want: "5h ago"},
		{name: "days", at: now.Add(-49 * time.Hour), want: "2d ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAge(tt.at, now))
		})
	}
}

func TestFormatIncidents(t *testing.T) {
	assert.Equal(t, "✅ No data loss incidents detected.\n", FormatIncidents(nil))

	got := FormatIncidents([]Incident{
		{Description: "Branch 'x' was recently deleted", Severity: 0.6},
		{Description: "Critical configuration files are missing: package.json", Severity: 0.9, AffectedFiles: []string{"package.json"}},
	})
	assert.Equal(t, "🔍 Detected 2 potential data loss incidents:\n"+
		"  1. ⚠️ Branch 'x' was recently deleted\n"+
		"     Severity: 0.60, Files: 0\n"+
		"  2. 🚨 Critical configuration files are missing: package.json\n"+
		"     Severity: 0.90, Files: 1\n", got)
}

func TestFormatPoints(t *testing.T) {
	now := fixedNow()
	assert.Equal(t, "❌ No recovery points found.\n", FormatPoints(nil, now))

	got := FormatPoints([]Point{
		{
			Type:            GitStash,
			Description:     "Git stash: WIP",
			Confidence:      0.9,
			Timestamp:       now.Add(-2 * time.Hour),
			RecoveryCommand: "git stash pop stash@{0}",
		},
	}, now)
	assert.Equal(t, "🛡️ Found 1 recovery points:\n"+
		"  1. 🔥 Git stash: WIP\n"+
		"     Type: git_stash, Confidence: 0.90, Age: 2h ago\n"+
		"     Command: git stash pop stash@{0}\n", got)
}
