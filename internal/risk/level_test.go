package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel_String(t *testing.T) {
	assert.Equal(t, "safe", Safe.String())
	assert.Equal(t, "risky", Risky.String())
	assert.Equal(t, "dangerous", Dangerous.String())
	assert.Equal(t, "critical", Critical.String())
	assert.Equal(t, "level(9)", Level(9).String())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "safe", want: Safe},
		{in: " Critical ", want: Critical},
		{in: "DANGEROUS", want: Dangerous},
		{in: "risky", want: Risky},
		{in: "unknown", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevel_TextRoundTrip(t *testing.T) {
	text, err := Dangerous.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "dangerous", string(text))

	var l Level
	require.NoError(t, l.UnmarshalText([]byte("critical")))
	assert.Equal(t, Critical, l)
	assert.Error(t, l.UnmarshalText([]byte("nope")))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(Safe))
	assert.Equal(t, 2, ExitCode(Risky))
	assert.Equal(t, 1, ExitCode(Dangerous))
	assert.Equal(t, 3, ExitCode(Critical))
}

func TestApprovalRequired(t *testing.T) {
	assert.False(t, ApprovalRequired(Safe))
	assert.False(t, ApprovalRequired(Risky))
	assert.True(t, ApprovalRequired(Dangerous))
	assert.True(t, ApprovalRequired(Critical))
}

func TestSafetyScore(t *testing.T) {
	tests := []struct {
		name       string
		level      Level
		unsaved    bool
		violations int
		want       float64
	}{
		{name: "safe clean", level: Safe, want: 1.0},
		{name: "safe with unsaved work", level: Safe, unsaved: true, want: 0.5},
		{name: "risky one violation", level: Risky, violations: 1, want: 0.63},
		{name: "dangerous unsaved two violations", level: Dangerous, unsaved: true, violations: 2, want: 0.12},
		{name: "penalty capped at half", level: Safe, violations: 20, want: 0.5},
		{name: "critical is zero", level: Critical, violations: 1, want: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SafetyScore(tt.level, tt.unsaved, tt.violations), 1e-9)
		})
	}
}
