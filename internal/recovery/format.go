package recovery

import (
	"fmt"
	"strings"
	"time"
)

// FormatIncidents renders detected incidents for the detect action.
func FormatIncidents(incidents []Incident) string {
	if len(incidents) == 0 {
		return "✅ No data loss incidents detected.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🔍 Detected %d potential data loss incidents:\n", len(incidents))
	for i, incident := range incidents {
		fmt.Fprintf(&b, "  %d. %s %s\n", i+1, SeverityIndicator(incident.Severity), incident.Description)
		fmt.Fprintf(&b, "     Severity: %.2f, Files: %d\n", incident.Severity, len(incident.AffectedFiles))
	}
	return b.String()
}

// FormatPoints renders recovery points for the list action.
func FormatPoints(points []Point, now time.Time) string {
	if len(points) == 0 {
		return "❌ No recovery points found.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🛡️ Found %d recovery points:\n", len(points))
	for i, p := range points {
		fmt.Fprintf(&b, "  %d. %s %s\n", i+1, ConfidenceIndicator(p.Confidence), p.Description)
		fmt.Fprintf(&b, "     Type: %s, Confidence: %.2f, Age: %s\n", p.Type, p.Confidence, FormatAge(p.Timestamp, now))
		fmt.Fprintf(&b, "     Command: %s\n", p.RecoveryCommand)
	}
	return b.String()
}
