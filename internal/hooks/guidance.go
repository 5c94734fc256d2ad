package hooks

import (
	"fmt"
	"strings"
)

// DestructiveGuidance renders the destructive operation sections of a
// reasoning message.
func DestructiveGuidance(a *Analysis) string {
	var lines []string

	if len(a.Critical) > 0 {
		lines = append(lines,
			"🚨 CRITICAL DATA LOSS RISK - OPERATION FORBIDDEN",
			"",
			"The following operations WILL DEFINITELY lose data:",
		)
		for _, op := range a.Critical {
			lines = append(lines, "  ❌ "+op)
		}
		lines = append(lines,
			"",
			"🛡️ SAFER ALTERNATIVES:",
			"  ✅ git stash push -m 'backup before operation'  # Save work first",
			"  ✅ git branch backup-$(date +%Y%m%d-%H%M%S)     # Create backup branch",
			"  ✅ cp -r . ../backup-$(basename $PWD)           # Create directory backup",
		)
	}

	if len(a.Dangerous) > 0 {
		lines = append(lines,
			"⚠️  DANGEROUS OPERATIONS DETECTED",
			"",
			"The following operations could lose unsaved work:",
		)
		for _, op := range a.Dangerous {
			lines = append(lines, "  ⚠️ "+op)
		}
	}

	if len(a.Risky) > 0 {
		lines = append(lines,
			"🔄 RISKY OPERATIONS - PROCEED WITH CAUTION",
			"",
			"The following operations need careful consideration:",
		)
		for _, op := range a.Risky {
			lines = append(lines, "  🤔 "+op)
		}
	}

	if a.Unsaved.HasUnsavedWork && len(a.Unsaved.Warnings) > 0 {
		lines = append(lines, "", "📝 UNSAVED WORK DETECTED:")
		for _, w := range a.Unsaved.Warnings {
			lines = append(lines, "  • "+w)
		}
		lines = append(lines,
			"",
			"🔒 PROTECTION REQUIRED:",
			"  1. git add . && git commit -m 'WIP: backup before operation'",
			"  2. git stash push -m 'backup-$(date +%Y%m%d-%H%M%S)'",
			"  3. Create backup: cp -r . ../backup-$(basename $PWD)",
		)
	}

	if len(a.Critical) > 0 || (len(a.Dangerous) > 0 && a.Unsaved.HasUnsavedWork) {
		lines = append(lines,
			"",
			"🧠 MANDATORY SAFETY PROTOCOL:",
			"1. What EXACTLY will this operation delete or overwrite?",
			"2. Do I have a COMPLETE BACKUP of all affected files?",
			"3. Can I RECOVER this work if something goes wrong?",
			"4. Is there a SAFER way to achieve the same result?",
			"",
			"⚠️  BLOCKED: Destructive operations require explicit safety measures.",
		)
	}

	return strings.Join(lines, "\n")
}

// ReasoningGuidance renders guidance for each bypass, falling back to a
// generic root-cause hint.
func ReasoningGuidance(violations []string, guidance map[string]string) string {
	parts := make([]string, 0, len(violations))
	for _, v := range violations {
		if text, ok := guidance[v]; ok {
			parts = append(parts, text)
			continue
		}
		parts = append(parts, fmt.Sprintf("❌ BYPASS DETECTED: %s\n   ✅ PROPER APPROACH: Fix the root cause instead", v))
	}
	return strings.Join(parts, "\n\n")
}
