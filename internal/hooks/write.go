package hooks

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/michael-freling/claude-code-guards/internal/lint"
	"github.com/michael-freling/claude-code-guards/internal/logger"
	"github.com/michael-freling/claude-code-guards/internal/risk"
	"github.com/michael-freling/claude-code-guards/internal/workspace"
)

// CodeChecker runs external checks on content before it is written.
type CodeChecker interface {
	// TypeCheck runs the TypeScript compiler in strict mode.
	TypeCheck(ctx context.Context, filePath, content string) lint.Report
	// ESLint runs ESLint.
	ESLint(ctx context.Context, filePath, content string) lint.Report
}

// WriteOptions controls which files are validated and how.
type WriteOptions struct {
	Extensions    []string
	TestFileGlobs []string
	RunTypeScript bool
	RunESLint     bool
}

// WriteValidator validates TypeScript and JavaScript content of Write tool
// calls.
type WriteValidator struct {
	content []risk.Rule
	checker CodeChecker
	opts    WriteOptions
}

// NewWriteValidator creates a validator over the banned content rules.
func NewWriteValidator(content []risk.Rule, checker CodeChecker, opts WriteOptions) *WriteValidator {
	return &WriteValidator{
		content: content,
		checker: checker,
		opts:    opts,
	}
}

// IsTypeScriptFile reports whether the path has a validated extension.
func (v *WriteValidator) IsTypeScriptFile(path string) bool {
	return slices.Contains(v.opts.Extensions, filepath.Ext(path))
}

// IsTestFile reports whether the path matches a test file glob.
func (v *WriteValidator) IsTestFile(path string) bool {
	return workspace.MatchAny(v.opts.TestFileGlobs, path)
}

// BannedPatterns returns the banned content messages that match content.
func (v *WriteValidator) BannedPatterns(content string) []string {
	var violations []string
	for _, rule := range v.content {
		if rule.Pattern.MatchString(content) {
			violations = append(violations, rule.Description)
		}
	}
	return violations
}

// Validate checks a Write tool event.
func (v *WriteValidator) Validate(ctx context.Context, event *Event) (*RuleResult, error) {
	if event.Name() != "Write" {
		return NewAllowedResult(), nil
	}

	filePath, content, ok, err := writeArgs(event)
	if err != nil {
		return nil, err
	}
	if !ok {
		return NewAllowedResult(), nil
	}

	logger.Debug("validating write operation", "file_path", filePath)

	if !v.IsTypeScriptFile(filePath) {
		logger.Debug("skipping non-TypeScript file", "file_path", filePath)
		return NewAllowedResult(), nil
	}

	base := filepath.Base(filePath)
	isTest := v.IsTestFile(filePath)

	var notes []string
	if isTest {
		notes = append(notes, testFileNotice(base))
	}

	violations := v.BannedPatterns(content)
	patternFailed := len(violations) > 0

	tsPassed, eslintPassed := true, true
	if v.opts.RunTypeScript {
		report := v.checker.TypeCheck(ctx, filePath, content)
		tsPassed = report.Passed
		violations = append(violations, report.Messages...)
	}
	if v.opts.RunESLint {
		report := v.checker.ESLint(ctx, filePath, content)
		eslintPassed = report.Passed
		violations = append(violations, report.Messages...)
	}

	if !tsPassed || !eslintPassed || patternFailed {
		result := NewBlockedResult("write-validator", blockedWriteMessage(base, isTest, violations))
		result.Notes = notes
		result.Violations = violations
		return result, nil
	}

	if isTest {
		success := fmt.Sprintf("✅ Test file validation passed: %s\n✅ Compliance confirmed: Zero 'any' types, proper patterns used", base)
		logger.Debug("test file validation passed", "file_path", filePath)
		notes = append(notes, success)
	}

	logger.Debug("all validations passed", "file_path", filePath)
	result := NewAllowedResult()
	result.Notes = notes
	return result, nil
}

// writeArgs extracts file_path and content. ok is false when either is
// missing or empty.
func writeArgs(event *Event) (string, string, bool, error) {
	rawPath, hasPath := event.GetArg("file_path")
	rawContent, hasContent := event.GetArg("content")
	if !hasPath || !hasContent || rawPath == nil || rawContent == nil {
		return "", "", false, nil
	}

	filePath, ok := rawPath.(string)
	if !ok {
		return "", "", false, fmt.Errorf("file_path must be a string, got %T", rawPath)
	}
	content, ok := rawContent.(string)
	if !ok {
		return "", "", false, fmt.Errorf("content must be a string, got %T", rawContent)
	}
	if filePath == "" || content == "" {
		return "", "", false, nil
	}
	return filePath, content, true, nil
}

func testFileNotice(base string) string {
	return fmt.Sprintf(`📚 TEST FILE DETECTED: %s

🚨 MANDATORY COMPLIANCE CHECK:
  • Have you read TEST-GUIDELINES.md? (344 lines of required standards)
  • Have you checked TEST-ERROR-PATTERNS.md for banned patterns?
  • Are you following TDD workflow: tests → docs → code → verify?

⚠️  ZERO TOLERANCE POLICY ACTIVE:
  • NO 'any' types permitted in test files
  • NO logical OR (||) for defaults - use nullish coalescing (??)
  • 95%%+ test coverage required
  • ALL violations will be blocked by pre-commit hook

Proceeding with validation...`, base)
}

func mentionsAny(violations []string) bool {
	for _, v := range violations {
		if strings.Contains(strings.ToLower(v), "any") {
			return true
		}
	}
	return false
}

func mentionsLogicalOr(violations []string) bool {
	for _, v := range violations {
		if strings.Contains(v, "||") {
			return true
		}
	}
	return false
}

// DocumentationReferences lists the reading required to fix violations.
func DocumentationReferences(isTest bool, violations []string) string {
	if !isTest {
		return strings.Join([]string{
			"📋 CODE QUALITY STANDARDS:",
			"  • Use fs-extra-safe.ts utility (not direct fs-extra imports)",
			"  • Maintain TypeScript strict mode compliance",
			"  • Follow existing codebase patterns",
		}, "\n")
	}

	refs := []string{
		"📋 REQUIRED READING (complete these first):",
		"  • TEST-GUIDELINES.md (lines 1-50): Core Principles & Zero Tolerance Policy",
		"  • TEST-GUIDELINES.md (lines 33-99): Type Safety in Tests (MANDATORY)",
		"  • TEST-ERROR-PATTERNS.md: All Banned Patterns Database",
	}
	if mentionsAny(violations) {
		refs = append(refs,
			"  • TEST-GUIDELINES.md (lines 37-55): ❌ BANNED 'any' Types → ✅ Proper Assertions",
			"  • TEST-ERROR-PATTERNS.md Pattern 1: 'any' Types (ZERO TOLERANCE)",
		)
	}
	if mentionsLogicalOr(violations) {
		refs = append(refs,
			"  • TEST-ERROR-PATTERNS.md Pattern 2: Logical OR vs Nullish Coalescing",
			"  • TEST-GUIDELINES.md (lines 59-71): Use ?? instead of ||",
		)
	}
	return strings.Join(refs, "\n")
}

// EducationalGuidance explains the standards the content must meet.
func EducationalGuidance(isTest bool, violations []string) string {
	if !isTest {
		return strings.Join([]string{
			"🎓 SOURCE CODE STANDARDS:",
			"  • Use specific types instead of 'any'",
			"  • Import from fs-extra-safe.js utility",
			"  • Follow TypeScript strict mode requirements",
		}, "\n")
	}

	guidance := []string{
		"🎓 TEST FILE COMPLIANCE REQUIREMENTS:",
		"  • ZERO 'any' types allowed - use 'unknown' with type guards",
		"  • ALL logical OR (||) must be nullish coalescing (??)",
		"  • TDD workflow: tests → docs → code → verify",
		"  • Maintain 95%+ test coverage at all times",
		"  • Mock ALL required dependencies (INIT.md, PLAN.md, etc.)",
	}
	if len(violations) > 0 {
		guidance = append(guidance, "\n✅ QUICK FIXES FROM DOCUMENTATION:")
		if mentionsAny(violations) {
			guidance = append(guidance,
				"  Replace: const x = obj as any;",
				"  With:    const x = obj as unknown as SpecificType;",
			)
		}
		if mentionsLogicalOr(violations) {
			guidance = append(guidance,
				"  Replace: const val = input || default;",
				"  With:    const val = input ?? default;",
			)
		}
	}
	return strings.Join(guidance, "\n")
}

func blockedWriteMessage(base string, isTest bool, violations []string) string {
	items := make([]string, 0, len(violations))
	for _, v := range violations {
		items = append(items, "  • "+v)
	}

	return fmt.Sprintf(`🚫 Write operation blocked for %s

%s

🔍 SPECIFIC VIOLATIONS DETECTED:
%s

%s

🛡️  PROTECTION SYSTEM STATUS:
  • Write tool hook: ACTIVE (blocking violations)
  • Pre-commit hook: ACTIVE (comprehensive validation)
  • Git Feature Branch Workflow: ENFORCED

📊 AGENT REQUIREMENTS:
  • Read documentation before proceeding
  • Fix violations using provided patterns
  • Maintain project quality standards
  • Follow TDD methodology for test files

The Write operation has been prevented to maintain code quality.
Complete the required reading and fix violations using the guidance above.`,
		base,
		DocumentationReferences(isTest, violations),
		strings.Join(items, "\n"),
		EducationalGuidance(isTest, violations))
}
