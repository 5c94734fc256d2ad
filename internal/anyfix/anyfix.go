// Package anyfix rewrites `any` casts in TypeScript test files into typed
// assertions.
package anyfix

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// TestDir must exist under the project root.
	TestDir = "tests/unit"
	// TestGlob selects the unit test files to rewrite.
	TestGlob = TestDir + "/**/*.test.ts"
	// SetupFile is rewritten too when present.
	SetupFile = "tests/setup.ts"
)

// ErrTestDirMissing is returned when the project has no unit test directory.
var ErrTestDirMissing = errors.New("test directory does not exist")

type replacement struct {
	pattern  *regexp.Regexp
	template string
	// when limits the replacement to content that passes the check.
	when func(content string) bool
}

func always(string) bool { return true }

func containsAll(subs ...string) func(string) bool {
	return func(content string) bool {
		for _, s := range subs {
			if !strings.Contains(content, s) {
				return false
			}
		}
		return true
	}
}

func containsAny(subs ...string) func(string) bool {
	return func(content string) bool {
		for _, s := range subs {
			if strings.Contains(content, s) {
				return true
			}
		}
		return false
	}
}

// replacements run in order; later patterns see earlier rewrites. The
// context specific casts come before the generic object cast.
var replacements = []replacement{
	{
		regexp.MustCompile(`(\s+)mockResourceManager = \{([^}]+)\} as any`),
		`${1}mockResourceManager = {${2}} as unknown as jest.Mocked<ResourceManager>`,
		containsAll("mockResourceManager"),
	},
	{
		regexp.MustCompile(`(\s+return Promise\.resolve\(\{[^}]*isDirectory[^}]*\}) as any\)`),
		`${1} as unknown as fs.Stats)`,
		containsAll("isDirectory", "} as any"),
	},
	{
		regexp.MustCompile(`(\s+eventLogger:[^}]+)\} as any\)`),
		`${1}} as unknown as ServerConfig)`,
		containsAny("ServerConfig", "eventLogger"),
	},
	{regexp.MustCompile(`\} as any([;,\)])`), `} as unknown as MockedObject${1}`, always},
	{regexp.MustCompile(`(\w+) as any;`), `${1} as unknown as jest.MockedObject;`, always},
	{regexp.MustCompile(`const mockedFs = (\w+) as any`), `const mockedFs = ${1} as unknown as jest.Mocked<typeof ${1}>`, always},
	{regexp.MustCompile(`let mockConnection: any`), `let mockConnection: unknown`, always},
	{regexp.MustCompile(`_connection: any`), `_connection: unknown`, always},
	{regexp.MustCompile(`const obj: any =`), `const obj: Record<string, unknown> =`, always},
	{regexp.MustCompile(`logOperation: jest\.fn\(\) as any`), `logOperation: jest.fn()`, always},
	{regexp.MustCompile(`getLogEntries: jest\.fn\(\) as any`), `getLogEntries: jest.fn()`, always},
	{regexp.MustCompile(`getOperationStatistics: jest\.fn\(\) as any`), `getOperationStatistics: jest.fn()`, always},
	{regexp.MustCompile(`clearLogs: jest\.fn\(\) as any`), `clearLogs: jest.fn()`, always},
}

// FixContent applies every replacement and reports whether content changed.
func FixContent(content string) (string, bool) {
	fixed := content
	for _, r := range replacements {
		if r.when(fixed) {
			fixed = r.pattern.ReplaceAllString(fixed, r.template)
		}
	}
	return fixed, fixed != content
}

// FixFile rewrites path in place and reports whether it changed.
func FixFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	fixed, changed := FixContent(string(content))
	if !changed {
		return false, nil
	}
	if err := os.WriteFile(path, []byte(fixed), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}

// Run fixes the unit tests and the setup file under root. It returns the
// changed files relative to root.
func Run(root string) ([]string, error) {
	if info, err := os.Stat(filepath.Join(root, TestDir)); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrTestDirMissing, TestDir)
	}

	files, err := doublestar.Glob(os.DirFS(root), TestGlob, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to list test files: %w", err)
	}
	sort.Strings(files)
	if _, err := os.Stat(filepath.Join(root, SetupFile)); err == nil {
		files = append(files, SetupFile)
	}

	fixed := []string{}
	for _, file := range files {
		changed, err := FixFile(filepath.Join(root, filepath.FromSlash(file)))
		if err != nil {
			return fixed, err
		}
		if changed {
			fixed = append(fixed, file)
		}
	}
	return fixed, nil
}

// Format renders the list of fixed files.
func Format(fixed []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Fixed %d files:\n", len(fixed))
	for _, f := range fixed {
		fmt.Fprintf(&b, "  - %s\n", f)
	}
	return b.String()
}
