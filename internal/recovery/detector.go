package recovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/michael-freling/claude-code-guards/internal/logger"
)

// criticalFiles are expected in a project that has them in its history.
var criticalFiles = []string{
	"package.json", "tsconfig.json", ".eslintrc.js", ".eslintrc.cjs",
	"jest.config.js", "jest.config.mjs", "README.md", ".gitignore",
}

// importantFilesGlob counts the source files of a project.
const importantFilesGlob = "**/*.{js,ts,py,md,json,yaml,yml}"

// minImportantFiles is the fewest source files a non-empty project has.
const minImportantFiles = 3

var (
	resetPattern        = regexp.MustCompile(`HEAD@\{(\d+)\}.*reset:`)
	deleteBranchPattern = regexp.MustCompile(`(?i)delete branch (.+)`)
	errEnoughFiles      = errors.New("enough files")
)

// Detector finds data loss incidents.
type Detector struct {
	git          *git
	dir          string
	timeProvider TimeProvider
}

// DetectAll runs every detection in order.
func (d *Detector) DetectAll(ctx context.Context) []Incident {
	available := d.git.available(ctx)

	var incidents []Incident
	if available {
		incidents = append(incidents, d.uncommittedChangesLost(ctx)...)
	}
	incidents = append(incidents, d.configFilesMissing(ctx, available)...)
	if available {
		incidents = append(incidents, d.branchesDeleted(ctx)...)
		incidents = append(incidents, d.stashesLost(ctx)...)
		incidents = append(incidents, d.repositoryCorrupted(ctx)...)
	}
	incidents = append(incidents, d.workDirectoryEmpty(ctx, available)...)
	return incidents
}

func (d *Detector) incident(t IncidentType, description string, files []string, severity float64, strategy Strategy) Incident {
	return Incident{
		Type:          t,
		Description:   description,
		Severity:      severity,
		AffectedFiles: nonNil(files),
		DetectedAt:    d.timeProvider(),
		Strategy:      strategy,
	}
}

// uncommittedChangesLost reports the most recent reset that changed files.
func (d *Detector) uncommittedChangesLost(ctx context.Context) []Incident {
	reflog, _, ok := d.git.run(ctx, "reflog", "--oneline", "-10")
	if !ok {
		return nil
	}

	for _, line := range lines(reflog) {
		m := resetPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		index, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}

		diff, _, ok := d.git.run(ctx, "diff", fmt.Sprintf("HEAD@{%d}", index+1), fmt.Sprintf("HEAD@{%d}", index))
		if !ok || strings.TrimSpace(diff) == "" {
			continue
		}
		return []Incident{d.incident(
			UncommittedChangesLost,
			fmt.Sprintf("Git reset may have lost uncommitted changes (reflog entry %d)", index),
			filesFromDiff(diff), 0.8, Guided,
		)}
	}
	return nil
}

// configFilesMissing reports critical files that are gone from the working
// tree but present in history.
func (d *Detector) configFilesMissing(ctx context.Context, available bool) []Incident {
	if !available {
		return nil
	}

	var missing []string
	for _, name := range criticalFiles {
		if _, err := os.Stat(filepath.Join(d.dir, name)); err == nil {
			continue
		}
		out, _, ok := d.git.run(ctx, "log", "--oneline", "-1", "--", name)
		if ok && strings.TrimSpace(out) != "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return []Incident{d.incident(
		ConfigFilesMissing,
		"Critical configuration files are missing: "+strings.Join(missing, ", "),
		missing, 0.9, Guided,
	)}
}

func (d *Detector) branchesDeleted(ctx context.Context) []Incident {
	reflog, _, ok := d.git.run(ctx, "reflog", "--oneline", "--all", "-20")
	if !ok {
		return nil
	}

	var incidents []Incident
	for _, line := range lines(reflog) {
		m := deleteBranchPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		incidents = append(incidents, d.incident(
			BranchDeleted,
			fmt.Sprintf("Branch '%s' was recently deleted", strings.TrimSpace(m[1])),
			nil, 0.6, Automatic,
		))
	}
	return incidents
}

func (d *Detector) stashesLost(ctx context.Context) []Incident {
	reflog, _, ok := d.git.run(ctx, "reflog", "stash", "--oneline", "-10")
	if !ok {
		return nil
	}

	drops := 0
	for _, line := range lines(reflog) {
		if strings.Contains(strings.ToLower(line), "drop") {
			drops++
		}
	}
	if drops == 0 {
		return nil
	}
	return []Incident{d.incident(
		StashLost,
		fmt.Sprintf("Recent stash drops detected (%d operations)", drops),
		nil, 0.4, Guided,
	)}
}

func (d *Detector) repositoryCorrupted(ctx context.Context) []Incident {
	_, stderr, ok := d.git.run(ctx, "fsck", "--full")
	if ok && !strings.Contains(strings.ToLower(stderr), "error") {
		return nil
	}
	return []Incident{d.incident(
		RepositoryCorrupted,
		"Git repository corruption detected: "+stderr,
		nil, 0.95, Emergency,
	)}
}

// workDirectoryEmpty reports a directory with almost no source files even
// though git has history for it.
func (d *Detector) workDirectoryEmpty(ctx context.Context, available bool) []Incident {
	if !available || countImportantFiles(d.dir) >= minImportantFiles {
		return nil
	}

	log, _, ok := d.git.run(ctx, "log", "--oneline", "-5")
	if !ok || strings.TrimSpace(log) == "" {
		return nil
	}
	return []Incident{d.incident(
		WorkDirectoryEmpty,
		"Work directory appears unusually empty for a project with git history",
		nil, 0.7, Guided,
	)}
}

// countImportantFiles counts up to minImportantFiles source files.
func countImportantFiles(dir string) int {
	count := 0
	err := doublestar.GlobWalk(os.DirFS(dir), importantFilesGlob, func(string, fs.DirEntry) error {
		count++
		if count >= minImportantFiles {
			return errEnoughFiles
		}
		return nil
	}, doublestar.WithFilesOnly())
	if err != nil && !errors.Is(err, errEnoughFiles) {
		logger.Debug("failed to count project files", "dir", dir, "error", err)
	}
	return count
}

// filesFromDiff extracts the b/ paths of "diff --git a/x b/x" headers.
func filesFromDiff(diff string) []string {
	var files []string
	for _, line := range strings.Split(diff, "\n") {
		if !strings.HasPrefix(line, "diff --git") {
			continue
		}
		parts := strings.Split(line, " ")
		if len(parts) >= 4 {
			files = append(files, strings.TrimPrefix(parts[3], "b/"))
		}
	}
	return files
}
