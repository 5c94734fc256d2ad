package recovery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	maxBranches      = 10
	maxReflogPoints  = 5
	maxCommitPoints  = 5
	hashDisplayWidth = 8
)

var (
	stashPattern = regexp.MustCompile(`^(stash@\{(\d+)\}): (.+)$`)

	reflogKeywords       = []string{"commit", "merge", "checkout", "reset"}
	backupNameKeywords   = []string{"backup", "bak", "old", "copy", "archive"}
	projectMarkerEntries = []string{"package.json", ".git"}
)

// Discovery finds states the working directory can be restored to.
type Discovery struct {
	git            *git
	dir            string
	guardBackupDir string
	homeDir        string
	timeProvider   TimeProvider
}

// DiscoverAll returns every recovery point, most confident and most recent
// first.
func (d *Discovery) DiscoverAll(ctx context.Context) []Point {
	var points []Point
	if d.git.available(ctx) {
		points = append(points, d.stashes(ctx)...)
		points = append(points, d.branches(ctx)...)
		points = append(points, d.reflog(ctx)...)
		points = append(points, d.recentCommits(ctx)...)
	}
	points = append(points, d.backupDirectories()...)
	points = append(points, d.guardBackups()...)

	sort.SliceStable(points, func(i, j int) bool {
		if points[i].Confidence != points[j].Confidence {
			return points[i].Confidence > points[j].Confidence
		}
		return points[i].Timestamp.After(points[j].Timestamp)
	})
	return points
}

func (d *Discovery) stashes(ctx context.Context) []Point {
	out, _, ok := d.git.run(ctx, "stash", "list")
	if !ok {
		return nil
	}

	var points []Point
	for _, line := range lines(out) {
		m := stashPattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		ref, description := m[1], m[3]
		index, _ := strconv.Atoi(m[2])

		timestamp := d.timeProvider().Add(-time.Duration(index) * time.Hour)
		if out, _, ok := d.git.run(ctx, "log", "-1", "--format=%ci", ref); ok {
			if t, err := parseGitTime(firstLine(out)); err == nil {
				timestamp = t
			}
		}

		var files []string
		if out, _, ok := d.git.run(ctx, "stash", "show", "--name-only", ref); ok {
			files = lines(out)
		}

		points = append(points, Point{
			Type:                GitStash,
			Identifier:          ref,
			Timestamp:           timestamp,
			Description:         "Git stash: " + description,
			Confidence:          0.9,
			FilesAffected:       nonNil(files),
			RecoveryCommand:     "git stash pop " + ref,
			VerificationCommand: fmt.Sprintf("git stash show %s --stat", ref),
			GitArgs:             []string{"stash", "pop", ref},
		})
	}
	return points
}

func (d *Discovery) branches(ctx context.Context) []Point {
	out, _, ok := d.git.run(ctx, "branch", "-a", "--sort=-committerdate")
	if !ok {
		return nil
	}
	current, _, _ := d.git.run(ctx, "branch", "--show-current")
	current = strings.TrimSpace(current)

	branchLines := lines(out)
	if len(branchLines) > maxBranches {
		branchLines = branchLines[:maxBranches]
	}

	var points []Point
	for _, line := range branchLines {
		name := strings.TrimSpace(strings.ReplaceAll(line, "*", ""))
		if name == "" || strings.HasPrefix(name, "remotes/origin/HEAD") || strings.HasPrefix(name, "origin/HEAD") {
			continue
		}
		name = strings.TrimPrefix(name, "remotes/")
		name = strings.TrimPrefix(name, "origin/")
		if name == current {
			continue
		}

		info, _, ok := d.git.run(ctx, "show", "--format=%ci|%s", "--name-only", "-1", name)
		if !ok {
			continue
		}
		infoLines := strings.Split(info, "\n")
		timeAndSubject := strings.SplitN(infoLines[0], "|", 2)
		if len(timeAndSubject) != 2 {
			continue
		}
		timestamp, err := parseGitTime(timeAndSubject[0])
		if err != nil {
			timestamp = d.timeProvider().Add(-24 * time.Hour)
		}

		var files []string
		if len(infoLines) > 2 {
			files = lines(strings.Join(infoLines[2:], "\n"))
		}

		confidence := 0.6
		if strings.Contains(strings.ToLower(name), "backup") {
			confidence = 0.8
		}

		points = append(points, Point{
			Type:                GitBranch,
			Identifier:          name,
			Timestamp:           timestamp,
			Description:         fmt.Sprintf("Branch '%s': %s", name, timeAndSubject[1]),
			Confidence:          confidence,
			FilesAffected:       nonNil(files),
			RecoveryCommand:     "git checkout " + name,
			VerificationCommand: "git log --oneline -5 " + name,
			GitArgs:             []string{"checkout", name},
		})
	}
	return points
}

func (d *Discovery) reflog(ctx context.Context) []Point {
	out, _, ok := d.git.run(ctx, "reflog", "--format=%H|%gd|%ci|%gs", "-20")
	if !ok {
		return nil
	}

	var points []Point
	for _, line := range lines(out) {
		parts := strings.SplitN(line, "|", 4)
		if len(parts) != 4 {
			continue
		}
		hash, ref, subject := parts[0], parts[1], parts[3]
		timestamp, err := parseGitTime(parts[2])
		if err != nil {
			continue
		}
		if !containsAny(strings.ToLower(subject), reflogKeywords) {
			continue
		}

		points = append(points, Point{
			Type:                GitReflog,
			Identifier:          shortHash(hash),
			Timestamp:           timestamp,
			Description:         fmt.Sprintf("Reflog %s: %s", ref, subject),
			Confidence:          0.5,
			FilesAffected:       []string{},
			RecoveryCommand:     "git reset --hard " + hash,
			VerificationCommand: "git show --stat " + hash,
			GitArgs:             []string{"reset", "--hard", hash},
		})
		if len(points) == maxReflogPoints {
			break
		}
	}
	return points
}

func (d *Discovery) recentCommits(ctx context.Context) []Point {
	out, _, ok := d.git.run(ctx, "log", "--format=%H|%ci|%s", "--name-only", "-10")
	if !ok {
		return nil
	}

	var points []Point
	var current *Point
	for _, line := range lines(out) {
		if !strings.Contains(line, "|") {
			if current != nil {
				current.FilesAffected = append(current.FilesAffected, strings.TrimSpace(line))
			}
			continue
		}

		if current != nil {
			points = append(points, *current)
			current = nil
		}
		parts := strings.SplitN(line, "|", 3)
		if len(parts) != 3 {
			continue
		}
		hash, subject := parts[0], parts[2]
		timestamp, err := parseGitTime(parts[1])
		if err != nil {
			continue
		}
		current = &Point{
			Type:                RecentCommit,
			Identifier:          shortHash(hash),
			Timestamp:           timestamp,
			Description:         "Commit: " + subject,
			Confidence:          0.7,
			FilesAffected:       []string{},
			RecoveryCommand:     "git checkout " + hash,
			VerificationCommand: "git show --stat " + hash,
			GitArgs:             []string{"checkout", hash},
		}
	}
	if current != nil {
		points = append(points, *current)
	}

	if len(points) > maxCommitPoints {
		points = points[:maxCommitPoints]
	}
	return points
}

// backupDirectories scans the parent directory, the working directory and
// ~/backups for directories named like backups.
func (d *Discovery) backupDirectories() []Point {
	locations := []string{filepath.Dir(d.dir), d.dir}
	if d.homeDir != "" {
		locations = append(locations, filepath.Join(d.homeDir, "backups"))
	}

	var points []Point
	for _, location := range locations {
		entries, err := os.ReadDir(location)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			path := filepath.Join(location, entry.Name())
			if !entry.IsDir() || path == d.guardBackupDir {
				continue
			}
			if !containsAny(strings.ToLower(entry.Name()), backupNameKeywords) {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}

			confidence := 0.3
			if hasAnyEntry(path, projectMarkerEntries) {
				confidence = 0.7
			}
			points = append(points, d.directoryPoint(BackupDirectory, path, info.ModTime(),
				"Backup directory: "+entry.Name(), confidence))
		}
	}
	return points
}

func (d *Discovery) guardBackups() []Point {
	entries, err := os.ReadDir(d.guardBackupDir)
	if err != nil {
		return nil
	}

	var points []Point
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(d.guardBackupDir, entry.Name())
		points = append(points, d.directoryPoint(GuardBackup, path, info.ModTime(),
			"Destructive Guard backup: "+entry.Name(), 0.95))
	}
	return points
}

func (d *Discovery) directoryPoint(t PointType, path string, modTime time.Time, description string, confidence float64) Point {
	return Point{
		Type:                t,
		Identifier:          path,
		Timestamp:           modTime,
		Description:         description,
		Confidence:          confidence,
		FilesAffected:       []string{},
		RecoveryCommand:     fmt.Sprintf("cp -r %s/* %s/", path, d.dir),
		VerificationCommand: "ls -la " + path,
		Source:              path,
	}
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func hasAnyEntry(dir string, names []string) bool {
	for _, name := range names {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

func shortHash(hash string) string {
	if len(hash) > hashDisplayWidth {
		return hash[:hashDisplayWidth]
	}
	return hash
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
