package recovery

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/michael-freling/claude-code-guards/internal/command"
	"github.com/michael-freling/claude-code-guards/internal/logger"
	"github.com/michael-freling/claude-code-guards/internal/workspace"
)

const (
	preRecoveryTimestampFormat = "20060102-150405"
	maxListedPoints            = 10
	maxEmergencyPoints         = 5
)

// Score adjustments used when matching a recovery point to an incident.
const (
	fileOverlapBonus = 0.2
	recencyBonus     = 0.1
	preferenceBonus  = 0.15
)

var preferredPoints = map[IncidentType][]PointType{
	UncommittedChangesLost: {GitStash, GitReflog},
	FilesDeleted:           {GuardBackup, BackupDirectory},
	BranchDeleted:          {GitReflog, GitBranch},
	ConfigFilesMissing:     {BackupDirectory, RecentCommit},
}

// Options configures an Assistant.
type Options struct {
	// Timeout bounds each git command. Zero means DefaultTimeout.
	Timeout time.Duration
	// GuardBackupDir is the destructive guard backup directory.
	GuardBackupDir string
	// HomeDir is searched for a backups directory. Empty skips it.
	HomeDir string
	// PreRecoveryIgnore lists base name globs left out of the backup taken
	// before an interactive recovery.
	PreRecoveryIgnore []string
}

// Attempt is one recovery attempted for an incident.
type Attempt struct {
	Incident      string `json:"incident"`
	RecoveryPoint string `json:"recovery_point"`
	Success       bool   `json:"success"`
	Message       string `json:"message"`
}

// Result summarizes a recovery run.
type Result struct {
	IncidentsDetected   int       `json:"incidents_detected"`
	RecoveryPointsFound int       `json:"recovery_points_found"`
	Attempts            []Attempt `json:"recovery_attempts"`
	Success             bool      `json:"success"`
	Message             string    `json:"message"`
}

// Assistant detects data loss and restores from recovery points.
type Assistant struct {
	git       *git
	dir       string
	opts      Options
	detector  *Detector
	discovery *Discovery
}

// NewAssistant creates an assistant for the working directory dir.
func NewAssistant(runner command.Runner, dir string, opts Options) *Assistant {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	g := &git{runner: runner, dir: dir, timeout: opts.Timeout}
	a := &Assistant{
		git:  g,
		dir:  dir,
		opts: opts,
		detector: &Detector{
			git: g,
			dir: dir,
		},
		discovery: &Discovery{
			git:            g,
			dir:            dir,
			guardBackupDir: opts.GuardBackupDir,
			homeDir:        opts.HomeDir,
		},
	}
	a.SetTimeProvider(time.Now)
	return a
}

// SetTimeProvider sets a custom time provider for testing
func (a *Assistant) SetTimeProvider(tp TimeProvider) {
	a.detector.timeProvider = tp
	a.discovery.timeProvider = tp
}

func (a *Assistant) now() time.Time {
	return a.detector.timeProvider()
}

// Detect returns every detected incident.
func (a *Assistant) Detect(ctx context.Context) []Incident {
	return a.detector.DetectAll(ctx)
}

// RecoveryPoints returns every recovery point, best first.
func (a *Assistant) RecoveryPoints(ctx context.Context) []Point {
	return a.discovery.DiscoverAll(ctx)
}

// BestPoint picks the recovery point that best fits incident.
func BestPoint(incident Incident, points []Point, now time.Time) (Point, bool) {
	if len(points) == 0 {
		return Point{}, false
	}

	best, bestScore := 0, -1.0
	for i, p := range points {
		score := p.Confidence

		if overlap := countOverlap(incident.AffectedFiles, p.FilesAffected); overlap > 0 {
			score += fileOverlapBonus * float64(overlap) / float64(len(incident.AffectedFiles))
		}
		if incident.Type == UncommittedChangesLost || incident.Type == FilesDeleted {
			if now.Sub(p.Timestamp) < 2*24*time.Hour {
				score += recencyBonus
			}
		}
		for _, preferred := range preferredPoints[incident.Type] {
			if p.Type == preferred {
				score += preferenceBonus
				break
			}
		}

		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return points[best], true
}

func countOverlap(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(b))
	for _, f := range b {
		set[f] = struct{}{}
	}
	seen := make(map[string]struct{}, len(a))
	count := 0
	for _, f := range a {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		if _, ok := set[f]; ok {
			count++
		}
	}
	return count
}

// AutoRecover restores every incident whose best recovery point is confident
// enough. A recovery point is used at most once.
func (a *Assistant) AutoRecover(ctx context.Context) Result {
	incidents := a.Detect(ctx)
	points := a.RecoveryPoints(ctx)

	result := Result{
		IncidentsDetected:   len(incidents),
		RecoveryPointsFound: len(points),
		Attempts:            []Attempt{},
	}
	if len(incidents) == 0 {
		result.Success = true
		result.Message = "No data loss incidents detected"
		return result
	}
	if len(points) == 0 {
		result.Message = "No recovery points found"
		return result
	}

	attempted := make(map[string]bool)
	for _, incident := range incidents {
		point, ok := BestPoint(incident, points, a.now())
		if !ok || point.Confidence < AutoRecoverConfidence {
			continue
		}
		key := string(point.Type) + ":" + point.Identifier
		if attempted[key] {
			continue
		}
		attempted[key] = true

		success, message := a.Attempt(ctx, point, true, io.Discard)
		result.Attempts = append(result.Attempts, Attempt{
			Incident:      incident.Description,
			RecoveryPoint: point.Description,
			Success:       success,
			Message:       message,
		})
		if success {
			result.Success = true
			logger.Info("recovered from incident", "incident", incident.Description)
		} else {
			logger.Warn("failed to recover from incident", "incident", incident.Description, "message", message)
		}
	}

	switch {
	case len(result.Attempts) == 0:
		result.Message = "No recovery point is confident enough for automatic recovery"
	case result.Success:
		result.Message = "Automatic recovery completed"
	default:
		result.Message = "Automatic recovery failed"
	}
	return result
}

// Attempt restores point. Unless automatic, the working directory is first
// copied next to itself and the copy's location is printed to out.
func (a *Assistant) Attempt(ctx context.Context, point Point, automatic bool, out io.Writer) (bool, string) {
	logger.Info("attempting recovery", "point", point.Description)

	if !automatic {
		name := "pre-recovery-backup-" + a.now().Format(preRecoveryTimestampFormat)
		dst := filepath.Join(filepath.Dir(a.dir), name)
		if err := workspace.CopyTree(a.dir, dst, a.opts.PreRecoveryIgnore); err != nil {
			logger.Warn("failed to create pre-recovery backup", "error", err)
			fmt.Fprintf(out, "⚠️  Failed to create pre-recovery backup: %v\n", err)
		} else {
			logger.Info("created pre-recovery backup", "path", "../"+name)
			fmt.Fprintf(out, "🛡️ Created pre-recovery backup: ../%s\n", name)
		}
	}

	switch {
	case len(point.GitArgs) > 0:
		stdout, stderr, ok := a.git.run(ctx, point.GitArgs...)
		if !ok {
			logger.Error("recovery command failed", "stderr", stderr)
			return false, "Recovery failed: " + stderr
		}
		logger.Info("recovery command succeeded", "stdout", stdout)
		return true, "Recovery successful: " + point.Description
	case point.Source != "":
		if err := workspace.CopyTree(point.Source, a.dir, []string{".git"}); err != nil {
			logger.Error("file recovery failed", "error", err)
			return false, fmt.Sprintf("File recovery failed: %v", err)
		}
		logger.Info("file recovery successful")
		return true, "Recovery successful: " + point.Description
	default:
		return false, "Unsupported recovery command: " + point.RecoveryCommand
	}
}

// InteractiveRecover lists incidents and recovery points on out and restores
// the point chosen on in.
func (a *Assistant) InteractiveRecover(ctx context.Context, in io.Reader, out io.Writer) Result {
	incidents := a.Detect(ctx)
	if len(incidents) == 0 {
		fmt.Fprintln(out, "✅ No data loss incidents detected.")
		return Result{Success: true, Message: "No recovery needed", Attempts: []Attempt{}}
	}
	points := a.RecoveryPoints(ctx)
	result := Result{
		IncidentsDetected:   len(incidents),
		RecoveryPointsFound: len(points),
		Attempts:            []Attempt{},
	}

	fmt.Fprintf(out, "🔍 Detected %d potential data loss incidents:\n", len(incidents))
	for i, incident := range incidents {
		fmt.Fprintf(out, "  %d. %s %s (severity: %.1f)\n", i+1, SeverityIndicator(incident.Severity), incident.Description, incident.Severity)
	}

	if len(points) == 0 {
		fmt.Fprintln(out, "❌ No recovery points found.")
		result.Message = "No recovery options available"
		return result
	}

	now := a.now()
	listed := points[:min(len(points), maxListedPoints)]
	fmt.Fprintf(out, "\n🛡️ Found %d potential recovery points:\n", len(points))
	for i, p := range listed {
		fmt.Fprintf(out, "  %d. %s %s\n", i+1, ConfidenceIndicator(p.Confidence), p.Description)
		fmt.Fprintf(out, "     Confidence: %.1f, Files: %d, Age: %s\n", p.Confidence, len(p.FilesAffected), FormatAge(p.Timestamp, now))
	}

	reader := bufio.NewReader(in)
	fmt.Fprintf(out, "\nSelect a recovery point (1-%d) or 'q' to quit: ", len(listed))
	choice, err := readAnswer(reader)
	if err != nil {
		result.Message = "Invalid input or user cancelled"
		return result
	}
	if strings.EqualFold(choice, "q") {
		result.Message = "User cancelled recovery"
		return result
	}
	index, err := strconv.Atoi(choice)
	if err != nil {
		result.Message = "Invalid input or user cancelled"
		return result
	}
	if index < 1 || index > len(listed) {
		result.Message = "Invalid selection"
		return result
	}

	selected := points[index-1]
	fmt.Fprintf(out, "\n📋 Selected recovery point: %s\n", selected.Description)
	fmt.Fprintf(out, "Recovery command: %s\n", selected.RecoveryCommand)
	fmt.Fprintf(out, "Verification: %s\n", selected.VerificationCommand)

	fmt.Fprint(out, "\nProceed with recovery? (yes/no): ")
	confirm, err := readAnswer(reader)
	if err != nil || !strings.EqualFold(confirm, "yes") {
		result.Message = "User cancelled recovery"
		return result
	}

	success, message := a.Attempt(ctx, selected, false, out)
	result.Attempts = append(result.Attempts, Attempt{
		RecoveryPoint: selected.Description,
		Success:       success,
		Message:       message,
	})
	result.Success = success
	result.Message = message
	return result
}

// EmergencyRecover restores the most confident recovery point when a critical
// incident is detected. Unless auto, the user confirms on in.
func (a *Assistant) EmergencyRecover(ctx context.Context, in io.Reader, out io.Writer, auto bool) bool {
	fmt.Fprintln(out, "🚨 EMERGENCY RECOVERY PROTOCOL")
	fmt.Fprintln(out, "This will attempt to recover from critical data loss situations.")
	fmt.Fprintln(out)

	var critical []Incident
	for _, incident := range a.Detect(ctx) {
		if incident.Severity >= CriticalSeverity {
			critical = append(critical, incident)
		}
	}
	if len(critical) == 0 {
		fmt.Fprintln(out, "✅ No critical data loss detected.")
		return true
	}

	fmt.Fprintf(out, "🚨 %d critical incidents detected:\n", len(critical))
	for _, incident := range critical {
		fmt.Fprintf(out, "  • %s\n", incident.Description)
	}

	var confident []Point
	for _, p := range a.RecoveryPoints(ctx) {
		if p.Confidence >= AutoRecoverConfidence {
			confident = append(confident, p)
		}
	}
	if len(confident) == 0 {
		fmt.Fprintln(out, "❌ No high-confidence recovery points available.")
		fmt.Fprintln(out, "Manual recovery may be required.")
		return false
	}

	fmt.Fprintf(out, "\n🛡️ %d high-confidence recovery options:\n", len(confident))
	for i, p := range confident[:min(len(confident), maxEmergencyPoints)] {
		fmt.Fprintf(out, "  %d. %s (confidence: %.2f)\n", i+1, p.Description, p.Confidence)
	}

	if !auto {
		fmt.Fprint(out, "\nProceed with emergency recovery? (yes/no): ")
		confirm, err := readAnswer(bufio.NewReader(in))
		if err != nil || !strings.EqualFold(confirm, "yes") {
			fmt.Fprintln(out, "Emergency recovery cancelled.")
			return false
		}
	}

	success, message := a.Attempt(ctx, confident[0], auto, out)
	fmt.Fprintf(out, "\nEmergency recovery result: %s\n", message)
	return success
}

func readAnswer(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
