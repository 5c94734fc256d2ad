package recovery

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestBestPoint(t *testing.T) {
	now := fixedNow()
	recent := now.Add(-time.Hour)
	old := now.Add(-72 * time.Hour)

	stash := Point{Type: GitStash, Identifier: "stash", Confidence: 0.9, Timestamp: old, FilesAffected: []string{}}
	guard := Point{Type: GuardBackup, Identifier: "guard", Confidence: 0.95, Timestamp: old}
	commit := Point{Type: RecentCommit, Identifier: "commit", Confidence: 0.7, Timestamp: recent, FilesAffected: []string{"a.ts", "b.ts"}}
	backup := Point{Type: BackupDirectory, Identifier: "backup", Confidence: 0.3, Timestamp: recent}

	tests := []struct {
		name     string
		incident Incident
		points   []Point
		want     string
		wantOK   bool
	}{
		{
			name:     "no points",
			incident: Incident{Type: StashLost},
			points:   nil,
			wantOK:   false,
		},
		{
			name:     "highest confidence without bonuses",
			incident: Incident{Type: StashLost},
			points:   []Point{stash, guard, commit},
			want:     "guard",
			wantOK:   true,
		},
		{
			name:     "type preference",
			incident: Incident{Type: UncommittedChangesLost},
			points:   []Point{guard, stash},
			want:     "stash",
			wantOK:   true,
		},
		{
			name:     "file overlap and type preference",
			incident: Incident{Type: ConfigFilesMissing, AffectedFiles: []string{"a.ts", "b.ts"}},
			points:   []Point{stash, commit},
			want:     "commit",
			wantOK:   true,
		},
		{
			name:     "recency bonus for deleted files",
			incident: Incident{Type: FilesDeleted},
			points:   []Point{guard, {Type: GuardBackup, Identifier: "recent guard", Confidence: 0.95, Timestamp: recent}},
			want:     "recent guard",
			wantOK:   true,
		},
		{
			name:     "ties keep the first point",
			incident: Incident{Type: FilesDeleted},
			points:   []Point{backup, {Type: BackupDirectory, Identifier: "second", Confidence: 0.3, Timestamp: recent}},
			want:     "backup",
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := BestPoint(tt.incident, tt.points, now)
			assert.Equal(t, tt.wantOK, found)
			assert.Equal(t, tt.want, got.Identifier)
		})
	}
}

func TestCountOverlap(t *testing.T) {
	assert.Equal(t, 0, countOverlap(nil, []string{"a"}))
	assert.Equal(t, 0, countOverlap([]string{"a"}, nil))
	assert.Equal(t, 1, countOverlap([]string{"a", "a", "b"}, []string{"a", "c"}))
	assert.Equal(t, 2, countOverlap([]string{"a", "b"}, []string{"b", "a"}))
}

// resetRepo reports a reset that lost src/a.ts and has one stash holding it.
func resetRepo() map[string]gitResponse {
	return merge(healthyRepo(), map[string]gitResponse{
		"reflog --oneline -10":             ok("d4e5f6 HEAD@{0}: reset: moving to HEAD~1"),
		"diff HEAD@{1} HEAD@{0}":           ok("diff --git a/src/a.ts b/src/a.ts"),
		"stash list":                       ok("stash@{0}: WIP on main: abc work"),
		"log -1 --format=%ci stash@{0}":    ok("2024-05-06 07:00:00 +0000"),
		"stash show --name-only stash@{0}": ok("src/a.ts"),
	})
}

func TestAssistant_AutoRecover(t *testing.T) {
	tests := []struct {
		name      string
		files     map[string]string
		responses map[string]gitResponse
		want      Result
	}{
		{
			name:      "nothing to recover",
			files:     projectFiles,
			responses: healthyRepo(),
			want: Result{
				Attempts: []Attempt{},
				Success:  true,
				Message:  "No data loss incidents detected",
			},
		},
		{
			name:  "no recovery points",
			files: projectFiles,
			responses: merge(healthyRepo(), map[string]gitResponse{
				"fsck --full": fail("error: broken"),
			}),
			want: Result{
				IncidentsDetected: 1,
				Attempts:          []Attempt{},
				Message:           "No recovery points found",
			},
		},
		{
			name:  "stash pop restores lost changes",
			files: projectFiles,
			responses: merge(resetRepo(), map[string]gitResponse{
				"stash pop stash@{0}": ok("restored"),
			}),
			want: Result{
				IncidentsDetected:   1,
				RecoveryPointsFound: 1,
				Attempts: []Attempt{{
					Incident:      "Git reset may have lost uncommitted changes (reflog entry 0)",
					RecoveryPoint: "Git stash: WIP on main: abc work",
					Success:       true,
					Message:       "Recovery successful: Git stash: WIP on main: abc work",
				}},
				Success: true,
				Message: "Automatic recovery completed",
			},
		},
		{
			name:  "failed stash pop",
			files: projectFiles,
			responses: merge(resetRepo(), map[string]gitResponse{
				"stash pop stash@{0}": fail("conflict in src/a.ts"),
			}),
			want: Result{
				IncidentsDetected:   1,
				RecoveryPointsFound: 1,
				Attempts: []Attempt{{
					Incident:      "Git reset may have lost uncommitted changes (reflog entry 0)",
					RecoveryPoint: "Git stash: WIP on main: abc work",
					Success:       false,
					Message:       "Recovery failed: conflict in src/a.ts",
				}},
				Message: "Automatic recovery failed",
			},
		},
		{
			name:  "low confidence points are not used",
			files: projectFiles,
			responses: merge(healthyRepo(), map[string]gitResponse{
				"reflog stash --oneline -10":             ok("aaa stash@{0}: drop"),
				"log --format=%H|%ci|%s --name-only -10": ok("aaaaaaaaaa|2024-05-06 07:00:00 +0000|feat: a"),
			}),
			want: Result{
				IncidentsDetected:   1,
				RecoveryPointsFound: 1,
				Attempts:            []Attempt{},
				Message:             "No recovery point is confident enough for automatic recovery",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			dir := t.TempDir()
			writeFiles(t, dir, tt.files)

			a := newTestAssistant(t, fakeGit(ctrl, dir, tt.responses), dir)
			got := a.AutoRecover(t.Context())
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAssistant_AutoRecover_UsesPointOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir := t.TempDir()
	writeFiles(t, dir, projectFiles)
	responses := merge(resetRepo(), map[string]gitResponse{
		"fsck --full":         fail("error: broken"),
		"stash pop stash@{0}": ok(""),
	})

	a := newTestAssistant(t, fakeGit(ctrl, dir, responses), dir)
	got := a.AutoRecover(t.Context())

	assert.Equal(t, 2, got.IncidentsDetected)
	require.Len(t, got.Attempts, 1)
	assert.True(t, got.Success)
}

func TestAssistant_Attempt(t *testing.T) {
	t.Run("copies a backup directory without its git metadata", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		dir := t.TempDir()
		source := t.TempDir()
		writeFiles(t, source, map[string]string{
			"src/a.ts":  "restored",
			".git/HEAD": "ref: refs/heads/other",
		})

		a := newTestAssistant(t, fakeGit(ctrl, dir, map[string]gitResponse{}), dir)
		success, message := a.Attempt(t.Context(), Point{Description: "Backup directory: x", Source: source}, true, io.Discard)

		assert.True(t, success)
		assert.Equal(t, "Recovery successful: Backup directory: x", message)
		content, err := os.ReadFile(filepath.Join(dir, "src", "a.ts"))
		require.NoError(t, err)
		assert.Equal(t, "restored", string(content))
		assert.NoDirExists(t, filepath.Join(dir, ".git"))
	})

	t.Run("missing backup directory", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		dir := t.TempDir()
		a := newTestAssistant(t, fakeGit(ctrl, dir, map[string]gitResponse{}), dir)
		success, message := a.Attempt(t.Context(), Point{Source: filepath.Join(dir, "missing")}, true, io.Discard)

		assert.False(t, success)
		assert.True(t, strings.HasPrefix(message, "File recovery failed: "))
	})

	t.Run("manual recovery backs up the working directory first", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		root := t.TempDir()
		dir := filepath.Join(root, "project")
		writeFiles(t, dir, map[string]string{
			"src/a.ts":                "current",
			"node_modules/x/index.js": "",
			".git/HEAD":               "ref: refs/heads/main",
			".cache/tmp":              "",
		})

		a := newTestAssistant(t, fakeGit(ctrl, dir, map[string]gitResponse{
			"checkout abc": ok(""),
		}), dir)
		var out bytes.Buffer
		success, message := a.Attempt(t.Context(), Point{Description: "Commit: a", GitArgs: []string{"checkout", "abc"}}, false, &out)

		assert.True(t, success)
		assert.Equal(t, "Recovery successful: Commit: a", message)
		assert.Equal(t, "🛡️ Created pre-recovery backup: ../pre-recovery-backup-20240506-070809\n", out.String())
		backup := filepath.Join(root, "pre-recovery-backup-20240506-070809")
		assert.FileExists(t, filepath.Join(backup, "src", "a.ts"))
		assert.NoDirExists(t, filepath.Join(backup, "node_modules"))
		assert.NoDirExists(t, filepath.Join(backup, ".git"))
		assert.NoDirExists(t, filepath.Join(backup, ".cache"))
	})

	t.Run("unsupported point", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		dir := t.TempDir()
		a := newTestAssistant(t, fakeGit(ctrl, dir, map[string]gitResponse{}), dir)
		success, message := a.Attempt(t.Context(), Point{RecoveryCommand: "rsync x y"}, true, io.Discard)

		assert.False(t, success)
		assert.Equal(t, "Unsupported recovery command: rsync x y", message)
	})
}

func TestAssistant_InteractiveRecover(t *testing.T) {
	tests := []struct {
		name        string
		responses   map[string]gitResponse
		input       string
		wantSuccess bool
		wantMessage string
		wantOutput  []string
	}{
		{
			name:        "no incidents",
			responses:   healthyRepo(),
			input:       "",
			wantSuccess: true,
			wantMessage: "No recovery needed",
			wantOutput:  []string{"✅ No data loss incidents detected."},
		},
		{
			name: "no recovery points",
			responses: merge(healthyRepo(), map[string]gitResponse{
				"fsck --full": fail("error: broken"),
			}),
			wantMessage: "No recovery options available",
			wantOutput: []string{
				"🔍 Detected 1 potential data loss incidents:",
				"  1. 🚨 Git repository corruption detected: error: broken (severity: 0.9)",
				"❌ No recovery points found.",
			},
		},
		{
			name:        "quit",
			responses:   resetRepo(),
			input:       "q\n",
			wantMessage: "User cancelled recovery",
			wantOutput: []string{
				"🛡️ Found 1 potential recovery points:",
				"  1. 🔥 Git stash: WIP on main: abc work",
				"     Confidence: 0.9, Files: 1, Age: 8m ago",
				"Select a recovery point (1-1) or 'q' to quit: ",
			},
		},
		{
			name:        "not a number",
			responses:   resetRepo(),
			input:       "first\n",
			wantMessage: "Invalid input or user cancelled",
		},
		{
			name:        "out of range",
			responses:   resetRepo(),
			input:       "2\n",
			wantMessage: "Invalid selection",
		},
		{
			name:        "declined",
			responses:   resetRepo(),
			input:       "1\nno\n",
			wantMessage: "User cancelled recovery",
			wantOutput: []string{
				"📋 Selected recovery point: Git stash: WIP on main: abc work",
				"Recovery command: git stash pop stash@{0}",
				"Verification: git stash show stash@{0} --stat",
			},
		},
		{
			name: "confirmed",
			responses: merge(resetRepo(), map[string]gitResponse{
				"stash pop stash@{0}": ok(""),
			}),
			input:       "1\nYES\n",
			wantSuccess: true,
			wantMessage: "Recovery successful: Git stash: WIP on main: abc work",
			wantOutput:  []string{"🛡️ Created pre-recovery backup: ../pre-recovery-backup-20240506-070809"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			root := t.TempDir()
			dir := filepath.Join(root, "project")
			writeFiles(t, dir, projectFiles)

			a := newTestAssistant(t, fakeGit(ctrl, dir, tt.responses), dir)
			var out bytes.Buffer
			got := a.InteractiveRecover(t.Context(), strings.NewReader(tt.input), &out)

			assert.Equal(t, tt.wantSuccess, got.Success)
			assert.Equal(t, tt.wantMessage, got.Message)
			for _, line := range tt.wantOutput {
				assert.Contains(t, out.String(), line)
			}
		})
	}
}

func TestAssistant_EmergencyRecover(t *testing.T) {
	corrupted := map[string]gitResponse{
		"rev-parse --git-dir": ok(".git"),
		"fsck --full":         fail("error: broken"),
	}

	tests := []struct {
		name        string
		responses   map[string]gitResponse
		guardBackup bool
		auto        bool
		input       string
		want        bool
		wantOutput  []string
	}{
		{
			name:       "no critical incidents",
			responses:  healthyRepo(),
			want:       true,
			wantOutput: []string{"🚨 EMERGENCY RECOVERY PROTOCOL", "✅ No critical data loss detected."},
		},
		{
			name:      "no confident recovery points",
			responses: corrupted,
			want:      false,
			wantOutput: []string{
				"🚨 1 critical incidents detected:",
				"  • Git repository corruption detected: error: broken",
				"❌ No high-confidence recovery points available.",
				"Manual recovery may be required.",
			},
		},
		{
			name:        "cancelled",
			responses:   corrupted,
			guardBackup: true,
			input:       "no\n",
			want:        false,
			wantOutput: []string{
				"🛡️ 1 high-confidence recovery options:",
				"  1. Destructive Guard backup: src-backup-20240506-060000 (confidence: 0.95)",
				"Emergency recovery cancelled.",
			},
		},
		{
			name:        "automatic",
			responses:   corrupted,
			guardBackup: true,
			auto:        true,
			want:        true,
			wantOutput: []string{
				"Emergency recovery result: Recovery successful: Destructive Guard backup: src-backup-20240506-060000",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			dir := t.TempDir()
			writeFiles(t, dir, projectFiles)
			if tt.guardBackup {
				writeFiles(t, dir, map[string]string{
					".destructive-guard-backups/src-backup-20240506-060000/restored.ts": "x",
				})
			}

			a := newTestAssistant(t, fakeGit(ctrl, dir, tt.responses), dir)
			var out bytes.Buffer
			got := a.EmergencyRecover(t.Context(), strings.NewReader(tt.input), &out, tt.auto)

			assert.Equal(t, tt.want, got)
			for _, line := range tt.wantOutput {
				assert.Contains(t, out.String(), line)
			}
			if tt.auto && tt.guardBackup {
				assert.FileExists(t, filepath.Join(dir, "restored.ts"))
			}
		})
	}
}
