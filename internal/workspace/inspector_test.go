package workspace

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/michael-freling/claude-code-guards/internal/command"
)

var defaultIgnore = []string{
	"**/node_modules/**",
	"**/.cache/**",
	"**/dist/**",
	"**/build/**",
	"**/*.log",
	"**/*.tmp",
}

func expectStatus(m *command.MockGitRunner, staged, unstaged, untracked []string) {
	m.EXPECT().IsRepository(gomock.Any(), "/repo").Return(true)
	m.EXPECT().GetCurrentBranch(gomock.Any(), "/repo").Return("main", nil)
	m.EXPECT().ListStagedFiles(gomock.Any(), "/repo").Return(staged, nil)
	m.EXPECT().ListUnstagedFiles(gomock.Any(), "/repo").Return(unstaged, nil)
	m.EXPECT().ListUntrackedFiles(gomock.Any(), "/repo").Return(untracked, nil)
	m.EXPECT().ListStashes(gomock.Any(), "/repo").Return([]string{"stash@{0}: WIP"}, nil)
	m.EXPECT().GetRecentCommits(gomock.Any(), "/repo", RecentCommitCount).Return([]string{"abc123 init"}, nil)
}

func TestInspector_GitStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGit := command.NewMockGitRunner(ctrl)
	expectStatus(mockGit, []string{"a.go"}, []string{}, []string{"new.ts", "node_modules/x/index.js", "debug.log", "dist/out.js"})

	got := NewInspector(mockGit, "/repo", defaultIgnore).GitStatus(t.Context())

	assert.Equal(t, &GitStatus{
		CurrentBranch:  "main",
		StagedFiles:    []string{"a.go"},
		UnstagedFiles:  []string{},
		UntrackedFiles: []string{"new.ts"},
		RecentCommits:  []string{"abc123 init"},
		Stashes:        []string{"stash@{0}: WIP"},
	}, got)
}

func TestInspector_GitStatus_Failures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGit := command.NewMockGitRunner(ctrl)
	mockGit.EXPECT().IsRepository(gomock.Any(), "/repo").Return(true)
	mockGit.EXPECT().GetCurrentBranch(gomock.Any(), "/repo").Return("", fmt.Errorf("detached"))
	mockGit.EXPECT().ListStagedFiles(gomock.Any(), "/repo").Return(nil, fmt.Errorf("boom"))
	mockGit.EXPECT().ListUnstagedFiles(gomock.Any(), "/repo").Return(nil, fmt.Errorf("boom"))
	mockGit.EXPECT().ListUntrackedFiles(gomock.Any(), "/repo").Return(nil, fmt.Errorf("boom"))
	mockGit.EXPECT().ListStashes(gomock.Any(), "/repo").Return(nil, fmt.Errorf("boom"))
	mockGit.EXPECT().GetRecentCommits(gomock.Any(), "/repo", RecentCommitCount).Return(nil, fmt.Errorf("no commits"))

	got := NewInspector(mockGit, "/repo", nil).GitStatus(t.Context())

	assert.Equal(t, "unknown", got.CurrentBranch)
	assert.Empty(t, got.StagedFiles)
	assert.Empty(t, got.RecentCommits)
}

func TestInspector_UnsavedWork(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(*command.MockGitRunner)
		want      UnsavedWork
	}{
		{
			name: "not a repository",
			setupMock: func(m *command.MockGitRunner) {
				m.EXPECT().IsRepository(gomock.Any(), "/repo").Return(false)
			},
			want: UnsavedWork{Warnings: []string{NotRepositoryWarning}},
		},
		{
			name: "clean repository",
			setupMock: func(m *command.MockGitRunner) {
				expectStatus(m, []string{}, []string{}, []string{"build/app.js"})
			},
			want: UnsavedWork{Warnings: []string{}},
		},
		{
			name: "all kinds of unsaved work",
			setupMock: func(m *command.MockGitRunner) {
				expectStatus(m, []string{"a.go", "b.go"}, []string{"c.go"}, []string{"notes.md"})
			},
			want: UnsavedWork{
				HasUnsavedWork: true,
				Warnings: []string{
					"Staged changes in 2 files",
					"Unstaged changes in 1 files",
					"Untracked important files: 1 files",
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockGit := command.NewMockGitRunner(ctrl)
			tt.setupMock(mockGit)

			got := NewInspector(mockGit, "/repo", defaultIgnore).UnsavedWork(t.Context())
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchAny(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "node_modules/react/index.js", want: true},
		{path: "packages/app/node_modules/x.js", want: true},
		{path: "logs/app.log", want: true},
		{path: `C:\work\dist\bundle.js`, want: true},
		{path: "/abs/build/out.o", want: true},
		{path: "src/rebuild.ts", want: false},
		{path: "README.md", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchAny(defaultIgnore, tt.path))
		})
	}
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "a/b/c.ts", NormalizePath(`\a\b\c.ts`))
	assert.Equal(t, "tmp/x.ts", NormalizePath("/tmp/x.ts"))
	assert.Equal(t, "x.ts", NormalizePath("x.ts"))
}
