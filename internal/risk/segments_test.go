package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegments(t *testing.T) {
	tests := []struct {
		name string
		cmd  string
		want []string
	}{
		{name: "empty", cmd: "  ", want: nil},
		{name: "single command", cmd: "git status", want: []string{"git status"}},
		{name: "and chain", cmd: "git add . && git commit -m 'wip'", want: []string{"git add .", "git commit -m 'wip'"}},
		{name: "semicolons and pipes", cmd: "ls; cat a | grep b", want: []string{"ls", "cat a", "grep b"}},
		{name: "keeps redirection", cmd: "echo hi > src/a.ts", want: []string{"echo hi >src/a.ts"}},
		{name: "subshell", cmd: "(cd x && rm -rf *)", want: []string{"cd x", "rm -rf *"}},
		{name: "if clause", cmd: "if true; then git reset --hard; fi", want: []string{"true", "git reset --hard"}},
		{name: "unparseable", cmd: "echo 'unterminated", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Segments(tt.cmd))
		})
	}
}
