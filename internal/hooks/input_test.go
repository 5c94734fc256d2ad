package hooks

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvent(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantName string
		wantErr  error
		errMsg   string
	}{
		{
			name:     "flat shape with tool_input",
			input:    `{"tool_name": "Bash", "tool_input": {"command": "ls -la"}}`,
			wantName: "Bash",
		},
		{
			name:     "nested tool shape",
			input:    `{"tool": {"name": "Write", "parameters": {"file_path": "a.ts", "content": "x"}}}`,
			wantName: "Write",
		},
		{
			name:     "nested name wins over flat name",
			input:    `{"tool": {"name": "Write"}, "tool_name": "Bash"}`,
			wantName: "Write",
		},
		{
			name:     "no tool at all",
			input:    `{"command": "git status"}`,
			wantName: "",
		},
		{
			name:     "null tool_input",
			input:    `{"tool_name": "Test", "tool_input": null}`,
			wantName: "Test",
		},
		{
			name:    "empty input",
			input:   "  \n ",
			wantErr: ErrEmptyInput,
		},
		{
			name:   "invalid JSON",
			input:  `{invalid json}`,
			errMsg: "failed to decode JSON",
		},
		{
			name:   "payload is not an object",
			input:  `["git reset --hard"]`,
			errMsg: "failed to decode JSON",
		},
		{
			name:     "tool_input is not an object",
			input:    `{"tool_name": "Test", "tool_input": "not an object"}`,
			wantName: "Test",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEvent(strings.NewReader(tt.input))

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantName, got.Name())
		})
	}
}

func TestEvent_Text(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "parameters in order then name and description",
			input: `{"tool": {"name": "Bash", "description": "Run it", "parameters": {"command": "git reset --hard", "timeout": 0, "run_in_background": false, "description": "reset"}}}`,
			want:  "git reset --hard reset Bash Run it",
		},
		{
			name:  "flat shape",
			input: `{"tool_name": "Bash", "tool_input": {"command": "rm -rf *"}}`,
			want:  "rm -rf * Bash ",
		},
		{
			name:  "top level command message and content",
			input: `{"command": "git stash drop", "message": "cleanup", "content": "done"}`,
			want:  " git stash drop cleanup done",
		},
		{
			name:  "non-string values are rendered as JSON",
			input: `{"tool_name": "Edit", "tool_input": {"edits": [{"old": "a"}], "count": 2}}`,
			want:  `[{"old":"a"}] 2 Edit `,
		},
		{
			name:  "null command is still included",
			input: `{"command": null}`,
			want:  " null",
		},
		{
			name:  "nothing to inspect",
			input: `{"session_id": "abc"}`,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := ParseEventBytes([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, event.Text())
		})
	}
}

func TestParseEventBytes_UnexpectedFieldTypes(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantName      string
		wantSessionID string
		wantText      string
	}{
		{
			name:     "tool is a string",
			input:    `{"tool": "Bash", "command": "git reset --hard HEAD"}`,
			wantName: "",
			wantText: " git reset --hard HEAD",
		},
		{
			name:     "tool_input is a string",
			input:    `{"tool_name": "Bash", "tool_input": "rm -rf /", "command": "rm -rf src"}`,
			wantName: "Bash",
			wantText: " Bash  rm -rf src",
		},
		{
			name:     "tool parameters are a list",
			input:    `{"tool": {"name": "Bash", "parameters": ["x"]}, "message": "git clean -fd"}`,
			wantName: "Bash",
			wantText: " Bash  git clean -fd",
		},
		{
			name:     "tool parameters are not an object so tool_input is used",
			input:    `{"tool": {"name": "Bash", "parameters": "x"}, "tool_input": {"command": "git stash drop"}}`,
			wantName: "Bash",
			wantText: "git stash drop Bash ",
		},
		{
			name:     "tool name is a number",
			input:    `{"tool": {"name": 7, "description": "Run"}, "command": "truncate -s 0 a.ts"}`,
			wantName: "",
			wantText: "  Run truncate -s 0 a.ts",
		},
		{
			name:          "session_id is a number",
			input:         `{"session_id": 7, "tool_name": "Bash", "tool_input": {"command": "git reset --hard"}}`,
			wantName:      "Bash",
			wantSessionID: "",
			wantText:      "git reset --hard Bash ",
		},
		{
			name:          "cwd and hook_event_name are objects",
			input:         `{"cwd": {}, "hook_event_name": [], "session_id": "s1", "content": "x"}`,
			wantSessionID: "s1",
			wantText:      " x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := ParseEventBytes([]byte(tt.input))
			require.NoError(t, err)

			assert.Equal(t, tt.wantName, event.Name())
			assert.Equal(t, tt.wantSessionID, event.SessionID)
			assert.Equal(t, tt.wantText, event.Text())
		})
	}
}

func TestEvent_Fields(t *testing.T) {
	event, err := ParseEventBytes([]byte(`{"tool_name": "Bash", "session_id": "s1", "cwd": "/repo", "hook_event_name": "PreToolUse", "tool_input": {"command": "ls"}}`))
	require.NoError(t, err)

	assert.Equal(t, "s1", event.SessionID)
	assert.Equal(t, "/repo", event.Cwd)
	assert.Equal(t, "PreToolUse", event.HookEventName)

	value, ok := event.GetArg("command")
	assert.True(t, ok)
	assert.Equal(t, "ls", value)
}

