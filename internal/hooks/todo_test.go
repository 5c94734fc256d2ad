package hooks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncTodos(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantDecision Decision
		wantMessage  string
	}{
		{
			name: "todos in result",
			input: `{"tool": {"name": "TodoWrite"}, "result": {"todos": [
				{"content": "a", "status": "completed"},
				{"content": "b", "status": "in_progress"},
				{"content": "c", "status": "pending"},
				{"content": "d", "status": "pending"}
			]}}`,
			wantDecision: Warn,
			wantMessage: "TodoWrite updated 4 todos: 1 completed, 1 in-progress, 2 pending.\n\n" +
				"Remember to sync to your task checkboxes using the agent-comm MCP if you have an active task.",
		},
		{
			name:         "single todo from tool_response",
			input:        `{"tool_name": "TodoWrite", "tool_response": {"todos": [{"status": "completed"}]}}`,
			wantDecision: Warn,
			wantMessage: "TodoWrite updated 1 todo: 1 completed, 0 in-progress, 0 pending.\n\n" +
				"Remember to sync to your task checkboxes using the agent-comm MCP if you have an active task.",
		},
		{
			name:         "todos from tool input",
			input:        `{"tool_name": "TodoWrite", "tool_input": {"todos": [{"status": "pending"}, {"status": "blocked"}]}}`,
			wantDecision: Warn,
			wantMessage: "TodoWrite updated 1 todo: 0 completed, 0 in-progress, 1 pending.\n\n" +
				"Remember to sync to your task checkboxes using the agent-comm MCP if you have an active task.",
		},
		{
			name:         "other tool",
			input:        `{"tool_name": "Write", "result": {"todos": [{"status": "pending"}]}}`,
			wantDecision: Allow,
		},
		{
			name:         "tool error",
			input:        `{"tool_name": "TodoWrite", "error": "failed", "result": {"todos": [{"status": "pending"}]}}`,
			wantDecision: Allow,
		},
		{
			name:         "falsy error is ignored",
			input:        `{"tool_name": "TodoWrite", "error": false, "result": {"todos": [{"status": "pending"}]}}`,
			wantDecision: Warn,
			wantMessage: "TodoWrite updated 1 todo: 0 completed, 0 in-progress, 1 pending.\n\n" +
				"Remember to sync to your task checkboxes using the agent-comm MCP if you have an active task.",
		},
		{
			name:         "no todos",
			input:        `{"tool_name": "TodoWrite", "result": {"todos": []}}`,
			wantDecision: Allow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := ParseEventBytes([]byte(tt.input))
			require.NoError(t, err)

			got, err := SyncTodos(event)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDecision, got.Decision)
			assert.Equal(t, tt.wantMessage, got.Message)
		})
	}
}
