package hooks

import (
	"encoding/json"
	"fmt"
)

// TodoCounts tallies todos by status. Unknown statuses are not counted.
type TodoCounts struct {
	Pending    int
	InProgress int
	Completed  int
}

// Total returns the number of counted todos.
func (c TodoCounts) Total() int {
	return c.Pending + c.InProgress + c.Completed
}

// todoList matches any payload section carrying a todos array.
type todoList struct {
	Todos []json.RawMessage `json:"todos"`
}

// SyncTodos reminds the agent to sync checkboxes after a TodoWrite call.
// It warns when todos were written and allows everything else.
func SyncTodos(event *Event) (*RuleResult, error) {
	if event.Name() != "TodoWrite" {
		return NewAllowedResult(), nil
	}
	if render(event.Error) != "" {
		return NewAllowedResult(), nil
	}

	todos := findTodos(event)
	if len(todos) == 0 {
		return NewAllowedResult(), nil
	}

	var counts TodoCounts
	for _, raw := range todos {
		var todo map[string]any
		if err := json.Unmarshal(raw, &todo); err != nil {
			continue
		}
		switch todo["status"] {
		case "pending":
			counts.Pending++
		case "in_progress":
			counts.InProgress++
		case "completed":
			counts.Completed++
		}
	}

	total := counts.Total()
	plural := "s"
	if total == 1 {
		plural = ""
	}
	message := fmt.Sprintf("TodoWrite updated %d todo%s: %d completed, %d in-progress, %d pending.\n\n"+
		"Remember to sync to your task checkboxes using the agent-comm MCP if you have an active task.",
		total, plural, counts.Completed, counts.InProgress, counts.Pending)

	return NewWarningResult("todo-sync", message), nil
}

// findTodos looks in result, tool_response and the tool parameters in turn.
func findTodos(event *Event) []json.RawMessage {
	for _, section := range []json.RawMessage{event.Result, event.ToolResponse} {
		if len(section) == 0 {
			continue
		}
		var list todoList
		if err := json.Unmarshal(section, &list); err == nil && len(list.Todos) > 0 {
			return list.Todos
		}
	}

	value, ok := event.GetArg("todos")
	if !ok {
		return nil
	}
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			continue
		}
		out = append(out, data)
	}
	return out
}
