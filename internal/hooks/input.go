package hooks

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrEmptyInput is returned when the hook receives no payload.
var ErrEmptyInput = errors.New("empty hook input")

// Tool is the nested tool description of a hook payload.
type Tool struct {
	Name        string
	Description string
	Parameters  json.RawMessage
}

// Event is the JSON payload a hook receives on stdin. Both the nested
// {"tool": {...}} shape and the flat {"tool_name", "tool_input"} shape are
// accepted.
type Event struct {
	Tool          *Tool
	ToolName      string
	ToolInput     json.RawMessage
	ToolResponse  json.RawMessage
	Result        json.RawMessage
	Error         any
	SessionID     string
	Cwd           string
	HookEventName string

	raw    map[string]any
	params []param
}

type param struct {
	key   string
	value any
}

// ParseEvent reads and parses a hook payload.
func ParseEvent(reader io.Reader) (*Event, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return ParseEventBytes(data)
}

// ParseEventBytes parses a hook payload. The payload must be a JSON object.
// Fields of an unexpected type are ignored so the rest of the payload is
// still inspected.
func ParseEventBytes(data []byte) (*Event, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}
	event := Event{raw: make(map[string]any, len(fields))}
	for key, value := range fields {
		var v any
		if err := json.Unmarshal(value, &v); err == nil {
			event.raw[key] = v
		}
	}

	event.ToolName = stringField(fields["tool_name"])
	event.SessionID = stringField(fields["session_id"])
	event.Cwd = stringField(fields["cwd"])
	event.HookEventName = stringField(fields["hook_event_name"])
	event.ToolInput = fields["tool_input"]
	event.ToolResponse = fields["tool_response"]
	event.Result = fields["result"]
	event.Error = event.raw["error"]

	if isObject(fields["tool"]) {
		var tool map[string]json.RawMessage
		if err := json.Unmarshal(fields["tool"], &tool); err == nil {
			event.Tool = &Tool{
				Name:        stringField(tool["name"]),
				Description: stringField(tool["description"]),
				Parameters:  tool["parameters"],
			}
		}
	}

	params := event.ToolInput
	if event.Tool != nil && isObject(event.Tool.Parameters) {
		params = event.Tool.Parameters
	}
	if isObject(params) {
		parsed, err := orderedObject(params)
		if err == nil {
			event.params = parsed
		}
	}

	return &event, nil
}

// stringField returns a JSON string value, or "" for any other type.
func stringField(data json.RawMessage) string {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ""
	}
	return s
}

func isObject(data json.RawMessage) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 0 && data[0] == '{'
}

// orderedObject decodes a JSON object keeping key order.
func orderedObject(data []byte) ([]param, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected an object")
	}

	var out []param
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected an object key")
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		out = append(out, param{key: key, value: value})
	}
	return out, nil
}

// Name returns the tool name of either payload shape.
func (e *Event) Name() string {
	if e.Tool != nil && e.Tool.Name != "" {
		return e.Tool.Name
	}
	return e.ToolName
}

// GetArg retrieves a tool parameter of any type.
func (e *Event) GetArg(name string) (any, bool) {
	return e.arg(name)
}

func (e *Event) arg(name string) (any, bool) {
	for _, p := range e.params {
		if p.key == name {
			return p.value, true
		}
	}
	return nil, false
}

// Text joins everything a validator should inspect: non-empty parameter
// values, the tool name and description, then command, message and content.
func (e *Event) Text() string {
	var b strings.Builder

	if e.Tool != nil || e.ToolName != "" {
		values := make([]string, 0, len(e.params))
		for _, p := range e.params {
			if s := render(p.value); s != "" {
				values = append(values, s)
			}
		}
		b.WriteString(strings.Join(values, " "))

		description := ""
		if e.Tool != nil {
			description = e.Tool.Description
		}
		fmt.Fprintf(&b, " %s %s", e.Name(), description)
	}

	for _, key := range []string{"command", "message", "content"} {
		if value, ok := e.raw[key]; ok {
			fmt.Fprintf(&b, " %s", renderAlways(value))
		}
	}

	return b.String()
}

// render formats a parameter value; empty values render as "".
func render(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if !v {
			return ""
		}
		return "true"
	case float64:
		if v == 0 {
			return ""
		}
	case json.Number:
		if f, err := v.Float64(); err == nil && f == 0 {
			return ""
		}
		return v.String()
	case []any:
		if len(v) == 0 {
			return ""
		}
	case map[string]any:
		if len(v) == 0 {
			return ""
		}
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprint(value)
	}
	return string(data)
}

func renderAlways(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	}
}
