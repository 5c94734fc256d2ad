// Package snapshot captures session state before context compaction and
// summarises it when a session resumes.
package snapshot

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/michael-freling/claude-code-guards/internal/command"
	"github.com/michael-freling/claude-code-guards/internal/logger"
)

// EventType is recorded in every capture.
const EventType = "pre-compact"

// RecentCommitCount is the number of commits captured.
const RecentCommitCount = 5

// todoFiles are checked in order; the first readable one is captured.
var todoFiles = []string{".claude/todo.json", "TODO.md", ".todo"}

// taskStatusFiles mark the status of an agent-comm task, in precedence order.
var taskStatusFiles = []string{"INIT.md", "PLAN.md", "DONE.md", "ERROR.md"}

// State is everything captured before a compaction.
type State struct {
	ID               string           `json:"id"`
	Timestamp        string           `json:"timestamp"`
	EventType        string           `json:"event_type"`
	HookData         json.RawMessage  `json:"hook_data"`
	WorkingDirectory WorkingDirectory `json:"working_directory"`
	Git              *GitContext      `json:"git_context,omitempty"`
	Project          *ProjectContext  `json:"project_context,omitempty"`
	Todo             json.RawMessage  `json:"todo_context,omitempty"`
	Environment      Environment      `json:"environment"`
	AgentComm        *AgentComm       `json:"agent_comm,omitempty"`
}

// WorkingDirectory describes the captured directory.
type WorkingDirectory struct {
	Path      string `json:"path"`
	Name      string `json:"name"`
	IsGitRepo bool   `json:"is_git_repo"`
}

// GitContext is the repository state at capture time.
type GitContext struct {
	CurrentBranch string   `json:"current_branch"`
	RecentCommits []string `json:"recent_commits,omitempty"`
	Status        string   `json:"status"`
}

// ProjectContext is read from package.json.
type ProjectContext struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

// Environment holds selected environment variables.
type Environment struct {
	User        string `json:"user"`
	Pwd         string `json:"pwd"`
	Shell       string `json:"shell"`
	NodeVersion string `json:"node_version"`
	NpmVersion  string `json:"npm_version"`
}

// AgentComm lists the agents and tasks under comm/.
type AgentComm struct {
	CommDirExists bool    `json:"comm_dir_exists"`
	Agents        []Agent `json:"agents"`
}

// Agent is one directory under comm/.
type Agent struct {
	Name  string `json:"name"`
	Tasks []Task `json:"tasks"`
}

// Task is one task directory of an agent.
type Task struct {
	ID     string `json:"id"`
	Status string `json:"status,omitempty"`
}

// TimeProvider provides the current time.
type TimeProvider func() time.Time

// Capturer collects the State of a working directory.
type Capturer struct {
	git          command.GitRunner
	dir          string
	timeProvider TimeProvider
}

// NewCapturer creates a capturer for dir.
func NewCapturer(git command.GitRunner, dir string) *Capturer {
	return &Capturer{
		git:          git,
		dir:          dir,
		timeProvider: time.Now,
	}
}

// SetTimeProvider sets a custom time provider for testing
func (c *Capturer) SetTimeProvider(tp TimeProvider) {
	c.timeProvider = tp
}

// Capture collects the state. Sections that cannot be read are left out.
func (c *Capturer) Capture(ctx context.Context, hookData json.RawMessage) *State {
	if len(hookData) == 0 {
		hookData = json.RawMessage("{}")
	}

	state := &State{
		ID:          uuid.NewString(),
		Timestamp:   c.timeProvider().Format(time.RFC3339),
		EventType:   EventType,
		HookData:    hookData,
		Environment: captureEnvironment(),
	}

	state.WorkingDirectory = WorkingDirectory{
		Path:      c.dir,
		Name:      filepath.Base(c.dir),
		IsGitRepo: exists(filepath.Join(c.dir, ".git")),
	}
	state.Git = c.captureGit(ctx)
	state.Project = c.captureProject()
	state.Todo = c.captureTodo()
	state.AgentComm = c.captureAgentComm()

	return state
}

func (c *Capturer) captureGit(ctx context.Context) *GitContext {
	if !c.git.IsRepository(ctx, c.dir) {
		return nil
	}
	branch, err := c.git.GetCurrentBranch(ctx, c.dir)
	if err != nil {
		logger.Debug("git context capture failed", "error", err)
		return nil
	}

	git := &GitContext{CurrentBranch: branch}
	if commits, err := c.git.GetRecentCommits(ctx, c.dir, RecentCommitCount); err == nil {
		git.RecentCommits = commits
	} else {
		logger.Debug("failed to read recent commits", "error", err)
	}
	if status, err := c.git.GetStatusPorcelain(ctx, c.dir); err == nil {
		git.Status = status
	} else {
		logger.Debug("failed to read git status", "error", err)
	}
	return git
}

func (c *Capturer) captureProject() *ProjectContext {
	data, err := os.ReadFile(filepath.Join(c.dir, "package.json"))
	if err != nil {
		return nil
	}
	var project ProjectContext
	if err := json.Unmarshal(data, &project); err != nil {
		logger.Debug("project context capture failed", "error", err)
		return nil
	}
	return &project
}

func (c *Capturer) captureTodo() json.RawMessage {
	for _, name := range todoFiles {
		data, err := os.ReadFile(filepath.Join(c.dir, name))
		if err != nil {
			continue
		}
		if strings.HasSuffix(name, ".json") {
			if !json.Valid(data) {
				logger.Debug("todo capture failed", "file", name, "error", "invalid JSON")
				continue
			}
			return data
		}
		wrapped, err := json.Marshal(map[string]string{"content": string(data)})
		if err != nil {
			continue
		}
		return wrapped
	}
	return nil
}

func (c *Capturer) captureAgentComm() *AgentComm {
	commDir := filepath.Join(c.dir, "comm")
	agentDirs, err := os.ReadDir(commDir)
	if err != nil {
		return nil
	}

	comm := &AgentComm{CommDirExists: true, Agents: []Agent{}}
	for _, agentDir := range agentDirs {
		if !agentDir.IsDir() || strings.HasPrefix(agentDir.Name(), ".") {
			continue
		}
		agent := Agent{Name: agentDir.Name(), Tasks: []Task{}}

		taskDirs, err := os.ReadDir(filepath.Join(commDir, agentDir.Name()))
		if err != nil {
			logger.Debug("agent comm context capture failed", "agent", agentDir.Name(), "error", err)
			continue
		}
		for _, taskDir := range taskDirs {
			if !taskDir.IsDir() {
				continue
			}
			task := Task{ID: taskDir.Name()}
			for _, status := range taskStatusFiles {
				if exists(filepath.Join(commDir, agentDir.Name(), taskDir.Name(), status)) {
					task.Status = strings.TrimSuffix(status, ".md")
					break
				}
			}
			agent.Tasks = append(agent.Tasks, task)
		}
		comm.Agents = append(comm.Agents, agent)
	}
	return comm
}

func captureEnvironment() Environment {
	user := os.Getenv("USER")
	if user == "" {
		user = "unknown"
	}
	return Environment{
		User:        user,
		Pwd:         os.Getenv("PWD"),
		Shell:       os.Getenv("SHELL"),
		NodeVersion: os.Getenv("NODE_VERSION"),
		NpmVersion:  os.Getenv("NPM_VERSION"),
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
