// Package audit records hook decisions as JSON lines.
package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/michael-freling/claude-code-guards/internal/logger"
)

// TimestampFormat is the format used for audit log timestamps.
const TimestampFormat = "2006-01-02T15:04:05.0Z07:00"

// DefaultMaxSize is the size above which the log is rotated on Init.
const DefaultMaxSize int64 = 5 * 1024 * 1024

const (
	dirMode  os.FileMode = 0755
	fileMode os.FileMode = 0644
)

// Entry is a single audit log line.
type Entry struct {
	Version    int      `json:"version"`
	Timestamp  string   `json:"timestamp"`
	Hook       string   `json:"hook"`
	SessionID  string   `json:"session_id,omitempty"`
	Cwd        string   `json:"cwd,omitempty"`
	ToolName   string   `json:"tool_name,omitempty"`
	Level      string   `json:"level,omitempty"`
	ExitCode   int      `json:"exit_code"`
	Violations []string `json:"violations,omitempty"`
	DurationMs float64  `json:"duration_ms"`
	Error      string   `json:"error,omitempty"`
}

var (
	auditFile *os.File
	mu        sync.Mutex
	enabled   bool
)

// DefaultLogPath returns ~/.local/share/claude-guards/audit.log.
func DefaultLogPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "claude-guards", "audit.log"), nil
}

// Init opens the audit log for appending. An empty path selects the default
// path. A log larger than maxSize is compressed to <path>.1.gz first.
func Init(path string, maxSize int64) error {
	mu.Lock()
	defer mu.Unlock()

	if path == "" {
		var err error
		path, err = DefaultLogPath()
		if err != nil {
			return err
		}
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return fmt.Errorf("failed to create audit log directory: %w", err)
	}

	if err := rotate(path, maxSize); err != nil {
		logger.Debug("failed to rotate audit log", "error", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, fileMode)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}

	auditFile = f
	enabled = true
	logger.Debug("audit logging initialized", "path", path)
	return nil
}

func rotate(path string, maxSize int64) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.Size() <= maxSize {
		return nil
	}

	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(path+".1.gz", os.O_CREATE|os.O_TRUNC|os.O_WRONLY, fileMode)
	if err != nil {
		return err
	}
	defer dst.Close()

	zw := gzip.NewWriter(dst)
	zw.Name = filepath.Base(path)
	if _, err := io.Copy(zw, src); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}

	return os.Truncate(path, 0)
}

// Close closes the audit log file.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if auditFile == nil {
		return nil
	}
	err := auditFile.Close()
	auditFile = nil
	enabled = false
	return err
}

// Log writes an entry. It is a no-op while logging is disabled.
func Log(entry Entry) error {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || auditFile == nil {
		return nil
	}

	entry.Version = 1
	entry.Timestamp = time.Now().UTC().Format(TimestampFormat)

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}
	if _, err := auditFile.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

// IsEnabled returns whether audit logging is enabled.
func IsEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Reset resets the audit state. Only for tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	if auditFile != nil {
		auditFile.Close()
	}
	auditFile = nil
	enabled = false
}
