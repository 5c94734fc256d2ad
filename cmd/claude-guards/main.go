package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/michael-freling/claude-code-guards/internal/audit"
	"github.com/michael-freling/claude-code-guards/internal/config"
	"github.com/michael-freling/claude-code-guards/internal/logger"
	"github.com/michael-freling/claude-code-guards/internal/rules"
)

func main() {
	os.Exit(exitCode(newRootCmd().Execute()))
}

// ExitError carries a process exit code out of a command.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// exitWith returns nil for code 0 and an ExitError otherwise.
func exitWith(code int) error {
	if code == 0 {
		return nil
	}
	return &ExitError{Code: code}
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	return 1
}

// rootOptions holds the persistent flags.
type rootOptions struct {
	verbose    bool
	configPath string
	auditLog   string
	dir        string
}

// environment is what every command needs after setup.
type environment struct {
	cfg *config.Config
	dir string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "claude-guards",
		Short: "Guard hooks that protect a workspace from an AI coding assistant",
		Long: `Guard hooks for Claude Code. Each hook reads a JSON event from stdin,
classifies it against tiered rules and exits 0 (allow), 1 (block), 2 (warn)
or 3 (forbidden) with an advisory message on stderr.

The destructive-guard and recovery commands can also be run by hand to check a
command, take backups or restore lost work.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	flags.StringVar(&opts.configPath, "config", "", "Path to config.toml (default $CLAUDE_GUARDS_CONFIG/config.toml or ~/.config/claude-guards/config.toml)")
	flags.StringVar(&opts.auditLog, "audit-log", "", "Record hook decisions to this JSON-lines file")
	flags.StringVar(&opts.dir, "dir", "", "Working directory to inspect (default current directory)")

	rootCmd.AddCommand(
		newReasoningValidatorCmd(opts),
		newWriteValidatorCmd(opts),
		newTodoSyncCmd(opts),
		newPreCompactCmd(opts),
		newSessionRecoveryCmd(opts),
		newDestructiveGuardCmd(opts),
		newRecoveryCmd(opts),
		newFixAnyTypesCmd(opts),
		newInitCmd(),
		newValidateCmd(opts),
	)

	return rootCmd
}

// load reads the configuration and initializes logging.
func (o *rootOptions) load() (*environment, error) {
	path := o.configPath
	if path == "" {
		defaultPath, err := config.DefaultPath()
		if err == nil {
			path = defaultPath
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(logger.Options{Verbose: o.verbose || cfg.Debug || logger.DebugFromEnv()})

	dir := o.dir
	if dir == "" {
		dir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
	}
	dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", o.dir, err)
	}

	return &environment{cfg: cfg, dir: dir}, nil
}

// initAudit opens the audit log when a path is given or auditing is enabled.
func (o *rootOptions) initAudit(cfg *config.Config) {
	if o.auditLog == "" && !cfg.Audit.Enabled {
		return
	}
	path := o.auditLog
	if path == "" {
		path = cfg.Audit.Path
	}
	if err := audit.Init(path, cfg.Audit.MaxSizeBytes); err != nil {
		logger.Debug("failed to initialize audit log", "error", err)
	}
}

// catalog compiles the built-in rules plus the configured extra file.
func (e *environment) catalog() (*rules.Catalog, error) {
	return rules.Load(e.cfg.Rules.ExtraFile)
}

// resolve returns path relative to the working directory unless absolute.
func (e *environment) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(e.dir, path)
}
