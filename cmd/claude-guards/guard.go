package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/michael-freling/claude-code-guards/internal/command"
	"github.com/michael-freling/claude-code-guards/internal/guard"
	"github.com/michael-freling/claude-code-guards/internal/risk"
	"github.com/michael-freling/claude-code-guards/internal/workspace"
)

type guardOptions struct {
	root     *rootOptions
	json     bool
	noPrompt bool
}

// guardDeps are built once per command from the environment.
type guardDeps struct {
	protocol *guard.Protocol
	backups  *guard.BackupManager
}

func (o *guardOptions) deps() (*guardDeps, error) {
	env, err := o.root.load()
	if err != nil {
		return nil, err
	}
	catalog, err := env.catalog()
	if err != nil {
		return nil, err
	}

	git := command.NewGitRunner(command.NewRunner())
	ws := workspace.NewInspector(git, env.dir, env.cfg.Workspace.IgnoreUntracked)
	return &guardDeps{
		protocol: guard.NewProtocol(catalog.Guard, ws),
		backups: guard.NewBackupManager(git, env.dir, guard.BackupOptions{
			Dir:    env.cfg.Backup.Dir,
			Ignore: env.cfg.Backup.Ignore,
		}),
	}, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func newDestructiveGuardCmd(root *rootOptions) *cobra.Command {
	opts := &guardOptions{root: root}

	cmd := &cobra.Command{
		Use:   "destructive-guard",
		Short: "Analyse destructive commands and back up work before running them",
		Long: `Classifies a shell command as safe, risky, dangerous or critical, reports the
unsaved work it puts at risk and creates the recommended backups.`,
	}
	cmd.PersistentFlags().BoolVar(&opts.json, "json", false, "Output results as JSON")

	cmd.AddCommand(
		newGuardCheckCmd(opts),
		newGuardProtectCmd(opts),
		newGuardCreateBackupCmd(opts),
		newGuardVerifySafetyCmd(opts),
	)
	return cmd
}

func newGuardCheckCmd(opts *guardOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <command>",
		Short: "Report the risk of a command",
		Long: `Prints a safety report. Exits 3 for critical, 1 for dangerous, 2 for risky
and 0 for safe commands.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := opts.deps()
			if err != nil {
				return err
			}

			report := deps.protocol.Check(cmd.Context(), strings.Join(args, " "))
			out := cmd.OutOrStdout()
			if opts.json {
				if err := writeJSON(out, report); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(out, guard.FormatReport(report))
			}
			return exitWith(risk.ExitCode(report.Level))
		},
	}
}

func newGuardProtectCmd(opts *guardOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "protect <command>",
		Short: "Create the recommended backups and confirm a dangerous command",
		Long: `Prints a safety report, creates every recommended backup and, for dangerous
and critical commands, requires the phrase "I understand the risks" on stdin.
Exits 0 when the command may proceed and 1 otherwise.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := opts.deps()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			report := deps.protocol.Check(ctx, strings.Join(args, " "))
			fmt.Fprintln(out, guard.FormatReport(report))

			if len(report.RecommendedBackups) > 0 {
				fmt.Fprintln(out, "\n🛡️ Creating recommended backups...")
				outcomes := deps.backups.CreateAll(ctx, report.RecommendedBackups)
				printOutcomes(out, outcomes)
				if !guard.AllSucceeded(outcomes) {
					fmt.Fprintln(out, "❌ Some backups failed - operation may not be safe")
					if opts.json {
						if err := writeJSON(out, outcomes); err != nil {
							return err
						}
					}
					return exitWith(1)
				}
				fmt.Fprintln(out, "✅ All backups created successfully")
			}

			if report.ApprovalRequired && !opts.noPrompt {
				fmt.Fprintln(out, "\n⚠️  CONFIRMATION REQUIRED")
				fmt.Fprintf(out, "This %s operation could lose data.\n", strings.ToUpper(report.Level.String()))
				fmt.Fprintf(out, "Safety score: %.2f/1.0\n", report.SafetyScore)
				fmt.Fprintf(out, "Type '%s' to proceed: ", guard.ConfirmationPhrase)

				if !guard.Confirm(cmd.InOrStdin()) {
					fmt.Fprintln(out, "\n❌ Operation cancelled for safety")
					return exitWith(1)
				}
				fmt.Fprintln(out, "\n✅ Proceeding with operation (backups created)")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.noPrompt, "no-prompt", false, "Skip the confirmation phrase after backups are created")
	return cmd
}

func printOutcomes(w io.Writer, outcomes []guard.Outcome) {
	for _, o := range outcomes {
		if o.Success {
			fmt.Fprintf(w, "  • Created %s backup at: %s\n", o.Type, o.Location)
		} else {
			fmt.Fprintf(w, "  • %s backup failed: %s\n", o.Type, o.Error)
		}
	}
}

func newGuardCreateBackupCmd(opts *guardOptions) *cobra.Command {
	var backupType, target string

	cmd := &cobra.Command{
		Use:   "create-backup",
		Short: "Create a single backup",
		Long: `Creates one backup of the working directory. Backup types: git_stash,
git_branch, directory_copy, file_copy (requires --target) and full_repository.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := guard.ParseBackupType(backupType)
			if err != nil {
				return err
			}
			deps, err := opts.deps()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			location, err := deps.backups.Create(cmd.Context(), t, target)
			if opts.json {
				outcome := guard.Outcome{Type: t, Success: err == nil, Location: location}
				if err != nil {
					outcome.Error = err.Error()
				}
				if err := writeJSON(out, outcome); err != nil {
					return err
				}
			} else if err != nil {
				fmt.Fprintf(out, "❌ Backup failed: %v\n", err)
			} else {
				fmt.Fprintf(out, "✅ Backup created: %s\n", location)
			}

			if err != nil {
				return exitWith(1)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&backupType, "backup-type", "", "Backup type to create")
	cmd.Flags().StringVar(&target, "target", "", "Directory or file to copy for directory_copy and file_copy")
	_ = cmd.MarkFlagRequired("backup-type")
	return cmd
}

func newGuardVerifySafetyCmd(opts *guardOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify-safety <command>",
		Short: "Check that a command meets the safety threshold",
		Long:  `Prints the safety score of a command. Exits 0 when the score is at least 0.8 and 1 otherwise.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := opts.deps()
			if err != nil {
				return err
			}

			report := deps.protocol.Check(cmd.Context(), strings.Join(args, " "))
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, guard.FormatVerification(report))
			if opts.json {
				if err := writeJSON(out, report); err != nil {
					return err
				}
			}
			if !report.Passes() {
				return exitWith(1)
			}
			return nil
		},
	}
}
