package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/michael-freling/claude-code-guards/internal/command"
	"github.com/michael-freling/claude-code-guards/internal/logger"
	"github.com/michael-freling/claude-code-guards/internal/recovery"
)

type recoveryOptions struct {
	root *rootOptions
	json bool
	auto bool
}

func (o *recoveryOptions) assistant() (*recovery.Assistant, error) {
	env, err := o.root.load()
	if err != nil {
		return nil, err
	}

	r := env.cfg.Recovery
	opts := recovery.Options{
		Timeout:           r.GitTimeout(),
		GuardBackupDir:    env.resolve(env.cfg.Backup.Dir),
		PreRecoveryIgnore: r.PreRecoveryIgnore,
	}
	if r.SearchHomeBackups {
		home, err := os.UserHomeDir()
		if err != nil {
			logger.Debug("failed to get home directory", "error", err)
		} else {
			opts.HomeDir = home
		}
	}
	return recovery.NewAssistant(command.NewRunner(), env.dir, opts), nil
}

func newRecoveryCmd(root *rootOptions) *cobra.Command {
	opts := &recoveryOptions{root: root}

	cmd := &cobra.Command{
		Use:   "recovery",
		Short: "Detect data loss and restore from git history or backups",
		Long: `Detects data loss incidents such as lost resets, missing configuration files,
deleted branches, dropped stashes and repository corruption, lists the recovery
points available and restores from them.`,
	}
	cmd.PersistentFlags().BoolVar(&opts.json, "json", false, "Output results as JSON")

	cmd.AddCommand(
		newRecoveryDetectCmd(opts),
		newRecoveryListCmd(opts),
		newRecoveryRecoverCmd(opts),
		newRecoveryEmergencyCmd(opts),
	)
	return cmd
}

func newRecoveryDetectCmd(opts *recoveryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Detect data loss incidents",
		Long:  `Lists detected data loss incidents. Exits 1 when any incident is found.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.assistant()
			if err != nil {
				return err
			}

			incidents := a.Detect(cmd.Context())
			out := cmd.OutOrStdout()
			if opts.json {
				if incidents == nil {
					incidents = []recovery.Incident{}
				}
				if err := writeJSON(out, map[string]any{"incidents": incidents}); err != nil {
					return err
				}
			} else {
				fmt.Fprint(out, recovery.FormatIncidents(incidents))
			}

			if len(incidents) > 0 {
				return exitWith(1)
			}
			return nil
		},
	}
}

func newRecoveryListCmd(opts *recoveryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list-recovery-points",
		Short: "List available recovery points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.assistant()
			if err != nil {
				return err
			}

			points := a.RecoveryPoints(cmd.Context())
			out := cmd.OutOrStdout()
			if opts.json {
				if points == nil {
					points = []recovery.Point{}
				}
				return writeJSON(out, map[string]any{"recovery_points": points})
			}
			fmt.Fprint(out, recovery.FormatPoints(points, time.Now()))
			return nil
		},
	}
}

func newRecoveryRecoverCmd(opts *recoveryOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recover",
		Short: "Recover from detected data loss",
		Long: `Without --auto, lists incidents and recovery points and restores the point
chosen on stdin after taking a pre-recovery backup. With --auto, restores every
incident whose best recovery point has high confidence. Exits 0 on success.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.assistant()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var result recovery.Result
			if opts.auto {
				result = a.AutoRecover(cmd.Context())
			} else {
				result = a.InteractiveRecover(cmd.Context(), cmd.InOrStdin(), out)
			}

			if opts.json {
				if err := writeJSON(out, result); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(out, "Recovery result: %s\n", result.Message)
			}

			if !result.Success {
				return exitWith(1)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.auto, "auto", false, "Recover without user interaction")
	return cmd
}

func newRecoveryEmergencyCmd(opts *recoveryOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emergency",
		Short: "Run the emergency recovery protocol",
		Long: `Restores the most confident recovery point when a critical incident is
detected. Without --auto, asks for confirmation on stdin. Exits 0 on success or
when nothing critical was found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.assistant()
			if err != nil {
				return err
			}
			if !a.EmergencyRecover(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), opts.auto) {
				return exitWith(1)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.auto, "auto", false, "Recover without confirmation")
	return cmd
}
