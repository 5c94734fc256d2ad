package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/michael-freling/claude-code-guards/internal/config"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Long: `Writes the default config.toml to ~/.config/claude-guards (or the directory
named by CLAUDE_GUARDS_CONFIG). Use --force to overwrite an existing file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.Dir()
			if err != nil {
				return fmt.Errorf("failed to get config directory: %w", err)
			}

			out := cmd.OutOrStdout()
			if force {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return fmt.Errorf("failed to create config directory: %w", err)
				}
				path := filepath.Join(dir, config.FileName)
				if err := os.WriteFile(path, config.DefaultBytes(), 0644); err != nil {
					return fmt.Errorf("failed to write config file: %w", err)
				}
				fmt.Fprintf(out, "Configuration written to: %s\n", path)
				return nil
			}

			path, created, err := config.EnsureConfigFile(dir)
			if err != nil {
				return err
			}
			if !created {
				return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
			}
			fmt.Fprintf(out, "Configuration written to: %s\n", path)
			fmt.Fprintln(out, "Run 'claude-guards validate' to verify your configuration.")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config file")
	return cmd
}
