package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/michael-freling/claude-code-guards/internal/anyfix"
)

func newFixAnyTypesCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fix-any-types",
		Short: "Replace any casts in unit tests with concrete types",
		Long: `Rewrites common "as any" casts in tests/unit/**/*.test.ts and tests/setup.ts
under the working directory and lists the files that changed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := root.load()
			if err != nil {
				return err
			}

			fixed, err := anyfix.Run(env.dir)
			if errors.Is(err, anyfix.ErrTestDirMissing) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s does not exist\n", anyfix.TestDir)
				return exitWith(1)
			}
			if err != nil {
				return fmt.Errorf("failed to fix any types: %w", err)
			}

			fmt.Fprint(cmd.OutOrStdout(), anyfix.Format(fixed))
			return nil
		},
	}
}
