package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/michael-freling/claude-code-guards/internal/risk"
)

func newValidateCmd(root *rootOptions) *cobra.Command {
	var showPatterns bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration and rule catalog",
		Long: `Loads the configuration and compiles the built-in rules plus the configured
extra rules file, then prints the number of rules per section.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := root.load()
			if err != nil {
				return err
			}
			catalog, err := env.catalog()
			if err != nil {
				return fmt.Errorf("failed to load rules: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Configuration valid!")
			fmt.Fprintf(out, "Rules: %d\n\n", catalog.Size())

			sections := []struct {
				name  string
				rules []risk.Rule
			}{
				{"guard.critical", catalog.Guard.Critical},
				{"guard.dangerous", catalog.Guard.Dangerous},
				{"guard.risky", catalog.Guard.Risky},
				{"reasoning.critical", catalog.Reasoning.Critical},
				{"reasoning.dangerous", catalog.Reasoning.Dangerous},
				{"reasoning.risky", catalog.Reasoning.Risky},
				{"bypass", catalog.Bypass},
				{"reasoning_signals", catalog.ReasoningSignals},
				{"content", catalog.Content},
			}
			for _, s := range sections {
				printSection(out, s.name, s.rules, showPatterns)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showPatterns, "patterns", false, "Show every compiled pattern")
	return cmd
}

func printSection(w io.Writer, name string, rules []risk.Rule, showPatterns bool) {
	fmt.Fprintf(w, "%s: %d\n", name, len(rules))
	if !showPatterns {
		return
	}
	for _, r := range rules {
		fmt.Fprintf(w, "  - %s: %s\n", r.Description, r.Pattern.String())
	}
}
