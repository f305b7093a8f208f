package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"sortd/internal/rules"
)

func newRulesCommand(ctx *commandContext) *cobra.Command {
	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "Rules document utilities",
	}

	rulesCmd.AddCommand(newRulesInitCommand())
	rulesCmd.AddCommand(newRulesValidateCommand(ctx))

	return rulesCmd
}

func newRulesInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a sample rules document",
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := rules.DefaultPath()
				if err != nil {
					return fmt.Errorf("determine default rules path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := rules.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve rules path: %w", err)
				}
				target = expanded
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("rules document already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check rules path: %w", err)
				}
			}

			if err := rules.CreateSample(target); err != nil {
				return fmt.Errorf("create sample rules: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample rules to %s\n", target)
			fmt.Fprintln(out, "Uncomment and edit the sections you need; unset keys keep their defaults.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the rules document")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite an existing document")
	return cmd
}

func newRulesValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the rules document",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureRules(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Rules path: %s\n", ctx.rulesPath)
			if !ctx.rulesExists {
				fmt.Fprintln(out, "Rules document did not exist; defaults were used")
			}
			fmt.Fprintln(out, "Rules valid")
			return nil
		},
	}
}
