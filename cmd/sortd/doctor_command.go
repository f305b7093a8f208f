package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sortd/internal/preflight"
)

type checkResult struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

type doctorPayload struct {
	Checks []checkResult `json:"checks"`
	Failed int           `json:"failed"`
}

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var (
		source       string
		dest         string
		manifestPath string
		dbPath       string
		jsonOut      bool
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that a run's paths, rules, and ledger are usable",
		RunE: func(cmd *cobra.Command, args []string) error {
			var rulesPath string
			if ctx.rulesFlag != nil {
				rulesPath = strings.TrimSpace(*ctx.rulesFlag)
			}
			historyPath := strings.TrimSpace(dbPath)
			if historyPath == "" {
				historyPath = defaultHistoryPath()
			}

			results := preflight.RunAll(preflight.Paths{
				Source:   source,
				Dest:     dest,
				Rules:    rulesPath,
				Manifest: manifestPath,
				History:  historyPath,
			})

			failed := 0
			for _, r := range results {
				if !r.Passed {
					failed++
				}
			}

			if jsonOut {
				payload := doctorPayload{Checks: make([]checkResult, 0, len(results)), Failed: failed}
				for _, r := range results {
					payload.Checks = append(payload.Checks, checkResult{Name: r.Name, Passed: r.Passed, Detail: r.Detail})
				}
				if err := writeJSON(cmd, payload); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, line := range renderSectionHeader("Preflight", colorize) {
					fmt.Fprintln(out, line)
				}
				for _, r := range results {
					kind := statusError
					if r.Passed {
						kind = statusOK
					}
					fmt.Fprintln(out, renderStatusLine(r.Name, kind, r.Detail, colorize))
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d preflight checks failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "Source directory to check")
	cmd.Flags().StringVarP(&dest, "dest", "d", "", "Destination directory to check")
	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", defaultManifestName, "Undo manifest path to check")
	cmd.Flags().StringVar(&dbPath, "db", "", "History database path (defaults to the user ledger)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit check results as JSON")

	return cmd
}
