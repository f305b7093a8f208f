package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"sortd/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var dbPath string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent organize and undo runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := strings.TrimSpace(dbPath)
			if path == "" {
				path = defaultHistoryPath()
			}
			store, err := history.Open(path)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, runs)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					shortID(run.ID),
					humanize.Time(run.StartedAt),
					run.Kind,
					run.Label,
					run.Mode,
					strconv.Itoa(run.Counts.Total()),
					run.Status,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "When", "Kind", "Label", "Mode", "Files", "Status"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to show")
	cmd.Flags().StringVar(&dbPath, "db", "", "History database path (defaults to the user ledger)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit runs as JSON")

	return cmd
}
