package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"sortd/internal/events"
	"sortd/internal/history"
	"sortd/internal/logging"
	"sortd/internal/manifest"
	"sortd/internal/undo"
)

func newUndoCommand(ctx *commandContext) *cobra.Command {
	var manifestPath string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Undo a previous run using its manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			unlock, err := acquireManifestLock(manifestPath)
			if err != nil {
				return err
			}
			defer unlock()

			out := cmd.OutOrStdout()
			printer := &printSink{out: out}
			var sink events.Sink = printer
			if jsonOut {
				sink = events.Nop()
			}

			absManifest := absolutePath(manifestPath)
			run := history.NewRun(history.KindUndo, manifestPath, "", "", absManifest)
			runCtx := logging.WithRunID(cmd.Context(), run.ID)

			engine := undo.New(logger, sink)
			ops, err := engine.Run(runCtx, manifestPath)
			if err != nil {
				return err
			}

			run.FinishedAt = time.Now().UTC()
			run.Counts = history.Count(ops)
			withHistory(cmd, func(store *history.Store) error {
				if err := store.RecordRun(runCtx, run); err != nil {
					return err
				}
				_, err := store.MarkUndone(runCtx, absManifest)
				return err
			})

			if jsonOut {
				return writeJSON(cmd, manifest.Document{Operations: ops})
			}
			fmt.Fprintln(out, printer.summarizeUndo())
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", defaultManifestName, "Manifest recorded by the organize run")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit restored operations as JSON")

	return cmd
}
