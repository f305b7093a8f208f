package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"sortd/internal/events"
	"sortd/internal/history"
	"sortd/internal/logging"
	"sortd/internal/manifest"
	"sortd/internal/organize"
)

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	var params organizeParams

	cmd := &cobra.Command{
		Use:   "organize",
		Short: "Classify files from a source tree into a destination tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrganize(cmd, ctx, params)
		},
	}

	cmd.Flags().StringVarP(&params.source, "source", "s", "", "Source directory")
	cmd.Flags().StringVarP(&params.dest, "dest", "d", "", "Destination directory")
	cmd.Flags().StringVar(&params.modeFlag, "mode", "move", "How to place files (move, copy, hardlink)")
	cmd.Flags().StringVarP(&params.manifestPath, "manifest", "m", defaultManifestName, "Where to save the undo manifest")
	cmd.Flags().BoolVar(&params.dryRun, "dry-run", false, "Plan only; don't modify files")
	cmd.Flags().BoolVar(&params.noHidden, "no-hidden", false, "Exclude hidden files (overrides rules)")
	cmd.Flags().BoolVar(&params.jsonOut, "json", false, "Emit operations as JSON")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("dest")

	return cmd
}

type organizeParams struct {
	source       string
	dest         string
	modeFlag     string
	manifestPath string
	dryRun       bool
	noHidden     bool
	jsonOut      bool
}

func runOrganize(cmd *cobra.Command, ctx *commandContext, p organizeParams) error {
	rs, err := ctx.ensureRules()
	if err != nil {
		return err
	}
	rs = withHiddenExcluded(rs, p.noHidden)

	mode, err := organize.ParseMode(p.modeFlag)
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}

	// Dry runs never record a manifest.
	manifestPath := ""
	if !p.dryRun {
		manifestPath = p.manifestPath
	}
	if manifestPath != "" {
		unlock, err := acquireManifestLock(manifestPath)
		if err != nil {
			return err
		}
		defer unlock()
	}

	out := cmd.OutOrStdout()
	printer := &printSink{out: out}
	var sink events.Sink = printer
	if p.jsonOut {
		sink = events.Nop()
	} else {
		fmt.Fprintf(out, "Source: %s\n", p.source)
		fmt.Fprintf(out, "Dest:   %s\n", p.dest)
		fmt.Fprintf(out, "Mode:   %s\n", mode)
		fmt.Fprintf(out, "DryRun: %t\n", p.dryRun)
	}

	run := history.NewRun(history.KindOrganize, p.source, p.dest, string(mode), absolutePath(manifestPath))
	runCtx := logging.WithRunID(cmd.Context(), run.ID)

	engine := organize.New(rs, logger, sink)
	ops, err := engine.Run(runCtx, organize.Request{
		Source:       p.source,
		Dest:         p.dest,
		Mode:         mode,
		DryRun:       p.dryRun,
		ManifestPath: manifestPath,
	})
	if err != nil {
		return err
	}

	if !p.dryRun {
		run.FinishedAt = time.Now().UTC()
		run.Counts = history.Count(ops)
		withHistory(cmd, func(store *history.Store) error {
			return store.RecordRun(runCtx, run)
		})
	}

	if p.jsonOut {
		return writeJSON(cmd, manifest.Document{Operations: ops})
	}
	fmt.Fprintln(out, printer.summarizeOrganize(p.dryRun))
	return nil
}
