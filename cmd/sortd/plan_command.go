package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"sortd/internal/events"
	"sortd/internal/manifest"
	"sortd/internal/organize"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var (
		source   string
		dest     string
		modeFlag string
		noHidden bool
		jsonOut  bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the placements a run would make, without touching files",
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := ctx.ensureRules()
			if err != nil {
				return err
			}
			rs = withHiddenExcluded(rs, noHidden)

			mode, err := organize.ParseMode(modeFlag)
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			collector := &collectSink{}
			engine := organize.New(rs, logger, collector)
			ops, err := engine.Run(cmd.Context(), organize.Request{
				Source: source,
				Dest:   dest,
				Mode:   mode,
				DryRun: true,
			})
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, manifest.Document{Operations: ops})
			}

			out := cmd.OutOrStdout()
			if len(collector.events) == 0 {
				fmt.Fprintln(out, "Nothing to organize")
				return nil
			}

			rows := make([][]string, 0, len(collector.events))
			placements := 0
			var total int64
			for _, e := range collector.events {
				switch e.Kind {
				case events.KindPlanned:
					rows = append(rows, []string{
						string(e.Action), e.Source, e.Dest, humanize.IBytes(uint64(e.Size)),
					})
					placements++
					total += e.Size
				case events.KindDuplicateSkipped:
					rows = append(rows, []string{
						string(manifest.ActionSkipDuplicate), e.Source, "", humanize.IBytes(uint64(e.Size)),
					})
				}
			}

			fmt.Fprintln(out, renderTable(
				[]string{"Action", "Source", "Destination", "Size"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
			))
			fmt.Fprintf(out, "%d placements, %s\n", placements, humanize.IBytes(uint64(total)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "Source directory")
	cmd.Flags().StringVarP(&dest, "dest", "d", "", "Destination directory")
	cmd.Flags().StringVar(&modeFlag, "mode", "move", "How files would be placed (move, copy, hardlink)")
	cmd.Flags().BoolVar(&noHidden, "no-hidden", false, "Exclude hidden files (overrides rules)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit planned operations as JSON")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("dest")

	return cmd
}
