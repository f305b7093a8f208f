package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"sortd/internal/history"
	"sortd/internal/logging"
	"sortd/internal/organize"
	"sortd/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var (
		source       string
		dest         string
		modeFlag     string
		manifestPath string
		noHidden     bool
		debounce     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch a source tree and organize whenever it settles",
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

			signalCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Source: %s\n", source)
			fmt.Fprintf(out, "Dest:   %s\n", dest)
			fmt.Fprintf(out, "Mode:   %s\n", mode)

			pass := func(passCtx context.Context) error {
				unlock, err := acquireManifestLock(manifestPath)
				if err != nil {
					return err
				}
				defer unlock()

				printer := &printSink{out: out}
				run := history.NewRun(history.KindOrganize, source, dest, string(mode), absolutePath(manifestPath))
				runCtx := logging.WithRunID(passCtx, run.ID)

				passEngine := organize.New(rs, logger, printer)
				ops, err := passEngine.Run(runCtx, organize.Request{
					Source:       source,
					Dest:         dest,
					Mode:         mode,
					ManifestPath: manifestPath,
				})
				if err != nil {
					return err
				}

				run.FinishedAt = time.Now().UTC()
				run.Counts = history.Count(ops)
				withHistory(cmd, func(store *history.Store) error {
					return store.RecordRun(runCtx, run)
				})
				fmt.Fprintln(out, printer.summarizeOrganize(false))
				return nil
			}

			// Organize what is already there before waiting for changes.
			if err := pass(signalCtx); err != nil {
				return err
			}

			excluded := make(map[string]struct{}, len(rs.ExcludeDirs))
			for _, name := range rs.ExcludeDirs {
				excluded[name] = struct{}{}
			}
			prune := func(name string) bool {
				if _, ok := excluded[name]; ok {
					return true
				}
				return rs.ExcludeHidden && strings.HasPrefix(name, ".")
			}

			w, err := watch.New(watch.Options{
				Root:     source,
				Debounce: debounce,
				Prune:    prune,
				OnSettle: pass,
				Logger:   logger,
			})
			if err != nil {
				return err
			}
			defer w.Close()

			fmt.Fprintf(out, "Watching for changes (debounce %s); interrupt to stop\n", debounce)
			err = w.Run(signalCtx)
			if errors.Is(err, context.Canceled) {
				fmt.Fprintln(out, "Watch stopped")
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "Source directory")
	cmd.Flags().StringVarP(&dest, "dest", "d", "", "Destination directory")
	cmd.Flags().StringVar(&modeFlag, "mode", "move", "How to place files (move, copy, hardlink)")
	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", defaultManifestName, "Where to save the undo manifest")
	cmd.Flags().BoolVar(&noHidden, "no-hidden", false, "Exclude hidden files (overrides rules)")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Quiet window before a pass runs")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("dest")

	return cmd
}
