package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"sortd/internal/events"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printSink renders engine events as the human lines the terminal shows,
// one per processed file, and accumulates totals for the closing summary.
type printSink struct {
	out      io.Writer
	placed   int
	planned  int
	skipped  int
	restored int
	missing  int
	bytes    int64
}

func (p *printSink) Emit(e events.Event) {
	switch e.Kind {
	case events.KindPlanned:
		p.planned++
		p.bytes += e.Size
		fmt.Fprintf(p.out, "%s: %s -> %s\n", strings.ToUpper(string(e.Action)), e.Source, e.Dest)
	case events.KindPlaced:
		p.placed++
		p.bytes += e.Size
		fmt.Fprintf(p.out, "%s: %s -> %s (%s)\n",
			strings.ToUpper(string(e.Action)), filepath.Base(e.Source), e.Dest, humanize.IBytes(uint64(e.Size)))
	case events.KindDuplicateSkipped:
		p.skipped++
		fmt.Fprintf(p.out, "Duplicate (skip): %s (same as %s)\n", e.Source, e.Note)
	case events.KindManifestWritten:
		fmt.Fprintf(p.out, "Undo manifest saved -> %s\n", e.Dest)
	case events.KindUndone:
		p.restored++
		fmt.Fprintf(p.out, "UNDO: %s -> %s\n", e.Source, e.Dest)
	case events.KindUndoMissing:
		p.missing++
		fmt.Fprintf(p.out, "Missing file for undo: %s\n", e.Source)
	}
}

func (p *printSink) summarizeOrganize(dryRun bool) string {
	verb := "Placed"
	count := p.placed
	if dryRun {
		verb = "Planned"
		count = p.planned
	}
	line := fmt.Sprintf("%s %d files, %s", verb, count, humanize.IBytes(uint64(p.bytes)))
	if p.skipped > 0 {
		line += fmt.Sprintf(", %d duplicates skipped", p.skipped)
	}
	return line
}

func (p *printSink) summarizeUndo() string {
	line := fmt.Sprintf("Restored %d files", p.restored)
	if p.missing > 0 {
		line += fmt.Sprintf(", %d missing", p.missing)
	}
	return line
}

// collectSink retains events for table rendering.
type collectSink struct {
	events []events.Event
}

func (c *collectSink) Emit(e events.Event) {
	c.events = append(c.events, e)
}
