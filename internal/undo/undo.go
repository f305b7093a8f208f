// Package undo replays an organize manifest in reverse, returning placed
// files to their original locations. Entries whose placed file has vanished
// are reported and skipped; everything else is restored with the same
// conflict naming and cross-device handling as a forward run.
package undo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"sortd/internal/events"
	"sortd/internal/faults"
	"sortd/internal/fileutil"
	"sortd/internal/logging"
	"sortd/internal/manifest"
)

// Engine restores files recorded in an undo manifest.
type Engine struct {
	logger *slog.Logger
	sink   events.Sink
}

// New returns an Engine. A nil logger or sink is replaced with a no-op.
func New(logger *slog.Logger, sink events.Sink) *Engine {
	if sink == nil {
		sink = events.Nop()
	}
	return &Engine{
		logger: logging.NewComponentLogger(logger, "undo"),
		sink:   sink,
	}
}

// Run loads the manifest at path and replays its operations back to front.
// It returns one undo operation per file actually restored. Copies and
// hardlinks are undone by moving the placed file back, which leaves the
// original source untouched at a conflict-suffixed name.
func (e *Engine) Run(ctx context.Context, path string) ([]manifest.Operation, error) {
	logger := logging.WithContext(ctx, e.logger)

	doc, err := manifest.Load(path)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil, faults.Wrap(faults.ErrNotFound, "undoing", "load manifest",
				fmt.Sprintf("Undo manifest not found: %s", path), err)
		case isDecodeError(err):
			return nil, faults.Wrap(faults.ErrParse, "undoing", "load manifest",
				fmt.Sprintf("Malformed undo manifest: %s", path), err)
		default:
			return nil, faults.Wrap(faults.ErrIO, "undoing", "load manifest", path, err)
		}
	}

	logger.Info("undo started",
		logging.String("manifest", path),
		logging.Int("operations", len(doc.Operations)),
	)

	var restored []manifest.Operation
	for i := len(doc.Operations) - 1; i >= 0; i-- {
		op := doc.Operations[i]
		placed := op.Dst
		original := op.Src

		if _, err := os.Stat(placed); err != nil {
			e.sink.Emit(events.Event{Kind: events.KindUndoMissing, Source: placed, Note: original})
			logger.Warn("placed file missing, skipping",
				logging.String(logging.FieldSource, placed),
				logging.String(logging.FieldDest, original),
			)
			continue
		}

		if err := fileutil.EnsureDir(filepath.Dir(original)); err != nil {
			return restored, faults.Wrap(faults.ErrIO, "undoing", "prepare directory",
				fmt.Sprintf("Failed to create %s", filepath.Dir(original)), err)
		}
		final := fileutil.NextAvailablePath(original)
		if err := fileutil.Move(placed, final); err != nil {
			return restored, faults.Wrap(faults.ErrIO, "undoing", "restore file",
				fmt.Sprintf("Failed to restore %s", placed), err)
		}

		e.sink.Emit(events.Event{
			Kind:   events.KindUndone,
			Source: placed,
			Dest:   final,
			Action: manifest.ActionUndo,
		})
		logger.Info("file restored",
			logging.String(logging.FieldSource, placed),
			logging.String(logging.FieldDest, final),
		)
		restored = append(restored, manifest.Operation{Src: placed, Dst: final, Action: manifest.ActionUndo})
	}

	logger.Info("undo finished", logging.Int("restored", len(restored)))
	return restored, nil
}

func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}
