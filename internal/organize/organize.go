package organize

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"sortd/internal/events"
	"sortd/internal/faults"
	"sortd/internal/fileutil"
	"sortd/internal/logging"
	"sortd/internal/manifest"
	"sortd/internal/rules"
)

// Mode selects the placement primitive for a run.
type Mode string

const (
	ModeMove     Mode = "move"
	ModeCopy     Mode = "copy"
	ModeHardlink Mode = "hardlink"
)

// ParseMode validates a user-supplied mode string. An empty string selects
// ModeMove.
func ParseMode(raw string) (Mode, error) {
	switch Mode(raw) {
	case "", ModeMove:
		return ModeMove, nil
	case ModeCopy:
		return ModeCopy, nil
	case ModeHardlink:
		return ModeHardlink, nil
	}
	return "", faults.Wrap(faults.ErrConfiguration, "organizing", "parse mode",
		fmt.Sprintf("mode must be move, copy, or hardlink (got %q)", raw), nil)
}

// Request describes one organize run.
type Request struct {
	Source       string
	Dest         string
	Mode         Mode
	DryRun       bool
	ManifestPath string
}

// Organizer runs organize requests against a fixed ruleset.
type Organizer struct {
	rules  *rules.Ruleset
	logger *slog.Logger
	sink   events.Sink
}

// New returns an Organizer. A nil logger or sink is replaced with a no-op.
func New(rs *rules.Ruleset, logger *slog.Logger, sink events.Sink) *Organizer {
	if sink == nil {
		sink = events.Nop()
	}
	return &Organizer{
		rules:  rs,
		logger: logging.NewComponentLogger(logger, "organize"),
		sink:   sink,
	}
}

// Run executes the request and returns every operation in walk order,
// including skips and dry-run plans. The undo journal is written only after
// the whole walk succeeds, so a failed run leaves prior placements applied
// but unrecorded.
func (o *Organizer) Run(ctx context.Context, req Request) ([]manifest.Operation, error) {
	logger := logging.WithContext(ctx, o.logger)

	mode := req.Mode
	if mode == "" {
		mode = ModeMove
	}

	srcRoot, destRoot, err := validateRoots(req.Source, req.Dest)
	if err != nil {
		return nil, err
	}

	logger.Info("run started",
		logging.String(logging.FieldSource, srcRoot),
		logging.String(logging.FieldDest, destRoot),
		logging.String("mode", string(mode)),
		logging.Bool("dry_run", req.DryRun),
	)

	run := runState{
		organizer: o,
		logger:    logger,
		srcRoot:   srcRoot,
		destRoot:  destRoot,
		mode:      mode,
		dryRun:    req.DryRun,
		seen:      make(map[string]string),
	}

	walkErr := walkFiles(srcRoot, o.rules, func(path string, info fs.FileInfo) error {
		op, err := run.processFile(path, info)
		if err != nil {
			return err
		}
		run.ops = append(run.ops, op)
		return nil
	})
	if walkErr != nil {
		if faults.Tagged(walkErr) {
			return run.ops, walkErr
		}
		return run.ops, faults.Wrap(faults.ErrIO, "organizing", "walk source tree", srcRoot, walkErr)
	}

	if !req.DryRun && req.ManifestPath != "" {
		applied := manifest.Filter(run.ops)
		if err := manifest.Write(req.ManifestPath, applied); err != nil {
			return run.ops, faults.Wrap(faults.ErrIO, "organizing", "write manifest",
				fmt.Sprintf("Failed to write undo manifest to %s", req.ManifestPath), err)
		}
		o.sink.Emit(events.Event{Kind: events.KindManifestWritten, Dest: req.ManifestPath})
		logger.Info("undo manifest written",
			logging.String("manifest", req.ManifestPath),
			logging.Int("operations", len(applied)),
		)
	}

	logger.Info("run finished", logging.Int("operations", len(run.ops)))
	return run.ops, nil
}

// runState carries the per-run accumulators: the duplicate index mapping
// content digests to the first source path that produced them, and the
// operations recorded so far.
type runState struct {
	organizer *Organizer
	logger    *slog.Logger
	srcRoot   string
	destRoot  string
	mode      Mode
	dryRun    bool
	seen      map[string]string
	ops       []manifest.Operation
}

func (r *runState) processFile(path string, info fs.FileInfo) (manifest.Operation, error) {
	o := r.organizer

	dst := destinationFor(o.rules, path, r.srcRoot, r.destRoot, info)

	digest, err := fileutil.HashFile(path)
	if err != nil {
		return manifest.Operation{}, faults.Wrap(faults.ErrIO, "organizing", "fingerprint file",
			fmt.Sprintf("Unable to read %s for duplicate detection", path), err)
	}

	firstSeen, duplicate := r.seen[digest]
	if duplicate {
		switch o.rules.Duplicates.Action {
		case rules.DuplicateSkip:
			o.sink.Emit(events.Event{
				Kind:   events.KindDuplicateSkipped,
				Source: path,
				Size:   info.Size(),
				Note:   firstSeen,
			})
			r.logger.Info("duplicate skipped",
				logging.String(logging.FieldSource, path),
				logging.String("first_seen", firstSeen),
			)
			return manifest.Operation{Src: path, Action: manifest.ActionSkipDuplicate}, nil
		case rules.DuplicateSeparate:
			dst = filepath.Join(r.destRoot, o.rules.Duplicates.Folder, filepath.Base(path))
		case rules.DuplicateHardlink:
			dst = filepath.Join(r.destRoot, o.rules.Duplicates.Folder, filepath.Base(firstSeen))
		}
	} else {
		r.seen[digest] = path
	}

	if r.dryRun {
		final := fileutil.NextAvailablePath(dst)
		action := planAction(r.mode)
		o.sink.Emit(events.Event{
			Kind:   events.KindPlanned,
			Source: path,
			Dest:   final,
			Action: action,
			Size:   info.Size(),
		})
		r.logger.Info("placement planned",
			logging.String(logging.FieldSource, path),
			logging.String(logging.FieldDest, final),
			logging.String(logging.FieldAction, string(action)),
		)
		return manifest.Operation{Src: path, Dst: final, Action: action}, nil
	}

	effective := r.mode
	if o.rules.Duplicates.Action == rules.DuplicateHardlink {
		// The hardlink policy links every placement so identical content
		// shares inodes regardless of the requested mode.
		effective = ModeHardlink
	}

	action, final, err := place(path, dst, effective)
	if err != nil {
		return manifest.Operation{}, faults.Wrap(faults.ErrIO, "organizing", "place file",
			fmt.Sprintf("Failed to %s %s", effective, path), err)
	}

	o.sink.Emit(events.Event{
		Kind:   events.KindPlaced,
		Source: path,
		Dest:   final,
		Action: action,
		Size:   info.Size(),
	})
	r.logger.Info("file placed",
		logging.String(logging.FieldSource, path),
		logging.String(logging.FieldDest, final),
		logging.String(logging.FieldAction, string(action)),
		logging.Int64("bytes", info.Size()),
	)
	return manifest.Operation{Src: path, Dst: final, Action: action}, nil
}

func planAction(mode Mode) manifest.Action {
	switch mode {
	case ModeCopy:
		return manifest.ActionPlanCopy
	case ModeHardlink:
		return manifest.ActionPlanHardlink
	default:
		return manifest.ActionPlanMove
	}
}
