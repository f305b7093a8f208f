// Package events carries user-facing status updates out of the organize and
// undo engines. Engines emit events; the CLI decides how to present them.
// Operational logging stays on slog, so a sink never doubles as a log.
package events

import "sortd/internal/manifest"

// Kind identifies the event type.
type Kind string

const (
	// KindPlanned reports a dry-run placement decision.
	KindPlanned Kind = "planned"
	// KindPlaced reports a completed move, copy, or hardlink.
	KindPlaced Kind = "placed"
	// KindDuplicateSkipped reports a file left in place under the skip policy.
	KindDuplicateSkipped Kind = "duplicate-skipped"
	// KindManifestWritten reports the undo journal location after a live run.
	KindManifestWritten Kind = "manifest-written"
	// KindUndone reports a file restored to its original location.
	KindUndone Kind = "undone"
	// KindUndoMissing reports a journal entry whose placed file has vanished.
	KindUndoMissing Kind = "undo-missing"
)

// Event is a single status update. Fields besides Kind are populated when the
// kind calls for them: Source and Dest are absolute paths, Size is the file
// size in bytes, and Note carries extra context such as the first-seen path
// of a skipped duplicate.
type Event struct {
	Kind   Kind
	Source string
	Dest   string
	Action manifest.Action
	Size   int64
	Note   string
}

// Sink receives events as they happen. Implementations must tolerate being
// called from a single engine goroutine at a time.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Event)

func (f SinkFunc) Emit(ev Event) { f(ev) }

// Nop returns a sink that discards everything.
func Nop() Sink {
	return SinkFunc(func(Event) {})
}
