package history

import (
	"time"

	"github.com/google/uuid"

	"sortd/internal/manifest"
)

// Run kinds.
const (
	KindOrganize = "organize"
	KindUndo     = "undo"
)

// Run statuses.
const (
	StatusCompleted = "completed"
	StatusUndone    = "undone"
)

// Counts aggregates per-action totals for one run.
type Counts struct {
	Moved    int `json:"moved"`
	Copied   int `json:"copied"`
	Linked   int `json:"linked"`
	Skipped  int `json:"skipped"`
	Restored int `json:"restored"`
}

// Total returns the number of files the run touched or deliberately skipped.
func (c Counts) Total() int {
	return c.Moved + c.Copied + c.Linked + c.Skipped + c.Restored
}

// Count tallies operations by their recorded action. Plan actions are not
// counted; dry runs are never recorded in the ledger.
func Count(ops []manifest.Operation) Counts {
	var counts Counts
	for _, op := range ops {
		switch op.Action {
		case manifest.ActionMove:
			counts.Moved++
		case manifest.ActionCopy:
			counts.Copied++
		case manifest.ActionHardlink:
			counts.Linked++
		case manifest.ActionSkipDuplicate:
			counts.Skipped++
		case manifest.ActionUndo:
			counts.Restored++
		}
	}
	return counts
}

// Run is one ledger row.
type Run struct {
	ID           string    `json:"id"`
	Label        string    `json:"label"`
	Kind         string    `json:"kind"`
	Source       string    `json:"source"`
	Dest         string    `json:"dest,omitempty"`
	Mode         string    `json:"mode,omitempty"`
	ManifestPath string    `json:"manifest_path,omitempty"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	Status       string    `json:"status"`
	Counts       Counts    `json:"counts"`
}

// NewRun starts a ledger entry for a run beginning now. The label is derived
// from the source path so listings read like names, not paths.
func NewRun(kind, source, dest, mode, manifestPath string) Run {
	return Run{
		ID:           uuid.NewString(),
		Label:        deriveLabel(source),
		Kind:         kind,
		Source:       source,
		Dest:         dest,
		Mode:         mode,
		ManifestPath: manifestPath,
		StartedAt:    time.Now().UTC(),
		Status:       StatusCompleted,
	}
}
