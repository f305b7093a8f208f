// Package manifest defines the undo journal written after an organize run.
// The journal is a single JSON document listing applied placements in run
// order; undo replays it back to front.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Action identifies what happened, or would happen, to one file.
type Action string

const (
	ActionMove     Action = "move"
	ActionCopy     Action = "copy"
	ActionHardlink Action = "hardlink"

	// ActionSkipDuplicate marks a file left in place because its content was
	// already seen earlier in the run.
	ActionSkipDuplicate Action = "skip-duplicate"

	// Plan actions mirror the placement modes for dry runs. They describe
	// intent only; nothing on disk changed.
	ActionPlanMove     Action = "plan-move"
	ActionPlanCopy     Action = "plan-copy"
	ActionPlanHardlink Action = "plan-hardlink"

	// ActionUndo marks a file restored to its pre-run location.
	ActionUndo Action = "undo"
)

// Applied reports whether the action mutated the filesystem and therefore
// belongs in the undo journal.
func (a Action) Applied() bool {
	switch a {
	case ActionMove, ActionCopy, ActionHardlink:
		return true
	}
	return false
}

// Operation records a single placement. Src is the original absolute path,
// Dst the absolute path the file ended up at (empty for skips).
type Operation struct {
	Src    string `json:"src"`
	Dst    string `json:"dst"`
	Action Action `json:"action"`
}

// Document is the on-disk journal format.
type Document struct {
	Operations []Operation `json:"operations"`
}

// Filter returns the subset of ops that belong in the undo journal, in the
// original order.
func Filter(ops []Operation) []Operation {
	applied := make([]Operation, 0, len(ops))
	for _, op := range ops {
		if op.Action.Applied() {
			applied = append(applied, op)
		}
	}
	return applied
}

// Load reads the journal at path. Callers distinguish a missing file from a
// corrupt one via errors.Is against fs.ErrNotExist and the json error types.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decode manifest %s: %w", path, err)
	}
	return doc, nil
}

// Write atomically replaces the journal at path with the given operations,
// creating parent directories as needed. An empty slice still produces a
// valid document so a rerun always reflects the latest run.
func Write(path string, ops []Operation) error {
	if ops == nil {
		ops = []Operation{}
	}
	data, err := json.MarshalIndent(Document{Operations: ops}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp manifest: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace manifest: %w", err)
	}
	return nil
}
