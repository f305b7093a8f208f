package main

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"sortd/internal/faults"
	"sortd/internal/history"
	"sortd/internal/rules"
)

// acquireManifestLock serializes invocations that share an undo manifest.
// The lock file sits next to the manifest so concurrent runs against
// different manifests stay independent.
func acquireManifestLock(manifestPath string) (func(), error) {
	lock := flock.New(manifestPath + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, faults.Wrap(faults.ErrIO, "locking", "acquire manifest lock", manifestPath, err)
	}
	if !ok {
		return nil, faults.Wrap(faults.ErrLocked, "locking", "acquire manifest lock",
			fmt.Sprintf("Another invocation is using manifest %s", manifestPath), nil)
	}
	return func() { _ = lock.Unlock() }, nil
}

// withHistory opens the run ledger and hands it to fn. Ledger failures are
// reported as warnings, never as run failures; the files are already placed
// by the time history is written.
func withHistory(cmd *cobra.Command, fn func(store *history.Store) error) {
	store, err := history.Open(defaultHistoryPath())
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warn: open history ledger: %v\n", err)
		return
	}
	defer store.Close()
	if err := fn(store); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warn: update history ledger: %v\n", err)
	}
}

// withHiddenExcluded returns rs with hidden-file exclusion forced on,
// leaving the shared ruleset untouched.
func withHiddenExcluded(rs *rules.Ruleset, noHidden bool) *rules.Ruleset {
	if !noHidden || rs.ExcludeHidden {
		return rs
	}
	clone := *rs
	clone.ExcludeHidden = true
	return &clone
}

// absolutePath resolves path for record keeping, passing through values
// that cannot be resolved.
func absolutePath(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
