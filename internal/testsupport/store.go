package testsupport

import (
	"testing"

	"sortd/internal/history"
)

// MustOpenHistory opens a run ledger for tests and registers cleanup.
func MustOpenHistory(t testing.TB, path string) *history.Store {
	t.Helper()

	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
