package watch_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"sortd/internal/watch"
)

const testDebounce = 50 * time.Millisecond

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func startWatcher(t *testing.T, opts watch.Options) (<-chan error, context.CancelFunc) {
	t.Helper()
	w, err := watch.New(opts)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	t.Cleanup(func() { w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(cancel)
	return done, cancel
}

func waitSettle(t *testing.T, settled <-chan struct{}) {
	t.Helper()
	select {
	case <-settled:
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for a pass")
	}
}

func drain(settled <-chan struct{}, quiet time.Duration) {
	for {
		select {
		case <-settled:
		case <-time.After(quiet):
			return
		}
	}
}

func TestPassRunsAfterQuiet(t *testing.T) {
	root := t.TempDir()
	settled := make(chan struct{}, 16)
	startWatcher(t, watch.Options{
		Root:     root,
		Debounce: testDebounce,
		OnSettle: func(context.Context) error { settled <- struct{}{}; return nil },
	})

	for i := 0; i < 5; i++ {
		writeFile(t, filepath.Join(root, fmt.Sprintf("f%d.txt", i)), "x")
	}
	waitSettle(t, settled)
	drain(settled, 4*testDebounce)

	// A later change starts a fresh debounce window.
	writeFile(t, filepath.Join(root, "late.txt"), "x")
	waitSettle(t, settled)
}

func TestCreatedDirectoryIsWatched(t *testing.T) {
	root := t.TempDir()
	settled := make(chan struct{}, 16)
	startWatcher(t, watch.Options{
		Root:     root,
		Debounce: testDebounce,
		OnSettle: func(context.Context) error { settled <- struct{}{}; return nil },
	})

	if err := os.Mkdir(filepath.Join(root, "incoming"), 0o755); err != nil {
		t.Fatal(err)
	}
	waitSettle(t, settled)
	drain(settled, 4*testDebounce)

	writeFile(t, filepath.Join(root, "incoming", "a.txt"), "x")
	waitSettle(t, settled)
}

func TestPrunedDirectoryIgnored(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "node_modules"), 0o755); err != nil {
		t.Fatal(err)
	}

	settled := make(chan struct{}, 16)
	startWatcher(t, watch.Options{
		Root:     root,
		Debounce: testDebounce,
		Prune:    func(name string) bool { return name == "node_modules" },
		OnSettle: func(context.Context) error { settled <- struct{}{}; return nil },
	})

	writeFile(t, filepath.Join(root, "node_modules", "dep.js"), "x")
	select {
	case <-settled:
		t.Fatal("pruned directory triggered a pass")
	case <-time.After(5 * testDebounce):
	}

	// The watcher itself is still live.
	writeFile(t, filepath.Join(root, "real.txt"), "x")
	waitSettle(t, settled)
}

func TestOnSettleErrorKeepsWatching(t *testing.T) {
	root := t.TempDir()
	settled := make(chan struct{}, 16)
	startWatcher(t, watch.Options{
		Root:     root,
		Debounce: testDebounce,
		OnSettle: func(context.Context) error {
			settled <- struct{}{}
			return errors.New("pass exploded")
		},
	})

	writeFile(t, filepath.Join(root, "a.txt"), "x")
	waitSettle(t, settled)
	drain(settled, 4*testDebounce)

	writeFile(t, filepath.Join(root, "b.txt"), "x")
	waitSettle(t, settled)
}

func TestRunReturnsOnCancel(t *testing.T) {
	done, cancel := startWatcher(t, watch.Options{
		Root:     t.TempDir(),
		Debounce: testDebounce,
		OnSettle: func(context.Context) error { return nil },
	})

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNewRequiresCallback(t *testing.T) {
	if _, err := watch.New(watch.Options{Root: t.TempDir()}); err == nil {
		t.Fatal("expected error for missing OnSettle")
	}
}

func TestNewRejectsMissingRoot(t *testing.T) {
	_, err := watch.New(watch.Options{
		Root:     filepath.Join(t.TempDir(), "gone"),
		OnSettle: func(context.Context) error { return nil },
	})
	if err == nil {
		t.Fatal("expected error for missing root")
	}
}
