package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"sortd/internal/testsupport"
)

// A pre-cancelled context makes the watch loop exit right after the initial
// pass, which keeps the test free of real signals and timing.
func TestWatchCommandRunsInitialPassThenStops(t *testing.T) {
	base := setupCLIHome(t)
	src := filepath.Join(base, "inbox")
	dest := filepath.Join(base, "sorted")
	testsupport.WriteFile(t, filepath.Join(src, "report.pdf"), "pdf body")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stdout, _, err := runCLIContext(t, ctx, "watch",
		"-s", src,
		"-d", dest,
		"-m", filepath.Join(base, "undo.json"),
	)
	if err != nil {
		t.Fatalf("watch failed: %v\nstdout: %s", err, stdout)
	}

	requireContains(t, stdout, "Watching for changes")
	requireContains(t, stdout, "Watch stopped")
	requireContains(t, stdout, "MOVE: report.pdf")

	if _, err := os.Stat(filepath.Join(dest, "Others", "report.pdf")); err != nil {
		t.Fatalf("initial pass should organize existing files: %v", err)
	}
}

func TestWatchCommandRequiresSourceAndDest(t *testing.T) {
	setupCLIHome(t)

	_, _, err := runCLI(t, "watch")
	if err == nil {
		t.Fatal("expected an error when required flags are missing")
	}
}
