package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestDoctorCommandHealthy(t *testing.T) {
	base := setupCLIHome(t)
	src := filepath.Join(base, "inbox")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	stdout, _, err := runCLI(t, "doctor",
		"-s", src,
		"-d", filepath.Join(base, "sorted"),
		"-m", filepath.Join(base, "undo.json"),
		"--db", filepath.Join(base, "history.db"),
	)
	if err != nil {
		t.Fatalf("doctor failed: %v\nstdout: %s", err, stdout)
	}

	requireContains(t, stdout, "Preflight")
	requireContains(t, stdout, "[OK]")
	requireContains(t, stdout, "Source directory")
	requireContains(t, stdout, "will be created")
}

func TestDoctorCommandReportsFailures(t *testing.T) {
	base := setupCLIHome(t)

	stdout, _, err := runCLI(t, "doctor",
		"-s", filepath.Join(base, "missing"),
		"-m", filepath.Join(base, "undo.json"),
		"--db", filepath.Join(base, "history.db"),
	)
	if err == nil {
		t.Fatal("expected doctor to fail for a missing source")
	}
	requireContains(t, err.Error(), "preflight checks failed")
	requireContains(t, stdout, "[ERROR]")
	requireContains(t, stdout, "does not exist")
}

func TestDoctorCommandJSON(t *testing.T) {
	base := setupCLIHome(t)
	src := filepath.Join(base, "inbox")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	stdout, _, err := runCLI(t, "doctor",
		"-s", src,
		"-d", filepath.Join(base, "sorted"),
		"-m", filepath.Join(base, "undo.json"),
		"--db", filepath.Join(base, "history.db"),
		"--json",
	)
	if err != nil {
		t.Fatalf("doctor failed: %v", err)
	}

	var payload doctorPayload
	if err := json.Unmarshal([]byte(stdout), &payload); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, stdout)
	}
	if payload.Failed != 0 {
		t.Fatalf("expected no failed checks, got %d", payload.Failed)
	}
	if len(payload.Checks) != 5 {
		t.Fatalf("expected 5 checks, got %d", len(payload.Checks))
	}
}
