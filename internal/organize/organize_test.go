package organize_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"sortd/internal/events"
	"sortd/internal/faults"
	"sortd/internal/manifest"
	"sortd/internal/organize"
	"sortd/internal/rules"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func baseRules() *rules.Ruleset {
	return &rules.Ruleset{
		UnknownFolder: "Others",
		ExcludeDirs:   []string{".git", "node_modules"},
		ExcludeHidden: true,
		ByExtension: map[string]string{
			".pdf": "Documents",
			".jpg": "Images",
		},
		Duplicates: rules.DuplicateRule{Action: rules.DuplicateSeparate, Folder: "Duplicates"},
	}
}

func run(t *testing.T, rs *rules.Ruleset, req organize.Request) []manifest.Operation {
	t.Helper()
	ops, err := organize.New(rs, nil, nil).Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return ops
}

func mustStat(t *testing.T, path string) os.FileInfo {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected %s to exist: %v", path, err)
	}
	return info
}

func TestRunMovesFilesByExtension(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	writeFile(t, filepath.Join(src, "report.pdf"), "pdf content")
	writeFile(t, filepath.Join(src, "photo.jpg"), "jpg content")
	manifestPath := filepath.Join(t.TempDir(), "undo.json")

	ops := run(t, baseRules(), organize.Request{
		Source:       src,
		Dest:         dest,
		Mode:         organize.ModeMove,
		ManifestPath: manifestPath,
	})

	if len(ops) != 2 {
		t.Fatalf("expected 2 operations, got %d: %+v", len(ops), ops)
	}
	mustStat(t, filepath.Join(dest, "Documents", "report.pdf"))
	mustStat(t, filepath.Join(dest, "Images", "photo.jpg"))
	if _, err := os.Stat(filepath.Join(src, "report.pdf")); !os.IsNotExist(err) {
		t.Fatalf("moved source should be gone, stat err=%v", err)
	}
	for _, op := range ops {
		if op.Action != manifest.ActionMove {
			t.Fatalf("expected move actions, got %+v", op)
		}
	}

	doc, err := manifest.Load(manifestPath)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	if len(doc.Operations) != 2 {
		t.Fatalf("expected 2 journal entries, got %+v", doc.Operations)
	}
}

func TestRunRoutesUnmatchedToUnknownFolder(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	writeFile(t, filepath.Join(src, "data.xyzzy"), "mystery")

	run(t, baseRules(), organize.Request{Source: src, Dest: dest})

	mustStat(t, filepath.Join(dest, "Others", "data.xyzzy"))
}

func TestRunDryRunTouchesNothing(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	writeFile(t, filepath.Join(src, "report.pdf"), "pdf content")
	manifestPath := filepath.Join(t.TempDir(), "undo.json")

	ops := run(t, baseRules(), organize.Request{
		Source:       src,
		Dest:         dest,
		Mode:         organize.ModeMove,
		DryRun:       true,
		ManifestPath: manifestPath,
	})

	if len(ops) != 1 || ops[0].Action != manifest.ActionPlanMove {
		t.Fatalf("expected one plan-move, got %+v", ops)
	}
	if want := filepath.Join(dest, "Documents", "report.pdf"); ops[0].Dst != want {
		t.Fatalf("expected planned destination %s, got %s", want, ops[0].Dst)
	}
	mustStat(t, filepath.Join(src, "report.pdf"))
	entries, err := os.ReadDir(dest)
	if err != nil {
		t.Fatalf("read dest: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("dry run should not create destination folders: %v", entries)
	}
	if _, err := os.Stat(manifestPath); !os.IsNotExist(err) {
		t.Fatalf("dry run should not write a manifest, stat err=%v", err)
	}
}

func TestRunCopyModeKeepsSource(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	writeFile(t, filepath.Join(src, "report.pdf"), "pdf content")

	ops := run(t, baseRules(), organize.Request{Source: src, Dest: dest, Mode: organize.ModeCopy})

	mustStat(t, filepath.Join(src, "report.pdf"))
	mustStat(t, filepath.Join(dest, "Documents", "report.pdf"))
	if ops[0].Action != manifest.ActionCopy {
		t.Fatalf("expected copy action, got %+v", ops[0])
	}
}

func TestRunHardlinkModeSharesInode(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	source := filepath.Join(src, "report.pdf")
	writeFile(t, source, "pdf content")

	ops := run(t, baseRules(), organize.Request{Source: src, Dest: dest, Mode: organize.ModeHardlink})

	placed := filepath.Join(dest, "Documents", "report.pdf")
	srcInfo := mustStat(t, source)
	dstInfo := mustStat(t, placed)
	if !os.SameFile(srcInfo, dstInfo) {
		t.Fatal("expected hardlink to share the inode with the source")
	}
	if ops[0].Action != manifest.ActionHardlink {
		t.Fatalf("expected hardlink action, got %+v", ops[0])
	}
}

func TestRunResolvesNameConflicts(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	writeFile(t, filepath.Join(src, "report.pdf"), "new content")
	writeFile(t, filepath.Join(dest, "Documents", "report.pdf"), "already there")

	ops := run(t, baseRules(), organize.Request{Source: src, Dest: dest})

	want := filepath.Join(dest, "Documents", "report(1).pdf")
	mustStat(t, want)
	if ops[0].Dst != want {
		t.Fatalf("expected recorded destination %s, got %s", want, ops[0].Dst)
	}
	data, err := os.ReadFile(filepath.Join(dest, "Documents", "report.pdf"))
	if err != nil || string(data) != "already there" {
		t.Fatalf("existing file should be untouched: %q err=%v", data, err)
	}
}

func TestRunDuplicateSeparate(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	writeFile(t, filepath.Join(src, "report.pdf"), "same bytes")
	writeFile(t, filepath.Join(src, "z_copy.pdf"), "same bytes")

	ops := run(t, baseRules(), organize.Request{Source: src, Dest: dest})

	mustStat(t, filepath.Join(dest, "Documents", "report.pdf"))
	mustStat(t, filepath.Join(dest, "Duplicates", "z_copy.pdf"))
	if len(ops) != 2 {
		t.Fatalf("expected 2 operations, got %+v", ops)
	}
}

func TestRunDuplicateSkipLeavesFileInPlace(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	writeFile(t, filepath.Join(src, "report.pdf"), "same bytes")
	writeFile(t, filepath.Join(src, "z_copy.pdf"), "same bytes")
	manifestPath := filepath.Join(t.TempDir(), "undo.json")

	rs := baseRules()
	rs.Duplicates.Action = rules.DuplicateSkip

	ops := run(t, rs, organize.Request{Source: src, Dest: dest, ManifestPath: manifestPath})

	mustStat(t, filepath.Join(src, "z_copy.pdf"))
	if _, err := os.Stat(filepath.Join(dest, "Duplicates")); !os.IsNotExist(err) {
		t.Fatalf("skip policy should not create a duplicates folder, stat err=%v", err)
	}

	var skip *manifest.Operation
	for i := range ops {
		if ops[i].Action == manifest.ActionSkipDuplicate {
			skip = &ops[i]
		}
	}
	if skip == nil || skip.Dst != "" {
		t.Fatalf("expected a skip-duplicate operation with empty destination, got %+v", ops)
	}

	doc, err := manifest.Load(manifestPath)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	if len(doc.Operations) != 1 {
		t.Fatalf("journal should hold only the applied move, got %+v", doc.Operations)
	}
}

func TestRunDuplicateHardlinkPolicyLinksEverything(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	first := filepath.Join(src, "report.pdf")
	second := filepath.Join(src, "z_copy.pdf")
	writeFile(t, first, "same bytes")
	writeFile(t, second, "same bytes")

	rs := baseRules()
	rs.Duplicates.Action = rules.DuplicateHardlink

	ops := run(t, rs, organize.Request{Source: src, Dest: dest, Mode: organize.ModeMove})

	// The hardlink policy overrides the move mode, so sources stay put.
	mustStat(t, first)
	mustStat(t, second)

	placedFirst := mustStat(t, filepath.Join(dest, "Documents", "report.pdf"))
	placedDup := mustStat(t, filepath.Join(dest, "Duplicates", "report.pdf"))
	if !os.SameFile(mustStat(t, first), placedFirst) {
		t.Fatal("first placement should link to its source")
	}
	if !os.SameFile(mustStat(t, second), placedDup) {
		t.Fatal("duplicate placement should link to the later source")
	}
	for _, op := range ops {
		if op.Action != manifest.ActionHardlink {
			t.Fatalf("expected hardlink actions, got %+v", ops)
		}
	}
}

func TestRunDateGrouping(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	path := filepath.Join(src, "report.pdf")
	writeFile(t, path, "pdf content")
	stamp := time.Date(2024, 6, 7, 12, 0, 0, 0, time.UTC)
	if err := os.Chtimes(path, stamp, stamp); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	rs := baseRules()
	rs.ByDate = rules.DateRule{Enabled: true, BaseFolder: "By Date", Group: rules.GroupMonth}

	run(t, rs, organize.Request{Source: src, Dest: dest})

	mustStat(t, filepath.Join(dest, "By Date", "2024", "06", "Documents", "report.pdf"))
}

func TestRunSizeBucketOutermost(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	path := filepath.Join(src, "report.pdf")
	writeFile(t, path, "small file")
	stamp := time.Date(2024, 6, 7, 12, 0, 0, 0, time.UTC)
	if err := os.Chtimes(path, stamp, stamp); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	max := 1.0
	rs := baseRules()
	rs.ByDate = rules.DateRule{Enabled: true, BaseFolder: "By Date", Group: rules.GroupYear}
	rs.SizeBuckets = []rules.SizeBucket{{MaxMB: &max, Folder: "Small"}, {Folder: "Large"}}

	run(t, rs, organize.Request{Source: src, Dest: dest})

	mustStat(t, filepath.Join(dest, "Small", "By Date", "2024", "Documents", "report.pdf"))
}

func TestRunExcludesHiddenAndConfiguredDirs(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	writeFile(t, filepath.Join(src, "visible.pdf"), "keep")
	writeFile(t, filepath.Join(src, ".secret.pdf"), "hidden file")
	writeFile(t, filepath.Join(src, ".git", "objects.pdf"), "in hidden dir")
	writeFile(t, filepath.Join(src, "node_modules", "lib.pdf"), "in excluded dir")
	writeFile(t, filepath.Join(src, "nested", "inner.pdf"), "nested keep")

	ops := run(t, baseRules(), organize.Request{Source: src, Dest: dest})

	if len(ops) != 2 {
		t.Fatalf("expected 2 operations, got %+v", ops)
	}
	mustStat(t, filepath.Join(dest, "Documents", "visible.pdf"))
	mustStat(t, filepath.Join(dest, "Documents", "inner.pdf"))
	mustStat(t, filepath.Join(src, ".secret.pdf"))
}

func TestRunIncludesHiddenWhenDisabled(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	writeFile(t, filepath.Join(src, ".secret.pdf"), "hidden file")

	rs := baseRules()
	rs.ExcludeHidden = false

	ops := run(t, rs, organize.Request{Source: src, Dest: dest})

	if len(ops) != 1 {
		t.Fatalf("expected hidden file to be processed, got %+v", ops)
	}
	mustStat(t, filepath.Join(dest, "Documents", ".secret.pdf"))
}

func TestRunMissingSource(t *testing.T) {
	_, err := organize.New(baseRules(), nil, nil).Run(context.Background(), organize.Request{
		Source: filepath.Join(t.TempDir(), "absent"),
		Dest:   t.TempDir(),
	})
	if !errors.Is(err, faults.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRunRejectsDestinationInsideSource(t *testing.T) {
	src := t.TempDir()
	_, err := organize.New(baseRules(), nil, nil).Run(context.Background(), organize.Request{
		Source: src,
		Dest:   filepath.Join(src, "sorted"),
	})
	if !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestRunRejectsDestinationEqualToSource(t *testing.T) {
	src := t.TempDir()
	_, err := organize.New(baseRules(), nil, nil).Run(context.Background(), organize.Request{
		Source: src,
		Dest:   src,
	})
	if !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestRunEmptySourceWritesEmptyManifest(t *testing.T) {
	manifestPath := filepath.Join(t.TempDir(), "undo.json")

	ops := run(t, baseRules(), organize.Request{
		Source:       t.TempDir(),
		Dest:         t.TempDir(),
		ManifestPath: manifestPath,
	})

	if len(ops) != 0 {
		t.Fatalf("expected no operations, got %+v", ops)
	}
	doc, err := manifest.Load(manifestPath)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	if len(doc.Operations) != 0 {
		t.Fatalf("expected empty journal, got %+v", doc.Operations)
	}
}

func TestRunEmitsEvents(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	writeFile(t, filepath.Join(src, "report.pdf"), "pdf content")
	manifestPath := filepath.Join(t.TempDir(), "undo.json")

	var kinds []events.Kind
	sink := events.SinkFunc(func(ev events.Event) { kinds = append(kinds, ev.Kind) })

	_, err := organize.New(baseRules(), nil, sink).Run(context.Background(), organize.Request{
		Source:       src,
		Dest:         dest,
		ManifestPath: manifestPath,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(kinds) != 2 || kinds[0] != events.KindPlaced || kinds[1] != events.KindManifestWritten {
		t.Fatalf("unexpected event sequence: %v", kinds)
	}
}

func TestParseMode(t *testing.T) {
	for raw, want := range map[string]organize.Mode{
		"":         organize.ModeMove,
		"move":     organize.ModeMove,
		"copy":     organize.ModeCopy,
		"hardlink": organize.ModeHardlink,
	} {
		got, err := organize.ParseMode(raw)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %q, %v", raw, got, err)
		}
	}

	if _, err := organize.ParseMode("symlink"); !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration for bad mode, got %v", err)
	}
}
