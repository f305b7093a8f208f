package rules_test

import (
	"testing"
	"time"

	"sortd/internal/rules"
)

func floatPtr(v float64) *float64 { return &v }

func TestClassificationFolderExtensionWinsOverGlob(t *testing.T) {
	rs := rules.Ruleset{
		ByExtension: map[string]string{".pdf": "Documents"},
		ByGlob:      []rules.GlobRule{{Pattern: "*.pdf", Folder: "Globbed"}},
	}

	folder, ok := rs.ClassificationFolder("report.pdf")
	if !ok || folder != "Documents" {
		t.Fatalf("expected extension match, got %q ok=%v", folder, ok)
	}
}

func TestClassificationFolderExtensionIsCaseInsensitive(t *testing.T) {
	rs := rules.Ruleset{ByExtension: map[string]string{".jpg": "Images"}}

	folder, ok := rs.ClassificationFolder("HOLIDAY.JPG")
	if !ok || folder != "Images" {
		t.Fatalf("expected case-insensitive extension match, got %q ok=%v", folder, ok)
	}
}

func TestClassificationFolderGlobDeclarationOrder(t *testing.T) {
	rs := rules.Ruleset{
		ByGlob: []rules.GlobRule{
			{Pattern: "IMG_*", Folder: "Camera"},
			{Pattern: "*", Folder: "Catch All"},
		},
	}

	folder, ok := rs.ClassificationFolder("IMG_0001.raw")
	if !ok || folder != "Camera" {
		t.Fatalf("expected first glob to win, got %q ok=%v", folder, ok)
	}
	folder, ok = rs.ClassificationFolder("notes.raw")
	if !ok || folder != "Catch All" {
		t.Fatalf("expected fallthrough to second glob, got %q ok=%v", folder, ok)
	}
}

func TestClassificationFolderGlobWithSlashMatchesRelativePath(t *testing.T) {
	rs := rules.Ruleset{
		ByGlob: []rules.GlobRule{{Pattern: "invoices/*.csv", Folder: "Finance"}},
	}

	if folder, ok := rs.ClassificationFolder("invoices/march.csv"); !ok || folder != "Finance" {
		t.Fatalf("expected relative path match, got %q ok=%v", folder, ok)
	}
	if _, ok := rs.ClassificationFolder("reports/march.csv"); ok {
		t.Fatal("pattern should not match a different parent directory")
	}
	if _, ok := rs.ClassificationFolder("march.csv"); ok {
		t.Fatal("pattern with slash should not match a bare name")
	}
}

func TestClassificationFolderMimePrefix(t *testing.T) {
	rs := rules.Ruleset{
		ByMime: []rules.MimeRule{
			{Prefix: "image/", Folder: "Images"},
			{Prefix: "application/pdf", Folder: "Documents"},
		},
	}

	if folder, ok := rs.ClassificationFolder("photo.png"); !ok || folder != "Images" {
		t.Fatalf("expected image MIME match, got %q ok=%v", folder, ok)
	}
	if folder, ok := rs.ClassificationFolder("paper.pdf"); !ok || folder != "Documents" {
		t.Fatalf("expected pdf MIME match, got %q ok=%v", folder, ok)
	}
}

func TestClassificationFolderNoMatch(t *testing.T) {
	rs := rules.Ruleset{ByExtension: map[string]string{".pdf": "Documents"}}

	if folder, ok := rs.ClassificationFolder("data.xyzzy"); ok {
		t.Fatalf("expected no match, got %q", folder)
	}
}

func TestClassificationFolderDotfileHasNoExtension(t *testing.T) {
	rs := rules.Ruleset{ByExtension: map[string]string{".bashrc": "Shell"}}

	if folder, ok := rs.ClassificationFolder(".bashrc"); ok {
		t.Fatalf("dotfile should not extension-match, got %q", folder)
	}
}

func TestSizeBucketFolderFirstFit(t *testing.T) {
	rs := rules.Ruleset{
		SizeBuckets: []rules.SizeBucket{
			{MaxMB: floatPtr(1.0), Folder: "Small"},
			{MaxMB: floatPtr(100.0), Folder: "Medium"},
			{Folder: "Large"},
		},
	}

	if folder, ok := rs.SizeBucketFolder(512 * 1024); !ok || folder != "Small" {
		t.Fatalf("expected Small for 512KiB, got %q ok=%v", folder, ok)
	}
	if folder, ok := rs.SizeBucketFolder(50 << 20); !ok || folder != "Medium" {
		t.Fatalf("expected Medium for 50MiB, got %q ok=%v", folder, ok)
	}
	if folder, ok := rs.SizeBucketFolder(2 << 30); !ok || folder != "Large" {
		t.Fatalf("expected Large catch-all, got %q ok=%v", folder, ok)
	}
}

func TestSizeBucketFolderBoundaryInclusive(t *testing.T) {
	rs := rules.Ruleset{
		SizeBuckets: []rules.SizeBucket{{MaxMB: floatPtr(1.0), Folder: "Small"}},
	}

	if folder, ok := rs.SizeBucketFolder(1 << 20); !ok || folder != "Small" {
		t.Fatalf("exactly 1MiB should fit a 1.0 bucket, got %q ok=%v", folder, ok)
	}
	if _, ok := rs.SizeBucketFolder(1<<20 + 1); ok {
		t.Fatal("one byte over the max should not fit")
	}
}

func TestSizeBucketFolderZeroMaxMatchesOnlyEmptyFiles(t *testing.T) {
	rs := rules.Ruleset{
		SizeBuckets: []rules.SizeBucket{
			{MaxMB: floatPtr(0), Folder: "Empty"},
			{Folder: "Rest"},
		},
	}

	if folder, ok := rs.SizeBucketFolder(0); !ok || folder != "Empty" {
		t.Fatalf("zero-byte file should fit the zero bucket, got %q ok=%v", folder, ok)
	}
	if folder, ok := rs.SizeBucketFolder(1); !ok || folder != "Rest" {
		t.Fatalf("one-byte file should fall through, got %q ok=%v", folder, ok)
	}
}

func TestSizeBucketFolderSkipsFolderlessBuckets(t *testing.T) {
	rs := rules.Ruleset{
		SizeBuckets: []rules.SizeBucket{
			{MaxMB: floatPtr(10.0)},
			{Folder: "Fallback"},
		},
	}

	if folder, ok := rs.SizeBucketFolder(1024); !ok || folder != "Fallback" {
		t.Fatalf("folderless bucket should be skipped, got %q ok=%v", folder, ok)
	}
}

func TestSizeBucketFolderNoBuckets(t *testing.T) {
	rs := rules.Ruleset{}
	if _, ok := rs.SizeBucketFolder(1024); ok {
		t.Fatal("no buckets configured should never match")
	}
}

func TestDateSegments(t *testing.T) {
	stamp := time.Date(2024, 6, 7, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		group string
		want  []string
	}{
		{rules.GroupYear, []string{"By Date", "2024"}},
		{rules.GroupMonth, []string{"By Date", "2024", "06"}},
		{rules.GroupDay, []string{"By Date", "2024", "06", "07"}},
	}
	for _, tc := range cases {
		rs := rules.Ruleset{ByDate: rules.DateRule{Enabled: true, BaseFolder: "By Date", Group: tc.group}}
		got := rs.DateSegments(stamp)
		if len(got) != len(tc.want) {
			t.Fatalf("group %s: expected %v, got %v", tc.group, tc.want, got)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("group %s: expected %v, got %v", tc.group, tc.want, got)
			}
		}
	}
}
