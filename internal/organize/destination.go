package organize

import (
	"io/fs"
	"path/filepath"

	"sortd/internal/rules"
)

// destinationFor assembles the candidate destination path for one file:
// classification folder innermost, date segments ahead of it when enabled,
// size bucket outermost, file name unchanged at the end. Conflict resolution
// happens later, at placement time.
func destinationFor(rs *rules.Ruleset, path, srcRoot, destRoot string, info fs.FileInfo) string {
	rel, err := filepath.Rel(srcRoot, path)
	if err != nil {
		rel = filepath.Base(path)
	}

	folder, matched := rs.ClassificationFolder(rel)
	if !matched || folder == "" {
		folder = rs.UnknownFolder
	}

	segments := []string{folder}
	if rs.ByDate.Enabled {
		segments = append(rs.DateSegments(info.ModTime()), segments...)
	}
	if bucket, ok := rs.SizeBucketFolder(info.Size()); ok {
		segments = append([]string{bucket}, segments...)
	}

	parts := append([]string{destRoot}, segments...)
	parts = append(parts, filepath.Base(path))
	return filepath.Join(parts...)
}
