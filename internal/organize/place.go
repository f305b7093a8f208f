package organize

import (
	"os"
	"path/filepath"

	"sortd/internal/fileutil"
	"sortd/internal/manifest"
)

// place puts src at the candidate destination, resolving the conflict-free
// name immediately before acting and creating missing parents. It returns
// the action that actually happened and the final path: hardlinks degrade to
// a preserving copy when the filesystem refuses the link, and cross-device
// moves complete as copy plus remove while still reporting a move.
func place(src, candidate string, mode Mode) (manifest.Action, string, error) {
	final := fileutil.NextAvailablePath(candidate)
	if err := fileutil.EnsureDir(filepath.Dir(final)); err != nil {
		return "", "", err
	}

	switch mode {
	case ModeCopy:
		if err := fileutil.CopyPreserving(src, final); err != nil {
			return "", "", err
		}
		return manifest.ActionCopy, final, nil
	case ModeHardlink:
		if err := os.Link(src, final); err != nil {
			if copyErr := fileutil.CopyPreserving(src, final); copyErr != nil {
				return "", "", copyErr
			}
			return manifest.ActionCopy, final, nil
		}
		return manifest.ActionHardlink, final, nil
	default:
		if err := fileutil.Move(src, final); err != nil {
			return "", "", err
		}
		return manifest.ActionMove, final, nil
	}
}
