package organize

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"sortd/internal/faults"
)

// validateRoots resolves both trees to absolute paths and rejects requests
// the engine cannot run safely: a missing source, or a destination equal to
// or nested inside the source, which would make the walk chase its own
// output. Symlinked roots are resolved so the nesting check compares real
// locations.
func validateRoots(source, dest string) (string, string, error) {
	srcAbs, err := filepath.Abs(source)
	if err != nil {
		return "", "", faults.Wrap(faults.ErrConfiguration, "organizing", "resolve source", source, err)
	}
	info, err := os.Stat(srcAbs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", "", faults.Wrap(faults.ErrNotFound, "organizing", "validate source",
				fmt.Sprintf("Source directory not found: %s", source), err)
		}
		return "", "", faults.Wrap(faults.ErrIO, "organizing", "validate source", source, err)
	}
	if !info.IsDir() {
		return "", "", faults.Wrap(faults.ErrConfiguration, "organizing", "validate source",
			fmt.Sprintf("Source is not a directory: %s", source), nil)
	}

	destAbs, err := filepath.Abs(dest)
	if err != nil {
		return "", "", faults.Wrap(faults.ErrConfiguration, "organizing", "resolve destination", dest, err)
	}

	srcReal := resolveExisting(srcAbs)
	destReal := resolveExisting(destAbs)
	if destReal == srcReal {
		return "", "", faults.Wrap(faults.ErrConfiguration, "organizing", "validate destination",
			"Destination must differ from source", nil)
	}
	if within(destReal, srcReal) {
		return "", "", faults.Wrap(faults.ErrConfiguration, "organizing", "validate destination",
			fmt.Sprintf("Destination %s is inside the source tree %s", dest, source), nil)
	}

	return srcAbs, destAbs, nil
}

// resolveExisting follows symlinks for the longest existing prefix of path.
// The destination may not exist yet, so unresolvable paths pass through.
func resolveExisting(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	dir, base := filepath.Split(filepath.Clean(path))
	if dir == "" || dir == path {
		return path
	}
	return filepath.Join(resolveExisting(filepath.Clean(dir)), base)
}

// within reports whether child lies strictly inside parent.
func within(child, parent string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	if rel == "." || rel == ".." {
		return false
	}
	return !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
