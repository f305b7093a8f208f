package preflight

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"sortd/internal/history"
	"sortd/internal/rules"
)

// CheckSource verifies that the source tree exists and can be walked.
func CheckSource(path string) Result {
	const name = "Source directory"
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (readable)", path)}
}

// CheckDestination verifies that files can be placed under dest. The
// directory itself may not exist yet; then its nearest existing ancestor
// must be writable so the run can create it. A destination equal to or
// nested inside the source is rejected outright.
func CheckDestination(source, dest string) Result {
	const name = "Destination directory"
	destAbs, err := filepath.Abs(dest)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", dest, err)}
	}
	if source != "" {
		if srcAbs, err := filepath.Abs(source); err == nil {
			if destAbs == srcAbs {
				return Result{Name: name, Detail: fmt.Sprintf("%s (error: matches the source directory)", dest)}
			}
			if within(destAbs, srcAbs) {
				return Result{Name: name, Detail: fmt.Sprintf("%s (error: inside the source tree)", dest)}
			}
		}
	}

	info, err := os.Stat(destAbs)
	switch {
	case err == nil:
		if !info.IsDir() {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", dest)}
		}
		if err := unix.Access(destAbs, unix.W_OK|unix.X_OK); err != nil {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", dest, err)}
		}
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (writable)", dest)}
	case errors.Is(err, fs.ErrNotExist):
		ancestor := nearestExisting(destAbs)
		if accessErr := unix.Access(ancestor, unix.W_OK|unix.X_OK); accessErr != nil {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create under %s: %v)", dest, ancestor, accessErr)}
		}
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", dest)}
	default:
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", dest, err)}
	}
}

// CheckRules loads the ruleset the run would use and reports where it
// came from.
func CheckRules(path string) Result {
	const name = "Rules"
	_, resolved, exists, err := rules.Load(path)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if !exists {
		return Result{Name: name, Passed: true, Detail: "built-in defaults (no rules file found)"}
	}
	return Result{Name: name, Passed: true, Detail: resolved}
}

// CheckManifest verifies that the undo manifest can be written at path.
func CheckManifest(path string) Result {
	const name = "Undo manifest"
	abs, err := filepath.Abs(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if info, err := os.Stat(abs); err == nil {
		if info.IsDir() {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
		}
		if err := unix.Access(filepath.Dir(abs), unix.W_OK|unix.X_OK); err != nil {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
		}
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (exists, the next run overwrites it)", path)}
	}
	ancestor := nearestExisting(filepath.Dir(abs))
	if err := unix.Access(ancestor, unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create under %s: %v)", path, ancestor, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
}

// CheckHistory opens the run ledger to prove the database is usable.
func CheckHistory(path string) Result {
	const name = "History database"
	store, err := history.Open(path)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if err := store.Close(); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: close: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// nearestExisting climbs toward the filesystem root until it finds a
// path that exists.
func nearestExisting(path string) string {
	for {
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(path)
		if parent == path {
			return path
		}
		path = parent
	}
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
