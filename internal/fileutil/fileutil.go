// Package fileutil provides the filesystem primitives shared by the organize
// and undo engines: metadata-preserving copies, cross-device moves, content
// fingerprints, and conflict-free naming.
package fileutil

import (
	"errors"
	"io"
	"os"
	"syscall"
)

// EnsureDir creates dir and any missing parents.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// CopyPreserving streams src to dst and carries over the file mode and
// modification time. dst is truncated if it already exists.
func CopyPreserving(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	// OpenFile permissions pass through the umask; chmod sets the exact mode.
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// Move renames src to dst, falling back to a preserving copy plus remove when
// the rename crosses filesystems.
func Move(src, dst string) error {
	renameErr := os.Rename(src, dst)
	if renameErr == nil {
		return nil
	}
	var linkErr *os.LinkError
	if errors.As(renameErr, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV) {
		if err := CopyPreserving(src, dst); err != nil {
			return err
		}
		return os.Remove(src)
	}
	return renameErr
}
