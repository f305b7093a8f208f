package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// NextAvailablePath returns path if nothing occupies it, otherwise the first
// free sibling named stem(N)ext counting up from 1: report.pdf, report(1).pdf,
// report(2).pdf. Any stat result counts as occupied, including dangling
// symlinks.
func NextAvailablePath(path string) string {
	if !exists(path) {
		return path
	}
	stem, ext := splitExt(path)
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s(%d)%s", stem, n, ext)
		if !exists(candidate) {
			return candidate
		}
	}
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// splitExt splits path into everything before the final extension and the
// extension itself. Dotfiles such as .bashrc have no extension, so counters
// land after the name: .bashrc(1).
func splitExt(path string) (stem, ext string) {
	base := filepath.Base(path)
	ext = filepath.Ext(base)
	if ext == base {
		ext = ""
	}
	return strings.TrimSuffix(path, ext), ext
}
