package organize

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"sortd/internal/rules"
)

// walkFiles traverses root depth-first and invokes fn for every regular file
// that survives the exclusion rules. Excluded and hidden directories are
// pruned before descent; the root itself is never pruned. Symlinks are not
// followed: a link to a directory is skipped, a link to a file is processed
// through its target's metadata.
func walkFiles(root string, rs *rules.Ruleset, fn func(path string, info fs.FileInfo) error) error {
	excluded := make(map[string]struct{}, len(rs.ExcludeDirs))
	for _, name := range rs.ExcludeDirs {
		excluded[name] = struct{}{}
	}

	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := entry.Name()
		if entry.IsDir() {
			if path == root {
				return nil
			}
			if _, ok := excluded[name]; ok {
				return filepath.SkipDir
			}
			if rs.ExcludeHidden && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if rs.ExcludeHidden && strings.HasPrefix(name, ".") {
			return nil
		}
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if info.IsDir() {
			// Symlink to a directory; never descended.
			return nil
		}
		return fn(path, info)
	})
}
