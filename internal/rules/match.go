package rules

import (
	"mime"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ClassificationFolder resolves the primary folder for a file given its path
// relative to the source root. ok reports whether any rule matched; a match
// may still carry an empty folder, which callers route to the unknown folder.
func (r *Ruleset) ClassificationFolder(relPath string) (folder string, ok bool) {
	name := filepath.Base(relPath)

	if ext := normalizedExt(name); ext != "" {
		if folder, ok := r.ByExtension[ext]; ok {
			return folder, true
		}
	}

	for _, rule := range r.ByGlob {
		if matchGlob(rule.Pattern, relPath, name) {
			return rule.Folder, true
		}
	}

	if mtype := mime.TypeByExtension(filepath.Ext(name)); mtype != "" {
		for _, rule := range r.ByMime {
			if rule.Prefix != "" && strings.HasPrefix(mtype, rule.Prefix) {
				return rule.Folder, true
			}
		}
	}

	return "", false
}

// matchGlob applies the pattern dialect: patterns containing a separator test
// the relative path, bare patterns test the file name. Invalid patterns never
// match.
func matchGlob(pattern, relPath, name string) bool {
	if pattern == "" {
		return false
	}
	target := name
	if strings.ContainsRune(pattern, '/') {
		target = filepath.ToSlash(relPath)
	}
	ok, err := filepath.Match(pattern, target)
	return err == nil && ok
}

// SizeBucketFolder returns the folder of the first declared bucket that fits
// the byte size. Buckets without a max catch everything; buckets without a
// folder are ignored.
func (r *Ruleset) SizeBucketFolder(sizeBytes int64) (string, bool) {
	if len(r.SizeBuckets) == 0 {
		return "", false
	}
	megabytes := float64(sizeBytes) / (1 << 20)
	for _, bucket := range r.SizeBuckets {
		if bucket.Folder == "" {
			continue
		}
		if bucket.MaxMB == nil || megabytes <= *bucket.MaxMB {
			return bucket.Folder, true
		}
	}
	return "", false
}

// DateSegments returns the folder chain for a modification time: the base
// folder, then the year, then month and day according to the grouping.
func (r *Ruleset) DateSegments(t time.Time) []string {
	segments := []string{r.ByDate.BaseFolder, strconv.Itoa(t.Year())}
	switch r.ByDate.Group {
	case GroupYear:
	case GroupDay:
		segments = append(segments, pad2(int(t.Month())), pad2(t.Day()))
	default:
		segments = append(segments, pad2(int(t.Month())))
	}
	return segments
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// normalizedExt returns the lowercase extension of name including the dot.
// Names that are nothing but an extension, like dotfiles, have none.
func normalizedExt(name string) string {
	ext := filepath.Ext(name)
	if ext == name {
		return ""
	}
	return strings.ToLower(ext)
}
