package rules

import (
	"fmt"
	"strings"

	"sortd/internal/faults"
)

// normalize canonicalizes user-supplied values before validation: extension
// keys gain a leading dot and lose case, and empty enum fields fall back to
// their defaults.
func (r *Ruleset) normalize() {
	if len(r.ByExtension) > 0 {
		normalized := make(map[string]string, len(r.ByExtension))
		for ext, folder := range r.ByExtension {
			key := strings.ToLower(strings.TrimSpace(ext))
			if key == "" {
				continue
			}
			if !strings.HasPrefix(key, ".") {
				key = "." + key
			}
			normalized[key] = folder
		}
		r.ByExtension = normalized
	}

	if r.ByDate.Group == "" {
		r.ByDate.Group = GroupMonth
	}
	if r.ByDate.BaseFolder == "" {
		r.ByDate.BaseFolder = defaultDateFolder
	}
	if r.Duplicates.Action == "" {
		r.Duplicates.Action = DuplicateSeparate
	}
	if r.Duplicates.Folder == "" {
		r.Duplicates.Folder = defaultDuplicatesFolder
	}
}

// Validate rejects documents whose enum fields name unknown values.
func (r *Ruleset) Validate() error {
	switch r.ByDate.Group {
	case GroupYear, GroupMonth, GroupDay:
	default:
		return faults.Wrap(faults.ErrConfiguration, "rules", "validate document",
			fmt.Sprintf("by_date.group must be year, month, or day (got %q)", r.ByDate.Group), nil)
	}
	switch r.Duplicates.Action {
	case DuplicateSkip, DuplicateSeparate, DuplicateHardlink:
	default:
		return faults.Wrap(faults.ErrConfiguration, "rules", "validate document",
			fmt.Sprintf("duplicates.action must be skip, separate, or hardlink (got %q)", r.Duplicates.Action), nil)
	}
	return nil
}
