package rules

// Date grouping granularities.
const (
	GroupYear  = "year"
	GroupMonth = "month"
	GroupDay   = "day"
)

// Duplicate handling policies.
const (
	DuplicateSkip     = "skip"
	DuplicateSeparate = "separate"
	DuplicateHardlink = "hardlink"
)

const (
	defaultUnknownFolder    = "Others"
	defaultDateFolder       = "By Date"
	defaultDuplicatesFolder = "Duplicates"
)

// Ruleset is the complete rules document. Glob and MIME rules are ordered
// lists because their resolution is first-match-wins; a map would lose the
// declaration order.
type Ruleset struct {
	UnknownFolder string            `toml:"unknown_folder" json:"unknown_folder" yaml:"unknown_folder"`
	ExcludeDirs   []string          `toml:"exclude_dirs" json:"exclude_dirs" yaml:"exclude_dirs"`
	ExcludeHidden bool              `toml:"exclude_hidden" json:"exclude_hidden" yaml:"exclude_hidden"`
	ByExtension   map[string]string `toml:"by_extension" json:"by_extension" yaml:"by_extension"`
	ByGlob        []GlobRule        `toml:"by_glob" json:"by_glob" yaml:"by_glob"`
	ByMime        []MimeRule        `toml:"by_mime" json:"by_mime" yaml:"by_mime"`
	ByDate        DateRule          `toml:"by_date" json:"by_date" yaml:"by_date"`
	SizeBuckets   []SizeBucket      `toml:"size_buckets" json:"size_buckets" yaml:"size_buckets"`
	Duplicates    DuplicateRule     `toml:"duplicates" json:"duplicates" yaml:"duplicates"`
}

// GlobRule routes paths matching a shell pattern to a folder. Patterns with a
// slash match against the path relative to the source root; patterns without
// match against the base name only.
type GlobRule struct {
	Pattern string `toml:"pattern" json:"pattern" yaml:"pattern"`
	Folder  string `toml:"folder" json:"folder" yaml:"folder"`
}

// MimeRule routes files whose detected MIME type starts with Prefix.
type MimeRule struct {
	Prefix string `toml:"prefix" json:"prefix" yaml:"prefix"`
	Folder string `toml:"folder" json:"folder" yaml:"folder"`
}

// DateRule prepends modification-date folders ahead of the classification
// folder when enabled.
type DateRule struct {
	Enabled    bool   `toml:"enabled" json:"enabled" yaml:"enabled"`
	BaseFolder string `toml:"base_folder" json:"base_folder" yaml:"base_folder"`
	Group      string `toml:"group" json:"group" yaml:"group"`
}

// SizeBucket prepends Folder as the outermost segment for files up to MaxMB
// megabytes. A nil MaxMB makes the bucket a catch-all.
type SizeBucket struct {
	MaxMB  *float64 `toml:"max_mb" json:"max_mb" yaml:"max_mb"`
	Folder string   `toml:"folder" json:"folder" yaml:"folder"`
}

// DuplicateRule chooses what happens when a file's content digest was already
// seen earlier in the run.
type DuplicateRule struct {
	Action string `toml:"action" json:"action" yaml:"action"`
	Folder string `toml:"folder" json:"folder" yaml:"folder"`
}

// Default returns the rules used when no document is supplied.
func Default() Ruleset {
	return Ruleset{
		UnknownFolder: defaultUnknownFolder,
		ExcludeDirs:   []string{".git", "__pycache__", "node_modules"},
		ExcludeHidden: true,
		ByDate: DateRule{
			BaseFolder: defaultDateFolder,
			Group:      GroupMonth,
		},
		Duplicates: DuplicateRule{
			Action: DuplicateSeparate,
			Folder: defaultDuplicatesFolder,
		},
	}
}
