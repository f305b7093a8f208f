// Package organize walks a source tree and places every regular file into a
// rule-derived location under a destination tree. Runs are sequential and
// deterministic: files are visited in walk order, duplicate detection runs
// against content digests seen earlier in the same run, and name conflicts
// resolve by counting up a numeric suffix. A live run reports the applied
// operations for the undo journal; a dry run reports the same decisions
// without touching the filesystem.
package organize
