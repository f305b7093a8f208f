// Package history persists a ledger of past runs in SQLite. Each completed
// organize or undo run becomes one row with its roots, mode, action counts,
// and timing, so the CLI can answer "what did sortd do last week" without
// parsing logs. The ledger stores no per-file data; the undo manifest remains
// the only record of individual placements.
package history
