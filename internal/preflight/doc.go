// Package preflight provides readiness checks for the paths an organize
// run depends on: the trees being read and written, the rules file, the
// undo manifest, and the history ledger.
//
// The CLI "sortd doctor" command runs RunAll and renders one status line
// per result so a misconfigured run fails before any file moves. Checks
// without a configured path are skipped.
package preflight
