// Package rules loads and evaluates the classification rules that drive an
// organize run. A rules document may be TOML, JSON, or YAML; all three decode
// into the same Ruleset. Resolution is deterministic: extension lookup first,
// then glob patterns in declared order, then MIME prefixes in declared order,
// with unmatched files routed to the unknown folder. Date grouping and size
// buckets refine the folder after classification.
package rules
