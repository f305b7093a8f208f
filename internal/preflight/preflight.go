package preflight

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Paths names the locations a run would touch. Empty fields skip their
// checks; the ruleset is always checked because loading falls back to
// built-in defaults rather than failing.
type Paths struct {
	Source   string
	Dest     string
	Rules    string
	Manifest string
	History  string
}

// RunAll executes all applicable checks for the given paths.
func RunAll(paths Paths) []Result {
	var results []Result

	if paths.Source != "" {
		results = append(results, CheckSource(paths.Source))
	}
	if paths.Dest != "" {
		results = append(results, CheckDestination(paths.Source, paths.Dest))
	}

	results = append(results, CheckRules(paths.Rules))

	if paths.Manifest != "" {
		results = append(results, CheckManifest(paths.Manifest))
	}
	if paths.History != "" {
		results = append(results, CheckHistory(paths.History))
	}

	return results
}
