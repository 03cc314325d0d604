package convention

import "strings"

// Signals is the subset of a repository scan that rule conditions test.
type Signals struct {
	Tooling    []string
	Testing    []string
	Frameworks []string
	Languages  []string
	Routing    string
	Structure  map[string]bool
}

// Matches reports whether every present predicate holds for sig.
func (c Condition) Matches(sig Signals) bool {
	if len(c.ToolingIncludes) > 0 && !includesAny(sig.Tooling, c.ToolingIncludes) {
		return false
	}
	if len(c.TestingIncludes) > 0 && !includesAny(sig.Testing, c.TestingIncludes) {
		return false
	}
	if len(c.FrameworksInclude) > 0 && !includesAny(sig.Frameworks, c.FrameworksInclude) {
		return false
	}
	if len(c.LanguagesInclude) > 0 && !includesAny(sig.Languages, c.LanguagesInclude) {
		return false
	}
	if len(c.RoutingIs) > 0 {
		routing := normalize(sig.Routing)
		if routing == "" || !includesAny([]string{routing}, c.RoutingIs) {
			return false
		}
	}
	for _, key := range c.StructureHas {
		if !sig.Structure[normalize(key)] {
			return false
		}
	}
	for _, key := range c.StructureMissing {
		if sig.Structure[normalize(key)] {
			return false
		}
	}
	return true
}

// Apply calls apply for every rule whose condition holds, in list order, and
// returns how many fired. Callers merge each Set over their accumulator so a
// later rule wins on shared fields.
func Apply(rules []Rule, sig Signals, apply func(Rule)) int {
	fired := 0
	for _, r := range rules {
		if !r.When.Matches(sig) {
			continue
		}
		apply(r)
		fired++
	}
	return fired
}

func includesAny(have, want []string) bool {
	if len(have) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(have))
	for _, h := range have {
		set[normalize(h)] = struct{}{}
	}
	for _, w := range want {
		if _, ok := set[normalize(w)]; ok {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
