// Package solver implements the Solver Registry & Availability (C7), the
// History Calibrator (C8), and the Solver Matcher (C9). Its layered
// structure — a read-only registry, a size-tiered calibration pass, and
// a rule-chain matcher — follows the teacher's pkg/analysis/config.go
// (env-overridable, size-tiered defaults) and priority.go (weighted
// composite scoring with explicit breakdown) conventions.
package solver

import (
	"regexp"
	"sort"

	"github.com/vanderheijden86/beadwork/pkg/model"
)

// Registry is a process-wide, read-only mapping of solver name to
// capability, constructed once (§3, §5).
type Registry struct {
	byName map[string]model.SolverCapability
	names  []string // insertion order, for deterministic iteration
}

// NewRegistry builds a registry from the given capabilities. Later
// entries with a duplicate name overwrite earlier ones but keep the
// earlier entry's position in iteration order.
func NewRegistry(caps []model.SolverCapability) *Registry {
	r := &Registry{byName: make(map[string]model.SolverCapability, len(caps))}
	for _, c := range caps {
		if _, exists := r.byName[c.Name]; !exists {
			r.names = append(r.names, c.Name)
		}
		r.byName[c.Name] = c
	}
	return r
}

// Get returns the named solver's capability, if registered.
func (r *Registry) Get(name string) (model.SolverCapability, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// All returns every registered capability, sorted by name for
// deterministic output.
func (r *Registry) All() []model.SolverCapability {
	out := make([]model.SolverCapability, 0, len(r.byName))
	for _, name := range r.names {
		out = append(out, r.byName[name])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// MostCapable returns the registered solver with the highest
// MaxComplexity, ties broken by name ascending — used by the §4.9 rule 4
// fallback.
func (r *Registry) MostCapable() (model.SolverCapability, bool) {
	all := r.All()
	if len(all) == 0 {
		return model.SolverCapability{}, false
	}
	best := all[0]
	for _, c := range all[1:] {
		if c.MaxComplexity > best.MaxComplexity {
			best = c
		}
	}
	return best, true
}

// CompileSummaryRegex compiles pattern as a case-insensitive regular
// expression, matching §4.9 rule 2's "matches case-insensitively"
// requirement without requiring every caller to remember the (?i) flag.
func CompileSummaryRegex(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("(?i)" + pattern)
}
