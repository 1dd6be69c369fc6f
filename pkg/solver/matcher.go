package solver

import (
	"fmt"
	"strings"

	"github.com/vanderheijden86/beadwork/pkg/model"
)

// solverTagPrefix marks the long form of an explicit-solver tag, e.g.
// "#solver:codex" or "#solver=codex" (either separator is accepted). The
// short form, a bare "#<name>" (e.g. "#jules"), is also recognized by
// parseSolverTag (§4.9 rule 1's "Label/tag-derived capability hints").
const solverTagPrefix = "solver"

// Matcher binds a Registry and Calibrator together to decide, per task,
// which solver should run it (C9, §4.9).
type Matcher struct {
	reg *Registry
	cal *Calibrator
	rl  model.RateLimitView
}

// NewMatcher builds a Matcher. cal may be nil, in which case every
// history_score defaults as if the solver had no calibration data
// (ratio 1.0).
func NewMatcher(reg *Registry, cal *Calibrator, rl model.RateLimitView) *Matcher {
	if cal == nil {
		cal = NewCalibrator(nil)
	}
	return &Matcher{reg: reg, cal: cal, rl: rl}
}

// Match decides the solver for one task, applying the §4.9 four-rule
// decision chain in order. requireAvailable gates rules 1-3 on live
// availability, per §6's match(..., require_available=true) default;
// callers that want a match regardless of rate-limit state pass false.
func (m *Matcher) Match(t model.Task, nowUnixMs int64, requireAvailable bool) (out model.SolverMatch) {
	defer func() {
		if out.Solver == "" || m.rl == nil {
			return
		}
		if avail := m.reg.Check(out.Solver, m.rl, nowUnixMs); strings.HasPrefix(avail.Reason, "assuming available") {
			out.Reason += "; " + avail.Reason
			out.Warning = joinWarnings(out.Warning, avail.Reason)
		}
	}()

	name, ok, warning := m.explicitTagMatch(t, nowUnixMs, requireAvailable)
	if ok {
		return model.SolverMatch{
			TaskID:     t.ID,
			Solver:     name,
			Confidence: 1.0,
			Reason:     fmt.Sprintf("explicit #solver tag selected %q", name),
			Warning:    warning,
		}
	}

	if rname, rok := m.regexMatch(t, nowUnixMs, requireAvailable); rok {
		return model.SolverMatch{
			TaskID:     t.ID,
			Solver:     rname,
			Confidence: 0.9,
			Reason:     fmt.Sprintf("summary matched %q's regex", rname),
			Warning:    warning,
		}
	}

	if match, cok := m.capabilityScoreMatch(t, nowUnixMs, requireAvailable); cok {
		match.Warning = joinWarnings(warning, match.Warning)
		return match
	}

	fb := m.fallbackMatch(t)
	fb.Warning = joinWarnings(warning, fb.Warning)
	return fb
}

func joinWarnings(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	return a + "; " + b
}

// explicitTagMatch implements §4.9 rule 1. When a task carries a
// #solver tag naming a solver absent from the registry, that is the
// UnknownSolver condition (§7): matching falls through to the next rule
// rather than failing, but the skip is surfaced as a warning.
func (m *Matcher) explicitTagMatch(t model.Task, nowUnixMs int64, requireAvailable bool) (string, bool, string) {
	warning := ""
	for _, tag := range t.Tags {
		name, ok := parseSolverTag(tag)
		if !ok {
			continue
		}
		if _, known := m.reg.Get(name); !known {
			for _, c := range m.reg.All() {
				if strings.EqualFold(c.Name, name) {
					name = c.Name
					break
				}
			}
		}
		if _, known := m.reg.Get(name); !known {
			if warning == "" {
				warning = fmt.Sprintf("unknown solver tagged: %q not in registry", name)
			}
			continue
		}
		if requireAvailable && !m.reg.Check(name, m.rl, nowUnixMs).Available {
			continue
		}
		return name, true, warning
	}
	return "", false, warning
}

// parseSolverTag recognizes both forms of an explicit-solver tag: the
// long form "#solver:<name>"/"#solver=<name>", and the bare short form
// "#<name>" where name is taken as-is (e.g. "#jules").
func parseSolverTag(tag string) (string, bool) {
	if !strings.HasPrefix(tag, "#") {
		return "", false
	}
	rest := tag[1:]
	if strings.HasPrefix(strings.ToLower(rest), solverTagPrefix) {
		rest = rest[len(solverTagPrefix):]
		rest = strings.TrimLeft(rest, ":=")
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return "", false
	}
	return rest, true
}

func (m *Matcher) regexMatch(t model.Task, nowUnixMs int64, requireAvailable bool) (string, bool) {
	for _, c := range m.reg.All() {
		if c.SummaryRegex == nil {
			continue
		}
		if !c.SummaryRegex.MatchString(t.Summary) {
			continue
		}
		if requireAvailable && !m.reg.Check(c.Name, m.rl, nowUnixMs).Available {
			continue
		}
		return c.Name, true
	}
	return "", false
}

// EstimateComplexity implements §4.9 rule 3's complexity formula.
func EstimateComplexity(t model.Task) int {
	hours := t.EstimateOrDefault()
	var c int
	switch {
	case hours <= 1:
		c = 2
	case hours <= 4:
		c = 4
	case hours <= 8:
		c = 6
	case hours <= 16:
		c = 8
	default:
		c = 10
	}

	nFiles := len(t.AffectedFiles)
	if nFiles > 5 {
		c += 2
	} else if nFiles > 2 {
		c += 1
	}

	switch t.Priority {
	case model.PriorityShowStopper:
		c += 2
	case model.PriorityCritical:
		c += 1
	case model.PriorityMinor:
		c -= 1
	}

	if c < 1 {
		c = 1
	}
	if c > 10 {
		c = 10
	}
	return c
}

func (m *Matcher) capabilityScoreMatch(t model.Task, nowUnixMs int64, requireAvailable bool) (model.SolverMatch, bool) {
	complexity := EstimateComplexity(t)

	type scored struct {
		name  string
		score float64
	}
	var survivors []scored

	for _, c := range m.reg.All() {
		if c.MaxComplexity < complexity {
			continue
		}
		if requireAvailable && !m.reg.Check(c.Name, m.rl, nowUnixMs).Available {
			continue
		}
		survivors = append(survivors, scored{name: c.Name, score: m.capabilityScore(c, t, complexity)})
	}

	if len(survivors) == 0 {
		return model.SolverMatch{}, false
	}

	best := survivors[0]
	for _, s := range survivors[1:] {
		if s.score > best.score || (s.score == best.score && s.name < best.name) {
			best = s
		}
	}

	fallbackName := ""
	fallbackScore := 0.0
	for _, s := range survivors {
		if s.name == best.name {
			continue
		}
		if fallbackName == "" || s.score > fallbackScore || (s.score == fallbackScore && s.name < fallbackName) {
			fallbackName, fallbackScore = s.name, s.score
		}
	}

	return model.SolverMatch{
		TaskID:     t.ID,
		Solver:     best.name,
		Confidence: clamp01(best.score),
		Reason:     fmt.Sprintf("capability score %.2f at complexity %d", best.score, complexity),
		Fallback:   fallbackName,
	}, true
}

func (m *Matcher) capabilityScore(c model.SolverCapability, t model.Task, complexity int) float64 {
	capabilityFit := 0.0
	for _, ext := range c.SupportedFileExt {
		if hasMatchingExt(t.AffectedFiles, ext) {
			capabilityFit = 0.4
			break
		}
	}

	ratio := m.cal.Ratio(c.Name)
	historyScore := historyScoreFromRatio(ratio)

	complexityFit := 1 - absFloat(float64(c.MaxComplexity-complexity))/10

	return 0.3*capabilityFit + 0.4*historyScore + 0.3*complexityFit
}

func hasMatchingExt(files []string, ext string) bool {
	for _, f := range files {
		if strings.HasSuffix(f, ext) {
			return true
		}
	}
	return false
}

func historyScoreFromRatio(ratio float64) float64 {
	if ratio <= 1.0 {
		return clamp(0.8+0.2*(1-ratio), 0.8, 1.0)
	}
	v := 0.8 - 0.3*(ratio-1)
	if v < 0.3 {
		v = 0.3
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 { return clamp(v, 0, 1) }

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func (m *Matcher) fallbackMatch(t model.Task) model.SolverMatch {
	best, ok := m.reg.MostCapable()
	if !ok {
		return model.SolverMatch{
			TaskID:     t.ID,
			Confidence: 0,
			Reason:     "no solvers registered",
			Warning:    "unknown solver: registry is empty",
		}
	}
	return model.SolverMatch{
		TaskID:     t.ID,
		Solver:     best.Name,
		Confidence: 0.3,
		Reason:     "fallback: no capable solver survived filtering",
	}
}
