package planwire

import "github.com/vanderheijden86/beadwork/pkg/model"

// PlanPath is the wire shape of model.PlanPath, with StringSet fields
// rendered as sorted slices for stable, diffable JSON output.
type PlanPath struct {
	TaskIDs        []string `json:"task_ids"`
	TotalHours     int      `json:"total_hours"`
	GoalsCompleted []string `json:"goals_completed"`
	GoalsPartial   []string `json:"goals_partial"`
	SpeedScore     float64  `json:"speed_score"`
	CoverageScore  float64  `json:"coverage_score"`
	UrgencyScore   float64  `json:"urgency_score"`
}

func encodePath(p model.PlanPath) PlanPath {
	return PlanPath{
		TaskIDs:        p.TaskIDs,
		TotalHours:     p.TotalHours,
		GoalsCompleted: p.GoalsCompleted.Sorted(),
		GoalsPartial:   p.GoalsPartial.Sorted(),
		SpeedScore:     p.SpeedScore,
		CoverageScore:  p.CoverageScore,
		UrgencyScore:   p.UrgencyScore,
	}
}

// PlanResult is the wire shape of model.PlanResult.
type PlanResult struct {
	Pareto         []PlanPath `json:"pareto"`
	Recommended    *PlanPath  `json:"recommended"`
	ImmediateBatch []string   `json:"immediate_batch"`
	Explanation    string     `json:"explanation"`
}

// EncodeResult converts a model.PlanResult into its wire shape.
func EncodeResult(r model.PlanResult) PlanResult {
	pareto := make([]PlanPath, 0, len(r.Pareto))
	for _, p := range r.Pareto {
		pareto = append(pareto, encodePath(p))
	}
	out := PlanResult{
		Pareto:         pareto,
		ImmediateBatch: r.ImmediateBatch,
		Explanation:    r.Explanation,
	}
	if r.Recommended != nil {
		rec := encodePath(*r.Recommended)
		out.Recommended = &rec
	}
	return out
}

// ValueImpact is the wire shape of model.ValueImpact.
type ValueImpact struct {
	TaskID             string   `json:"task_id"`
	DirectBlockers     int      `json:"direct_blockers"`
	TransitiveBlockers []string `json:"transitive_blockers"`
	BlockedHours       int      `json:"blocked_hours"`
	BlockedGoals       []string `json:"blocked_goals"`
	Score              float64  `json:"score"`
}

// EncodeValueImpact converts a []model.ValueImpact into its wire shape.
func EncodeValueImpact(vs []model.ValueImpact) []ValueImpact {
	out := make([]ValueImpact, 0, len(vs))
	for _, v := range vs {
		out = append(out, ValueImpact{
			TaskID:             v.TaskID,
			DirectBlockers:     v.DirectBlockers,
			TransitiveBlockers: v.TransitiveBlockers.Sorted(),
			BlockedHours:       v.BlockedHours,
			BlockedGoals:       v.BlockedGoals.Sorted(),
			Score:              v.Score,
		})
	}
	return out
}

// SolverMatch is the wire shape of model.SolverMatch.
type SolverMatch struct {
	TaskID     string  `json:"task_id"`
	Solver     string  `json:"solver"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
	Fallback   string  `json:"fallback,omitempty"`
	Warning    string  `json:"warning,omitempty"`
}

// EncodeMatches converts the planner.Match result map into a
// deterministically ordered slice for JSON output.
func EncodeMatches(matches map[string]model.SolverMatch, order []string) []SolverMatch {
	out := make([]SolverMatch, 0, len(order))
	for _, id := range order {
		m, ok := matches[id]
		if !ok {
			continue
		}
		out = append(out, SolverMatch{
			TaskID:     m.TaskID,
			Solver:     m.Solver,
			Confidence: m.Confidence,
			Reason:     m.Reason,
			Fallback:   m.Fallback,
			Warning:    m.Warning,
		})
	}
	return out
}
