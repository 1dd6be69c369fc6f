package model

// PlanPath is one dependency-respecting ordering of all tasks, with the
// aggregate metrics the Path Scorer computes over it (§3, §4.5).
type PlanPath struct {
	TaskIDs []string

	TotalHours int

	GoalsCompleted StringSet
	GoalsPartial   StringSet

	SpeedScore    float64
	CoverageScore float64
	UrgencyScore  float64
}

// WeightedSum returns the weighted combination used by the §4.5 argmax.
func (p PlanPath) WeightedSum(w Weights) float64 {
	return w.Speed*p.SpeedScore + w.Coverage*p.CoverageScore + w.Urgency*p.UrgencyScore
}

// Dominates reports whether p dominates other: p scores at least as well
// on every dimension and strictly better on at least one (§4.5).
func (p PlanPath) Dominates(other PlanPath) bool {
	ge := p.SpeedScore >= other.SpeedScore &&
		p.CoverageScore >= other.CoverageScore &&
		p.UrgencyScore >= other.UrgencyScore
	if !ge {
		return false
	}
	return p.SpeedScore > other.SpeedScore ||
		p.CoverageScore > other.CoverageScore ||
		p.UrgencyScore > other.UrgencyScore
}

// PlanResult is the output of a planning call (§3, §7).
type PlanResult struct {
	Pareto         []PlanPath
	Recommended    *PlanPath
	ImmediateBatch []string
	Explanation    string
}

// ValueImpact is the downstream-work ranking for a single task (§3, §4.3).
type ValueImpact struct {
	TaskID             string
	DirectBlockers     int
	TransitiveBlockers StringSet
	BlockedHours       int
	BlockedGoals       StringSet
	Score              float64
}
