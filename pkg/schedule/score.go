package schedule

import (
	"time"

	"github.com/vanderheijden86/beadwork/pkg/model"
)

// defaultDueComponent is the due-date component when no task in the
// sequence has a due date; defaultPriorityComponent is the weight of a
// priority outside the five known levels (§4.5's stated defaults).
const (
	defaultDueComponent      = 25.0
	defaultPriorityComponent = 15.0
)

func dueBucket(due time.Time, now time.Time) float64 {
	d := due.Sub(now)
	switch {
	case d < 0:
		return 50
	case d <= 3*24*time.Hour:
		return 40
	case d <= 7*24*time.Hour:
		return 30
	case d <= 14*24*time.Hour:
		return 20
	default:
		return 10
	}
}

func priorityWeight(p model.Priority) float64 {
	switch p {
	case model.PriorityShowStopper:
		return 30
	case model.PriorityCritical:
		return 24
	case model.PriorityMajor:
		return 18
	case model.PriorityNormal:
		return 12
	case model.PriorityMinor:
		return 6
	default:
		return defaultPriorityComponent
	}
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

// ScorePath computes the speed/coverage/urgency scores for one
// candidate, turning it into a full model.PlanPath (§4.5).
func ScorePath(c Candidate, req model.PlanRequest, taskMap map[string]model.Task, now time.Time) model.PlanPath {
	goalsCompleted, goalsPartial := goalCoverage(c.TaskIDs, req.Goals)

	speed := clamp(100-100*float64(c.TotalHours)/float64(req.AvailableHours*model.PlanningHorizonWeeks), 0, 100)

	coverage := 0.0
	if len(req.Goals) > 0 {
		coverage = 100 * float64(len(goalsCompleted)) / float64(len(req.Goals))
	}

	urgency := urgencyScore(c.TaskIDs, taskMap, now)

	return model.PlanPath{
		TaskIDs:        c.TaskIDs,
		TotalHours:     c.TotalHours,
		GoalsCompleted: goalsCompleted,
		GoalsPartial:   goalsPartial,
		SpeedScore:     speed,
		CoverageScore:  coverage,
		UrgencyScore:   urgency,
	}
}

func goalCoverage(taskIDs []string, goals []model.Goal) (model.StringSet, model.StringSet) {
	inPath := model.NewStringSet(taskIDs...)
	completed := model.NewStringSet()
	partial := model.NewStringSet()

	for _, g := range goals {
		if len(g.TaskIDs) == 0 {
			continue
		}
		all := true
		any := false
		for _, tid := range g.TaskIDs {
			if inPath.Contains(tid) {
				any = true
			} else {
				all = false
			}
		}
		switch {
		case all:
			completed.Add(g.ID)
		case any:
			partial.Add(g.ID)
		}
	}
	return completed, partial
}

func urgencyScore(taskIDs []string, taskMap map[string]model.Task, now time.Time) float64 {
	// An empty sequence has no due dates or priorities to average; its
	// urgency is fixed at 50.
	if len(taskIDs) == 0 {
		return 50
	}

	dueSum, dueCount := 0.0, 0
	prioritySum := 0.0
	for _, id := range taskIDs {
		t, ok := taskMap[id]
		if !ok {
			continue
		}
		if t.Due != nil {
			dueSum += dueBucket(*t.Due, now)
			dueCount++
		}
		prioritySum += priorityWeight(t.Priority)
	}

	dueComponent := defaultDueComponent
	if dueCount > 0 {
		dueComponent = dueSum / float64(dueCount)
	}
	priorityComponent := prioritySum / float64(len(taskIDs))

	seqTerm := 2.0 * float64(len(taskIDs))
	if seqTerm > 20 {
		seqTerm = 20
	}

	return clamp(dueComponent+priorityComponent+seqTerm, 0, 100)
}

// Pareto returns the non-dominated subset of paths (§4.5). If paths is
// empty it returns nil; if filtering would otherwise yield nothing (not
// reachable for a non-empty finite input, since domination is a strict
// partial order) it falls back to the first candidate defensively.
func Pareto(paths []model.PlanPath) []model.PlanPath {
	if len(paths) == 0 {
		return nil
	}

	var out []model.PlanPath
	for i, p := range paths {
		dominated := false
		for j, q := range paths {
			if i == j {
				continue
			}
			if q.Dominates(p) {
				dominated = true
				break
			}
		}
		if !dominated {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return paths[:1]
	}
	return out
}

// Recommend picks the argmax weighted-sum path from the Pareto set,
// breaking ties by shorter total_hours then lexical id of the first
// task (§4.5).
func Recommend(pareto []model.PlanPath, w model.Weights) *model.PlanPath {
	if len(pareto) == 0 {
		return nil
	}
	best := pareto[0]
	bestScore := best.WeightedSum(w)
	for _, p := range pareto[1:] {
		score := p.WeightedSum(w)
		switch {
		case score > bestScore:
			best, bestScore = p, score
		case score == bestScore:
			if betterTiebreak(p, best) {
				best = p
			}
		}
	}
	out := best
	return &out
}

func betterTiebreak(p, best model.PlanPath) bool {
	if p.TotalHours != best.TotalHours {
		return p.TotalHours < best.TotalHours
	}
	pFirst, bFirst := firstID(p), firstID(best)
	return pFirst < bFirst
}

func firstID(p model.PlanPath) string {
	if len(p.TaskIDs) == 0 {
		return ""
	}
	return p.TaskIDs[0]
}
