// Package schedule implements the Schedule Solver (C4) and the Path
// Scorer & Pareto Filter (C5). The solver assigns no start times and
// neither computes nor minimizes a makespan. For each of several rotated
// tie-break objectives it builds one dependency-respecting linearization
// of the tasks with Kahn's algorithm, truncated once the summed
// estimates would exceed available_hours*PlanningHorizonWeeks; a
// candidate's TotalHours is the sum of its tasks' estimates. Candidates
// with identical sequences are deduplicated, and the rest are the
// PlanPaths that C5 scores and Pareto-filters.
package schedule

import (
	"context"
	"sort"
	"time"

	"github.com/vanderheijden86/beadwork/pkg/depgraph"
	"github.com/vanderheijden86/beadwork/pkg/model"
)

// objective names one of the rotated tie-break strategies used to
// linearize the ready set at each step of the candidate build.
type objective struct {
	name string
	less func(tasks map[string]model.Task, order map[string]int, a, b string) bool
}

func objectives() []objective {
	return []objective{
		{name: "balanced", less: lessBalanced},
		{name: "speed", less: lessSpeed},
		{name: "coverage", less: lessCoverage},
		{name: "urgency", less: lessUrgency},
	}
}

func lessBalanced(tasks map[string]model.Task, order map[string]int, a, b string) bool {
	ta, tb := tasks[a], tasks[b]
	if ta.Priority != tb.Priority {
		return ta.Priority > tb.Priority
	}
	return a < b
}

func lessSpeed(tasks map[string]model.Task, order map[string]int, a, b string) bool {
	ta, tb := tasks[a], tasks[b]
	ea, eb := ta.EstimateOrDefault(), tb.EstimateOrDefault()
	if ea != eb {
		return ea < eb
	}
	return lessBalanced(tasks, order, a, b)
}

func lessCoverage(tasks map[string]model.Task, order map[string]int, a, b string) bool {
	ta, tb := tasks[a], tasks[b]
	if ta.GoalID != tb.GoalID {
		return ta.GoalID < tb.GoalID
	}
	return lessBalanced(tasks, order, a, b)
}

func lessUrgency(tasks map[string]model.Task, order map[string]int, a, b string) bool {
	ta, tb := tasks[a], tasks[b]
	da, db := dueOrMax(ta), dueOrMax(tb)
	if !da.Equal(db) {
		return da.Before(db)
	}
	return lessBalanced(tasks, order, a, b)
}

func dueOrMax(t model.Task) time.Time {
	if t.Due != nil {
		return *t.Due
	}
	return time.Unix(1<<62, 0)
}

// Candidate is one feasible, dependency-respecting, budget-truncated
// linearization of the ready task set.
type Candidate struct {
	Objective string
	TaskIDs   []string
	TotalHours int
}

// Solve produces the candidate paths for req's tasks against g, honoring
// ctx cancellation between candidate resolves (§5). It returns an empty
// slice, never an error, when the request has no tasks — infeasibility
// from cycles is caught earlier by depgraph.Build/TopologicalOrder.
func Solve(ctx context.Context, g *depgraph.Graph, req model.PlanRequest) ([]Candidate, error) {
	if len(req.Tasks) == 0 {
		return nil, nil
	}

	taskMap := make(map[string]model.Task, len(req.Tasks))
	order := make(map[string]int, len(req.Tasks))
	for i, t := range req.Tasks {
		taskMap[t.ID] = t
		order[t.ID] = i
	}

	deadline := time.Now().Add(req.SolverBudget)

	var out []Candidate
	for _, obj := range objectives() {
		select {
		case <-ctx.Done():
			return out, ctx.Err()
		default:
		}
		if time.Now().After(deadline) {
			break
		}
		c := buildCandidate(g, taskMap, order, obj, req.AvailableHours)
		out = append(out, c)
	}
	return dedupeCandidates(out), nil
}

// buildCandidate runs Kahn's algorithm over g using obj.less as the
// ready-set tie-break, truncating the emitted sequence once adding the
// next task would exceed availableHours*PlanningHorizonWeeks of total
// work — the planning-horizon budget from §4.5.
func buildCandidate(g *depgraph.Graph, tasks map[string]model.Task, order map[string]int, obj objective, availableHours int) Candidate {
	indegree := make(map[string]int, len(tasks))
	for id := range tasks {
		indegree[id] = len(g.DependsOn(id))
	}

	ready := make([]string, 0, len(tasks))
	for id, deg := range indegree {
		if deg == 0 {
			ready = append(ready, id)
		}
	}

	budget := availableHours * model.PlanningHorizonWeeks
	total := 0
	var chosen []string

	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool { return obj.less(tasks, order, ready[i], ready[j]) })
		next := ready[0]
		ready = ready[1:]

		cost := tasks[next].EstimateOrDefault()
		if budget > 0 && total+cost > budget && len(chosen) > 0 {
			break
		}

		chosen = append(chosen, next)
		total += cost

		for _, dependent := range g.Blocks(next) {
			if _, ok := tasks[dependent]; !ok {
				continue
			}
			indegree[dependent]--
			if indegree[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}

	return Candidate{Objective: obj.name, TaskIDs: chosen, TotalHours: total}
}

// dedupeCandidates drops candidates whose task sequence is identical to
// one already kept, preserving the first (and thus highest-priority
// named) occurrence.
func dedupeCandidates(cands []Candidate) []Candidate {
	seen := make(map[string]bool, len(cands))
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		key := ""
		for _, id := range c.TaskIDs {
			key += id + "\x00"
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}
