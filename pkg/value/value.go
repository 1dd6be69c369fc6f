// Package value computes the downstream-impact ranking for each task
// (component C3 of SPEC_FULL.md), following the weighted composite-score
// shape of the teacher's pkg/analysis/priority.go ImpactScore/ScoreBreakdown,
// adapted from PageRank/betweenness/staleness signals to the spec's
// transitive-blocker / blocked-hours / blocked-goals signals (§4.3).
package value

import (
	"math"
	"sort"

	"github.com/vanderheijden86/beadwork/pkg/depgraph"
	"github.com/vanderheijden86/beadwork/pkg/model"
)

// Analyzer computes ValueImpact for every task in a request.
type Analyzer struct {
	tasks   map[string]model.Task
	goals   []model.Goal
	graph   *depgraph.Graph
	hTotal  int
	nTasks  int
	nGoals  int
}

// NewAnalyzer builds a value-impact analyzer over tasks and goals, using
// an already-built dependency graph for transitive-closure traversal.
func NewAnalyzer(tasks []model.Task, goals []model.Goal, g *depgraph.Graph) *Analyzer {
	taskMap := make(map[string]model.Task, len(tasks))
	hTotal := 0
	for _, t := range tasks {
		taskMap[t.ID] = t
		hTotal += t.EstimateOrDefault()
	}
	return &Analyzer{
		tasks:  taskMap,
		goals:  goals,
		graph:  g,
		hTotal: hTotal,
		nTasks: len(tasks),
		nGoals: len(goals),
	}
}

// Transitive returns the set of tasks reachable from id via iterated
// closure over Blocks, excluding id itself (§4.3). Traversal is
// iterative (explicit stack), matching SPEC_FULL.md's "no pointer
// cycles, iterative stack traversal" re-architecture note.
func (a *Analyzer) Transitive(id string) model.StringSet {
	visited := model.NewStringSet()
	stack := append([]string(nil), a.graph.Blocks(id)...)
	for len(stack) > 0 {
		n := len(stack) - 1
		cur := stack[n]
		stack = stack[:n]
		if visited.Contains(cur) {
			continue
		}
		visited.Add(cur)
		stack = append(stack, a.graph.Blocks(cur)...)
	}
	return visited
}

// BlockedHours sums estimate hours over the transitive closure of id.
func (a *Analyzer) BlockedHours(transitive model.StringSet) int {
	total := 0
	for id := range transitive {
		if t, ok := a.tasks[id]; ok {
			total += t.EstimateOrDefault()
		}
	}
	return total
}

// BlockedGoals returns the union of goal ids whose task set intersects
// transitive(T) ∪ {T} (§4.3, §9 open-question resolution: the two
// conflicting source notions of "blocked goal" are unified into this one
// rule).
func (a *Analyzer) BlockedGoals(taskID string, transitive model.StringSet) model.StringSet {
	scope := model.NewStringSet(taskID)
	for id := range transitive {
		scope.Add(id)
	}
	out := model.NewStringSet()
	for _, g := range a.goals {
		for _, tid := range g.TaskIDs {
			if scope.Contains(tid) {
				out.Add(g.ID)
				break
			}
		}
	}
	return out
}

// Score computes one task's ValueImpact, including the composite 0–100
// score from §4.3's formula. Zero denominators contribute zero, and the
// final score is rounded to one decimal and clamped to [0, 100].
func (a *Analyzer) Score(taskID string) model.ValueImpact {
	transitive := a.Transitive(taskID)
	blockedHours := a.BlockedHours(transitive)
	blockedGoals := a.BlockedGoals(taskID, transitive)

	score := 0.0
	if a.nTasks > 0 {
		score += 40 * (float64(len(transitive)) / float64(a.nTasks))
	}
	if a.hTotal > 0 {
		score += 40 * (float64(blockedHours) / float64(a.hTotal))
	}
	if a.nGoals > 0 {
		score += 20 * (float64(len(blockedGoals)) / float64(a.nGoals))
	}

	score = math.Round(score*10) / 10
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return model.ValueImpact{
		TaskID:             taskID,
		DirectBlockers:     len(a.graph.Blocks(taskID)),
		TransitiveBlockers: transitive,
		BlockedHours:       blockedHours,
		BlockedGoals:       blockedGoals,
		Score:              score,
	}
}

// All computes ValueImpact for every task known to the analyzer, sorted
// by task id ascending (callers typically re-sort via HighestValue).
func (a *Analyzer) All() []model.ValueImpact {
	ids := make([]string, 0, len(a.tasks))
	for id := range a.tasks {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]model.ValueImpact, 0, len(ids))
	for _, id := range ids {
		out = append(out, a.Score(id))
	}
	return out
}

// HighestValue returns up to limit tasks sorted by score descending,
// ties broken by id ascending (§4.3). limit <= 0 means "all".
func (a *Analyzer) HighestValue(limit int) []model.ValueImpact {
	all := a.All()
	sort.Slice(all, func(i, j int) bool {
		if all[i].Score != all[j].Score {
			return all[i].Score > all[j].Score
		}
		return all[i].TaskID < all[j].TaskID
	})
	if limit > 0 && limit < len(all) {
		return all[:limit]
	}
	return all
}
