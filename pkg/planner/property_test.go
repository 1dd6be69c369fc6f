package planner

import (
	"context"
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/beadwork/pkg/model"
)

var rapidPriorities = []model.Priority{
	model.PriorityShowStopper,
	model.PriorityCritical,
	model.PriorityMajor,
	model.PriorityNormal,
	model.PriorityMinor,
}

var rapidFilePool = []string{"a", "b", "c", "d"}

// genRequest builds a random, dependency-acyclic-by-construction
// PlanRequest: task i may only depend on tasks with a lower index, so no
// cycle can ever arise and Plan/ValueImpact never hit CycleDetected.
func genRequest(t *rapid.T) model.PlanRequest {
	n := rapid.IntRange(1, 8).Draw(t, "n")

	tasks := make([]model.Task, 0, n)
	for i := 0; i < n; i++ {
		id := "T" + string(rune('A'+i))

		var deps []string
		if i > 0 {
			numDeps := rapid.IntRange(0, i).Draw(t, "numDeps")
			seen := map[int]bool{}
			for len(seen) < numDeps {
				d := rapid.IntRange(0, i-1).Draw(t, "dep")
				seen[d] = true
			}
			for d := range seen {
				deps = append(deps, "T"+string(rune('A'+d)))
			}
		}

		numFiles := rapid.IntRange(0, 2).Draw(t, "numFiles")
		var files []string
		for j := 0; j < numFiles; j++ {
			files = append(files, rapid.SampledFrom(rapidFilePool).Draw(t, "file"))
		}

		tasks = append(tasks, model.Task{
			ID:            id,
			GoalID:        "G1",
			Priority:      rapid.SampledFrom(rapidPriorities).Draw(t, "priority"),
			EstimateHours: rapid.IntRange(0, 12).Draw(t, "estimate"),
			DependsOn:     deps,
			AffectedFiles: files,
		})
	}

	allIDs := make([]string, 0, n)
	for _, tsk := range tasks {
		allIDs = append(allIDs, tsk.ID)
	}

	return model.PlanRequest{
		Tasks:          tasks,
		Goals:          []model.Goal{{ID: "G1", Name: "G1", TaskIDs: allIDs}},
		AvailableHours: rapid.IntRange(1, 80).Draw(t, "availableHours"),
		MaxParallel:    rapid.IntRange(1, 10).Draw(t, "maxParallel"),
	}
}

func dependsOnIndex(tasks []model.Task) map[string][]string {
	out := make(map[string][]string, len(tasks))
	for _, tsk := range tasks {
		out[tsk.ID] = tsk.DependsOn
	}
	return out
}

// TestProperty_RecommendedPathRespectsDependencies checks §8's universal
// invariant "for every ordered pair (A, B) with A preceding B in
// execution_order, B is not a prerequisite of A" against the recommended
// path, over randomly generated acyclic requests.
func TestProperty_RecommendedPathRespectsDependencies(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		req := genRequest(t)
		result, err := Plan(context.Background(), req, nil)
		if err != nil {
			t.Fatalf("Plan: %v", err)
		}
		if result.Recommended == nil {
			return
		}

		deps := dependsOnIndex(req.Tasks)
		seq := result.Recommended.TaskIDs

		seen := model.NewStringSet()
		position := make(map[string]int, len(seq))
		for i, id := range seq {
			position[id] = i
		}
		for i, b := range seq {
			for _, prereq := range deps[b] {
				if pos, ok := position[prereq]; ok && pos > i {
					t.Fatalf("task %q precedes its prerequisite %q in %v", b, prereq, seq)
				}
			}
		}

		idSet := model.NewStringSet()
		for _, tsk := range req.Tasks {
			idSet.Add(tsk.ID)
		}
		for _, id := range seq {
			if seen.Contains(id) {
				t.Fatalf("id %q appears more than once in recommended path %v", id, seq)
			}
			seen.Add(id)
			if !idSet.Contains(id) {
				t.Fatalf("id %q in recommended path is not a request task", id)
			}
		}
	})
}

// TestProperty_BatchIsDisjointAndBounded checks §8's batch invariants:
// pairwise file-disjointness, the max_parallel cap, and that every
// admitted task's prerequisites are themselves in the batch (no external
// completions are reported in this generator).
func TestProperty_BatchIsDisjointAndBounded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		req := genRequest(t)
		result, err := Plan(context.Background(), req, nil)
		if err != nil {
			t.Fatalf("Plan: %v", err)
		}

		if len(result.ImmediateBatch) > req.MaxParallel {
			t.Fatalf("batch %v exceeds max_parallel %d", result.ImmediateBatch, req.MaxParallel)
		}

		byID := make(map[string]model.Task, len(req.Tasks))
		for _, tsk := range req.Tasks {
			byID[tsk.ID] = tsk
		}

		claimed := map[string]string{}
		inBatch := model.NewStringSet(result.ImmediateBatch...)
		for _, id := range result.ImmediateBatch {
			tsk := byID[id]
			for _, f := range tsk.AffectedFiles {
				if owner, ok := claimed[f]; ok {
					t.Fatalf("file %q claimed by both %q and %q", f, owner, id)
				}
				claimed[f] = id
			}
			for _, dep := range tsk.DependsOn {
				if !inBatch.Contains(dep) {
					t.Fatalf("task %q in batch but prerequisite %q is not", id, dep)
				}
			}
		}
	})
}

// TestProperty_ValueScoresInRange checks §8's "value scores are in
// [0, 100]" invariant across randomly generated requests.
func TestProperty_ValueScoresInRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		req := genRequest(t)
		impacts, err := ValueImpact(req)
		if err != nil {
			t.Fatalf("ValueImpact: %v", err)
		}
		for _, vi := range impacts {
			if vi.Score < 0 || vi.Score > 100 {
				t.Fatalf("score out of [0,100] for %q: %v", vi.TaskID, vi.Score)
			}
		}
	})
}

// TestProperty_PlanIsDeterministic checks §8's "plan is deterministic for
// the same request and snapshots and seed" across randomly generated
// requests, by re-running Plan twice and comparing explanations (which
// fully summarize the batch, recommendation, and order).
func TestProperty_PlanIsDeterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		req := genRequest(t)
		r1, err := Plan(context.Background(), req, nil)
		if err != nil {
			t.Fatalf("Plan (1st): %v", err)
		}
		r2, err := Plan(context.Background(), req, nil)
		if err != nil {
			t.Fatalf("Plan (2nd): %v", err)
		}
		if r1.Explanation != r2.Explanation {
			t.Fatalf("Plan is not deterministic:\n%s\n---\n%s", r1.Explanation, r2.Explanation)
		}
	})
}
