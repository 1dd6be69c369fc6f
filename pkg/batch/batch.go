// Package batch implements the Batch Selector (C6): the largest ready,
// non-conflicting, dependency-closed prefix of the ordered task list
// that fits under a parallelism cap (§4.6).
package batch

import (
	"github.com/vanderheijden86/beadwork/pkg/conflict"
	"github.com/vanderheijden86/beadwork/pkg/depgraph"
	"github.com/vanderheijden86/beadwork/pkg/model"
)

// Select walks order (typically depgraph's TopologicalOrder) and returns
// the immediate dispatchable batch. completed is the set of task ids the
// caller reports as already done; maxParallel caps the batch size.
//
// A task is admitted iff: (a) the batch is still below maxParallel, (b)
// every prerequisite is already in the batch or in completed, and (c)
// its affected files are disjoint from every file already claimed by the
// batch. The walk stops entirely the first time a candidate is rejected
// solely for reason (a); rejections for (b) or (c) are skipped, letting
// later out-of-order ready tasks join (§4.6, the "stricter" §9 decision:
// the batch itself must remain dependency-closed).
func Select(order []string, g *depgraph.Graph, idx *conflict.Index, tasks map[string]model.Task, completed model.StringSet, maxParallel int) []string {
	if completed == nil {
		completed = model.NewStringSet()
	}

	inBatch := model.NewStringSet()
	claimedFiles := make(map[string]bool)
	var result []string

	for _, id := range order {
		if len(result) >= maxParallel {
			break
		}

		if _, ok := tasks[id]; !ok {
			continue
		}

		if !prereqsSatisfied(g.DependsOn(id), inBatch, completed) {
			continue
		}

		if !filesDisjoint(idx.Files(id), claimedFiles) {
			continue
		}

		inBatch.Add(id)
		result = append(result, id)
		for _, f := range idx.Files(id) {
			claimedFiles[f] = true
		}
	}

	return result
}

func prereqsSatisfied(deps []string, inBatch, completed model.StringSet) bool {
	for _, d := range deps {
		if inBatch.Contains(d) || completed.Contains(d) {
			continue
		}
		return false
	}
	return true
}

func filesDisjoint(files []string, claimed map[string]bool) bool {
	for _, f := range files {
		if claimed[f] {
			return false
		}
	}
	return true
}
