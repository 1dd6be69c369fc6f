// Package depgraph builds and orders the dependency DAG over a task set
// (component C1 of SPEC_FULL.md). It follows the arena-plus-index
// representation used by the teacher's pkg/analysis Analyzer: tasks are
// interned into a gonum simple.DirectedGraph by integer handle, and both
// the forward (deps) and reverse (blocks) adjacency are derived from that
// single arena, eliminating pointer cycles between a task and its
// dependents (SPEC_FULL.md §4, "Re-architecture of source patterns").
// Ordering and cycle detection are both delegated to gonum's graph/topo
// package rather than hand-rolled: topo.SortStabilized supplies the
// priority-aware, deterministic Kahn's-algorithm ordering (§4.1), and
// topo.DirectedCyclesIn supplies the witnessing cycle (I2, §7).
package depgraph

import (
	"errors"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/vanderheijden86/beadwork/pkg/metrics"
	"github.com/vanderheijden86/beadwork/pkg/model"
	"github.com/vanderheijden86/beadwork/pkg/planerr"
)

// Graph is the built, validated dependency DAG for one planning call.
type Graph struct {
	g        *simple.DirectedGraph
	idToNode map[string]int64
	nodeToID map[int64]string

	// insertionOrder records each task's position in the source slice,
	// used as the final topological tie-break (§4.1).
	insertionOrder map[string]int
	priority       map[string]model.Priority

	// deps[id] are prerequisite ids; blocks[id] are dependent ids. Both
	// only include edges whose endpoints resolved to a known task (I1).
	deps   map[string][]string
	blocks map[string][]string
}

// Build constructs the dependency graph for tasks. Edges naming unknown
// task ids are silently dropped (I1); this never errors by itself. Use
// TopologicalOrder to discover cycles (I2).
//
// Each dependency edge is stored in the underlying gonum graph as
// prerequisite -> dependent (the same direction as blocks), matching
// graph/topo's convention that an edge u->v means u must be ordered
// before v.
func Build(tasks []model.Task) *Graph {
	g := simple.NewDirectedGraph()
	idToNode := make(map[string]int64, len(tasks))
	nodeToID := make(map[int64]string, len(tasks))
	insertionOrder := make(map[string]int, len(tasks))
	priority := make(map[string]model.Priority, len(tasks))
	deps := make(map[string][]string, len(tasks))
	blocks := make(map[string][]string, len(tasks))

	for i, t := range tasks {
		n := g.NewNode()
		g.AddNode(n)
		idToNode[t.ID] = n.ID()
		nodeToID[n.ID()] = t.ID
		insertionOrder[t.ID] = i
		priority[t.ID] = t.Priority
	}

	for _, t := range tasks {
		dependent, ok := idToNode[t.ID]
		if !ok {
			continue
		}
		for _, depID := range t.DependsOn {
			prereq, exists := idToNode[depID]
			if !exists {
				continue // I1: unknown prerequisite, silently dropped
			}
			// depID must precede t: edge depID -> t.
			if g.HasEdgeFromTo(prereq, dependent) {
				continue
			}
			g.SetEdge(g.NewEdge(simple.Node(prereq), simple.Node(dependent)))
			deps[t.ID] = append(deps[t.ID], depID)
			blocks[depID] = append(blocks[depID], t.ID)
		}
	}

	return &Graph{
		g:              g,
		idToNode:       idToNode,
		nodeToID:       nodeToID,
		insertionOrder: insertionOrder,
		priority:       priority,
		deps:           deps,
		blocks:         blocks,
	}
}

// DependsOn returns the (deduplicated) prerequisite ids of id.
func (g *Graph) DependsOn(id string) []string {
	return append([]string(nil), g.deps[id]...)
}

// Blocks returns the dependent ids of id — the derived reverse of
// DependsOn (§3 Task.blocks).
func (g *Graph) Blocks(id string) []string {
	return append([]string(nil), g.blocks[id]...)
}

// Cycle returns one witnessing cycle through the graph, using gonum's
// Johnson's-algorithm cycle enumeration (topo.DirectedCyclesIn), which
// finds every elementary cycle including self-loops. Returns nil when
// the graph is acyclic.
func (g *Graph) Cycle() []string {
	defer metrics.Timer(metrics.CycleDetection)()

	cycles := topo.DirectedCyclesIn(g.g)
	if len(cycles) == 0 {
		return nil
	}
	return g.sortedIDs(cycles[0])
}

func (g *Graph) sortedIDs(nodes []graph.Node) []string {
	seen := make(map[string]bool, len(nodes))
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		id := g.nodeToID[n.ID()]
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// TopologicalOrder returns all task ids ordered by gonum's
// topo.SortStabilized with a priority-first tie break (§4.1): among
// currently-unblocked nodes, the highest-priority one is emitted first;
// ties break by insertion order of the source data. Returns a
// *planerr.CycleDetectedError, carrying the cyclic component
// topo.Unorderable names, if any node can't be ordered.
func (g *Graph) TopologicalOrder() ([]string, error) {
	defer metrics.Timer(metrics.TopologicalSort)()

	less := func(nodes []graph.Node) {
		sort.Slice(nodes, func(i, j int) bool {
			a, b := g.nodeToID[nodes[i].ID()], g.nodeToID[nodes[j].ID()]
			if g.priority[a] != g.priority[b] {
				return g.priority[a] > g.priority[b]
			}
			return g.insertionOrder[a] < g.insertionOrder[b]
		})
	}

	sorted, err := topo.SortStabilized(g.g, less)
	if err != nil {
		var unorderable topo.Unorderable
		if errors.As(err, &unorderable) && len(unorderable) > 0 {
			return nil, &planerr.CycleDetectedError{Cycle: g.sortedIDs(unorderable[0])}
		}
		return nil, &planerr.CycleDetectedError{Cycle: g.Cycle()}
	}

	order := make([]string, 0, len(sorted))
	for _, n := range sorted {
		order = append(order, g.nodeToID[n.ID()])
	}
	return order, nil
}

// NodeCount returns the number of tasks in the graph.
func (g *Graph) NodeCount() int { return len(g.idToNode) }
