package depgraph

import (
	"testing"

	"github.com/vanderheijden86/beadwork/pkg/model"
)

func TestTopologicalOrder_PriorityTieBreak(t *testing.T) {
	tasks := []model.Task{
		{ID: "low", Priority: model.PriorityMinor},
		{ID: "high", Priority: model.PriorityCritical},
		{ID: "mid", Priority: model.PriorityNormal},
	}
	g := Build(tasks)
	order, err := g.TopologicalOrder()
	if err != nil {
		t.Fatalf("TopologicalOrder: %v", err)
	}
	if order[0] != "high" {
		t.Fatalf("expected highest priority first, got %v", order)
	}
}

func TestTopologicalOrder_UnknownDependencyDropped(t *testing.T) {
	tasks := []model.Task{
		{ID: "a", DependsOn: []string{"ghost"}},
	}
	g := Build(tasks)
	order, err := g.TopologicalOrder()
	if err != nil {
		t.Fatalf("TopologicalOrder: %v", err)
	}
	if len(order) != 1 || order[0] != "a" {
		t.Fatalf("expected [a], got %v", order)
	}
	if deps := g.DependsOn("a"); len(deps) != 0 {
		t.Fatalf("expected dangling dependency to be dropped, got %v", deps)
	}
}

func TestTopologicalOrder_CycleDetected(t *testing.T) {
	tasks := []model.Task{
		{ID: "a", DependsOn: []string{"b"}},
		{ID: "b", DependsOn: []string{"a"}},
	}
	g := Build(tasks)
	if _, err := g.TopologicalOrder(); err == nil {
		t.Fatal("expected a cycle error")
	}
}

func TestBlocks_IsReverseOfDependsOn(t *testing.T) {
	tasks := []model.Task{
		{ID: "a"},
		{ID: "b", DependsOn: []string{"a"}},
	}
	g := Build(tasks)
	blocks := g.Blocks("a")
	if len(blocks) != 1 || blocks[0] != "b" {
		t.Fatalf("expected a to block b, got %v", blocks)
	}
}
