package planner

import (
	"context"
	"testing"

	"github.com/vanderheijden86/beadwork/pkg/model"
)

func TestPlanner_CachesIdenticalRequests(t *testing.T) {
	req := model.PlanRequest{
		Tasks: []model.Task{
			{ID: "T1", EstimateHours: 4},
			{ID: "T2", EstimateHours: 2, DependsOn: []string{"T1"}},
		},
	}
	clock := fixedClock(mustParse(t, "2026-01-01T00:00:00Z"))

	p := NewPlanner()
	first, err := p.Plan(context.Background(), req, clock)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	second, err := p.Plan(context.Background(), req, clock)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if first.Explanation != second.Explanation {
		t.Fatalf("cached result diverged:\n%s\n---\n%s", first.Explanation, second.Explanation)
	}

	if len(p.cache) != 1 {
		t.Fatalf("expected exactly one cache entry, got %d", len(p.cache))
	}
}

func TestPlanner_DistinctRequestsDoNotCollide(t *testing.T) {
	clock := fixedClock(mustParse(t, "2026-01-01T00:00:00Z"))
	p := NewPlanner()

	reqA := model.PlanRequest{Tasks: []model.Task{{ID: "A", EstimateHours: 1}}}
	reqB := model.PlanRequest{Tasks: []model.Task{{ID: "B", EstimateHours: 1}}}

	resA, err := p.Plan(context.Background(), reqA, clock)
	if err != nil {
		t.Fatalf("Plan A: %v", err)
	}
	resB, err := p.Plan(context.Background(), reqB, clock)
	if err != nil {
		t.Fatalf("Plan B: %v", err)
	}
	if len(resA.ImmediateBatch) != 1 || resA.ImmediateBatch[0] != "A" {
		t.Fatalf("expected batch [A], got %v", resA.ImmediateBatch)
	}
	if len(resB.ImmediateBatch) != 1 || resB.ImmediateBatch[0] != "B" {
		t.Fatalf("expected batch [B], got %v", resB.ImmediateBatch)
	}
}

func TestPlanner_Reset(t *testing.T) {
	clock := fixedClock(mustParse(t, "2026-01-01T00:00:00Z"))
	req := model.PlanRequest{Tasks: []model.Task{{ID: "T1", EstimateHours: 1}}}

	p := NewPlanner()
	if _, err := p.Plan(context.Background(), req, clock); err != nil {
		t.Fatalf("Plan: %v", err)
	}
	p.Reset()
	if len(p.cache) != 0 {
		t.Fatalf("expected cache to be empty after Reset, got %d entries", len(p.cache))
	}
}
