// Package planner is the outbound API of the planning core (SPEC_FULL.md
// §6): it wires the Dependency Graph (C1), Conflict Index (C2),
// Value-Impact Analyzer (C3), Schedule Solver (C4), Path Scorer & Pareto
// Filter (C5), Batch Selector (C6), and Solver Matcher (C7-C9) into the
// four calls collaborators make — Plan, ValueImpact, Match, and
// CalibrateEstimate. It performs no I/O itself; the caller supplies
// already-materialized requests and read-only snapshots (§5, §6).
package planner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vanderheijden86/beadwork/pkg/batch"
	"github.com/vanderheijden86/beadwork/pkg/conflict"
	"github.com/vanderheijden86/beadwork/pkg/depgraph"
	"github.com/vanderheijden86/beadwork/pkg/model"
	"github.com/vanderheijden86/beadwork/pkg/planerr"
	"github.com/vanderheijden86/beadwork/pkg/schedule"
	"github.com/vanderheijden86/beadwork/pkg/solver"
	"github.com/vanderheijden86/beadwork/pkg/value"
)

// Validate checks the InvalidRequest conditions named in §7: missing
// ids, duplicate ids, contradictory (negative) weights, and negative
// estimates. It does not check depends_on/goal_id resolution — those
// resolve permissively per I1 and §3.
func Validate(req model.PlanRequest) error {
	seen := make(map[string]bool, len(req.Tasks))
	for _, t := range req.Tasks {
		if strings.TrimSpace(t.ID) == "" {
			return &planerr.InvalidRequestError{Reason: "task with empty id"}
		}
		if seen[t.ID] {
			return &planerr.InvalidRequestError{Reason: fmt.Sprintf("duplicate task id %q", t.ID)}
		}
		seen[t.ID] = true
		if t.EstimateHours < 0 {
			return &planerr.InvalidRequestError{Reason: fmt.Sprintf("task %q has a negative estimate", t.ID)}
		}
	}
	if req.Weights.Speed < 0 || req.Weights.Coverage < 0 || req.Weights.Urgency < 0 {
		return &planerr.InvalidRequestError{Reason: "weights must be non-negative"}
	}
	if req.AvailableHours < 0 {
		return &planerr.InvalidRequestError{Reason: "available_hours must be non-negative"}
	}
	if req.MaxParallel < 0 {
		return &planerr.InvalidRequestError{Reason: "max_parallel must be non-negative"}
	}
	return nil
}

// nowTime resolves a model.Clock to a time.Time, defaulting to the wall
// clock when none is supplied. Tests should always supply a fixed
// Clock so Plan stays deterministic (§5, §8).
func nowTime(clock model.Clock) time.Time {
	if clock == nil {
		return time.Now()
	}
	return time.UnixMilli(clock.NowUnixMilli())
}

// Plan is the core's primary outbound call (§6): it turns req into a
// Pareto-optimal set of candidate paths, a recommended path, and an
// immediately dispatchable batch. CycleDetected and InvalidRequest abort
// the call and return an error; ScheduleInfeasible instead degrades to
// a well-formed, empty PlanResult (§7).
func Plan(ctx context.Context, req model.PlanRequest, clock model.Clock) (model.PlanResult, error) {
	req = req.Normalized()
	if err := Validate(req); err != nil {
		return model.PlanResult{}, err
	}

	select {
	case <-ctx.Done():
		return model.PlanResult{}, ctx.Err()
	default:
	}

	g := depgraph.Build(req.Tasks)
	order, err := g.TopologicalOrder()
	if err != nil {
		return model.PlanResult{}, err // CycleDetectedError: abort (§7)
	}

	idx := conflict.Build(req.Tasks)
	taskMap := make(map[string]model.Task, len(req.Tasks))
	for _, t := range req.Tasks {
		taskMap[t.ID] = t
	}

	candidates, err := schedule.Solve(ctx, g, req)
	if err != nil {
		return model.PlanResult{}, err
	}
	if len(candidates) == 0 {
		return model.PlanResult{Explanation: explainInfeasible()}, nil
	}

	now := nowTime(clock)
	paths := make([]model.PlanPath, 0, len(candidates))
	for _, c := range candidates {
		paths = append(paths, schedule.ScorePath(c, req, taskMap, now))
	}

	pareto := schedule.Pareto(paths)
	recommended := schedule.Recommend(pareto, req.Weights)

	completed := model.NewStringSet(req.CompletedTaskIDs...)
	immediateBatch := batch.Select(order, g, idx, taskMap, completed, req.MaxParallel)

	return model.PlanResult{
		Pareto:         pareto,
		Recommended:    recommended,
		ImmediateBatch: immediateBatch,
		Explanation:    explain(immediateBatch, recommended, order),
	}, nil
}

// ValueImpact is the core's outbound ranking call (§6): it returns every
// task's downstream-impact score, sorted highest first (§4.3). A cycle
// in the dependency graph aborts the call, matching Plan's behavior.
func ValueImpact(req model.PlanRequest) ([]model.ValueImpact, error) {
	req = req.Normalized()
	if err := Validate(req); err != nil {
		return nil, err
	}

	g := depgraph.Build(req.Tasks)
	if cyc := g.Cycle(); cyc != nil {
		return nil, &planerr.CycleDetectedError{Cycle: cyc}
	}

	analyzer := value.NewAnalyzer(req.Tasks, req.Goals, g)
	return analyzer.HighestValue(0), nil
}

// SolverDeps bundles the process-wide, read-only collaborators the
// Solver Matcher needs (§6): a constructed Registry, an optional
// Calibrator (nil means "no history, ratio 1.0 everywhere"), a
// RateLimitView, and a Clock for availability/urgency timestamps.
type SolverDeps struct {
	Registry   *solver.Registry
	Calibrator *solver.Calibrator
	RateLimit  model.RateLimitView
	Clock      model.Clock
}

// Match decides the solver for every task in req (§6, §4.9).
// issueTagsByID overrides each task's Tags with the originating record's
// tags when present — the spec's issue-tracker collaborator supplies
// tags out of band from the Task struct itself. requireAvailable gates
// rules 1-3 on live availability; the spec's default is true.
func Match(req model.PlanRequest, issueTagsByID map[string][]string, requireAvailable bool, deps SolverDeps) (map[string]model.SolverMatch, error) {
	req = req.Normalized()
	if err := Validate(req); err != nil {
		return nil, err
	}
	if deps.Registry == nil {
		return nil, &planerr.InvalidRequestError{Reason: "solver registry is required"}
	}

	m := solver.NewMatcher(deps.Registry, deps.Calibrator, deps.RateLimit)
	now := nowTime(deps.Clock).UnixMilli()

	out := make(map[string]model.SolverMatch, len(req.Tasks))
	for _, t := range req.Tasks {
		task := t
		if tags, ok := issueTagsByID[t.ID]; ok {
			task.Tags = tags
		}
		out[t.ID] = m.Match(task, now, requireAvailable)
	}
	return out, nil
}

// CalibrateEstimate scales originalHours by solverName's learned
// actual/estimate ratio (§6, §4.8). A nil Calibrator behaves as an
// empty history log: every ratio is 1.0.
func CalibrateEstimate(originalHours float64, solverName string, cal *solver.Calibrator) float64 {
	if cal == nil {
		cal = solver.NewCalibrator(nil)
	}
	return cal.Calibrate(originalHours, solverName)
}
