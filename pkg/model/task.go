package model

import "time"

// DefaultEstimateHours is substituted by EstimateOrDefault wherever a
// task's estimate is non-positive; the stored EstimateHours is unchanged.
const DefaultEstimateHours = 4

// Task is one unit of schedulable work. Tasks are immutable for the
// duration of a planning call (§3): once a PlanRequest is built, nothing
// in this package mutates a Task's fields.
type Task struct {
	ID      string
	Summary string

	// GoalID is the owning goal id, or "" when the task is unaffiliated.
	// An empty GoalID is kept as is; it is not replaced by
	// SyntheticDefaultGoalID.
	GoalID string

	Priority      Priority
	EstimateHours int

	// DependsOn lists prerequisite task ids. References to unknown tasks
	// are silently dropped by the dependency graph builder (I1), not here.
	DependsOn []string

	// AffectedFiles are the file paths this task touches. Comparison is
	// case-sensitive path equality (§4.2); normalization is the caller's
	// responsibility.
	AffectedFiles []string

	// SolverHint optionally names a preferred solver. It is carried on
	// the task only; the solver matcher does not consult it.
	SolverHint string

	// Tags carries the originating record's free-form labels, including
	// any "#solver" style explicit-solver tags consumed by C9 rule 1.
	Tags []string

	// Due is the optional absolute deadline used by urgency scoring (§4.5).
	Due *time.Time
}

// EstimateOrDefault returns the task's estimate, substituting
// DefaultEstimateHours when it is non-positive.
func (t Task) EstimateOrDefault() int {
	if t.EstimateHours <= 0 {
		return DefaultEstimateHours
	}
	return t.EstimateHours
}

// SyntheticDefaultGoalID is the id reserved for a synthetic goal of
// unaffiliated tasks. No package in this module assigns it: tasks with
// an empty GoalID keep it, and no goal is added when Goals is empty.
const SyntheticDefaultGoalID = "default"

// Goal is a named grouping of tasks with its own priority, used by
// coverage scoring (§4.5).
type Goal struct {
	ID       string
	Name     string
	Priority int
	TaskIDs  []string
}

// Weights are the non-negative per-dimension multipliers used by the
// recommendation argmax in §4.5.
type Weights struct {
	Speed    float64
	Coverage float64
	Urgency  float64
}

// DefaultWeights returns the spec's default of 1.0 for every dimension.
func DefaultWeights() Weights {
	return Weights{Speed: 1, Coverage: 1, Urgency: 1}
}

const (
	// DefaultAvailableHours is PlanRequest.AvailableHours's default (§3).
	DefaultAvailableHours = 40
	// DefaultMaxParallel is PlanRequest.MaxParallel's default (§3).
	DefaultMaxParallel = 15
	// PlanningHorizonWeeks is the "four-week planning horizon constant"
	// from §4.5's speed_score formula.
	PlanningHorizonWeeks = 4
)

// PlanRequest is the whole input to a planning call (§3). CompletedTaskIDs
// is this module's explicit rendering of "already complete (per caller)"
// from §4.6 — spec.md describes the behavior but the distilled data model
// omits a field for it, so it is added here (see SPEC_FULL.md §4).
type PlanRequest struct {
	Tasks   []Task
	Goals   []Goal
	Weights Weights

	AvailableHours int
	MaxParallel    int

	// CompletedTaskIDs are tasks the caller reports as already done;
	// consulted by the Batch Selector (§4.6) when checking prerequisites.
	CompletedTaskIDs []string

	// SolverSeed and SolverBudget parameterize the Schedule Solver's
	// time-bounded, deterministic-under-a-fixed-seed search (§5).
	SolverSeed   int64
	SolverBudget time.Duration
}

// Normalized returns a copy of the request with defaults applied for any
// zero-valued tunables, matching §3's stated defaults.
func (r PlanRequest) Normalized() PlanRequest {
	out := r
	if out.AvailableHours <= 0 {
		out.AvailableHours = DefaultAvailableHours
	}
	if out.MaxParallel <= 0 {
		out.MaxParallel = DefaultMaxParallel
	}
	if out.Weights == (Weights{}) {
		out.Weights = DefaultWeights()
	}
	if out.SolverBudget <= 0 {
		out.SolverBudget = 10 * time.Second
	}
	return out
}
