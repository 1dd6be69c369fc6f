// Package planwire decodes the JSON wire format for a planning request
// (SPEC_FULL.md §6) into the I/O-free pkg/model types, and decodes the
// solver-registry JSON document consumed by cmd/planctl. It is the only
// place in the module that knows the on-the-wire field names; pkg/model
// itself stays free of json tags, matching how pkg/analysis keeps its
// own wire structs (PlanItem, ExecutionPlan) separate from pkg/model.Issue.
package planwire

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/beadwork/pkg/model"
	"github.com/vanderheijden86/beadwork/pkg/solver"
)

// Task is the wire shape of model.Task.
type Task struct {
	ID            string   `json:"id"`
	Summary       string   `json:"summary"`
	GoalID        string   `json:"goal_id,omitempty"`
	Priority      string   `json:"priority,omitempty"`
	EstimateHours int      `json:"estimate_hours,omitempty"`
	DependsOn     []string `json:"depends_on,omitempty"`
	AffectedFiles []string `json:"affected_files,omitempty"`
	SolverHint    string   `json:"solver_hint,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Due           string   `json:"due,omitempty"` // RFC3339, optional
}

// Goal is the wire shape of model.Goal.
type Goal struct {
	ID       string   `json:"id"`
	Name     string   `json:"name,omitempty"`
	Priority int      `json:"priority,omitempty"`
	TaskIDs  []string `json:"task_ids,omitempty"`
}

// Weights is the wire shape of model.Weights.
type Weights struct {
	Speed    float64 `json:"speed"`
	Coverage float64 `json:"coverage"`
	Urgency  float64 `json:"urgency"`
}

// Request is the wire shape of model.PlanRequest.
type Request struct {
	Tasks            []Task   `json:"tasks"`
	Goals            []Goal   `json:"goals,omitempty"`
	Weights          *Weights `json:"weights,omitempty"`
	AvailableHours   int      `json:"available_hours,omitempty"`
	MaxParallel      int      `json:"max_parallel,omitempty"`
	CompletedTaskIDs []string `json:"completed_task_ids,omitempty"`
	SolverSeed       int64    `json:"solver_seed,omitempty"`
	SolverBudgetMS   int64    `json:"solver_budget_ms,omitempty"`

	// IssueTagsByID optionally overrides a task's tags for solver
	// matching, mirroring the match() call's issue_tags_by_id parameter
	// (§6) without forcing every task's Tags field to double as it.
	IssueTagsByID map[string][]string `json:"issue_tags_by_id,omitempty"`
}

// DecodeRequest parses raw JSON into a model.PlanRequest plus the
// issue-tag override map consumed by solver matching.
func DecodeRequest(raw []byte) (model.PlanRequest, map[string][]string, error) {
	var in Request
	if err := json.Unmarshal(raw, &in); err != nil {
		return model.PlanRequest{}, nil, fmt.Errorf("planwire: decoding request: %w", err)
	}

	tasks := make([]model.Task, 0, len(in.Tasks))
	for _, t := range in.Tasks {
		mt := model.Task{
			ID:            t.ID,
			Summary:       t.Summary,
			GoalID:        t.GoalID,
			EstimateHours: t.EstimateHours,
			DependsOn:     t.DependsOn,
			AffectedFiles: t.AffectedFiles,
			SolverHint:    t.SolverHint,
			Tags:          t.Tags,
		}
		if t.Priority != "" {
			p, err := model.ParsePriority(t.Priority)
			if err != nil {
				return model.PlanRequest{}, nil, fmt.Errorf("planwire: task %q: %w", t.ID, err)
			}
			mt.Priority = p
		} else {
			mt.Priority = model.PriorityNormal
		}
		if t.Due != "" {
			due, err := time.Parse(time.RFC3339, t.Due)
			if err != nil {
				return model.PlanRequest{}, nil, fmt.Errorf("planwire: task %q due date: %w", t.ID, err)
			}
			mt.Due = &due
		}
		tasks = append(tasks, mt)
	}

	goals := make([]model.Goal, 0, len(in.Goals))
	for _, g := range in.Goals {
		goals = append(goals, model.Goal{ID: g.ID, Name: g.Name, Priority: g.Priority, TaskIDs: g.TaskIDs})
	}

	req := model.PlanRequest{
		Tasks:            tasks,
		Goals:            goals,
		AvailableHours:   in.AvailableHours,
		MaxParallel:      in.MaxParallel,
		CompletedTaskIDs: in.CompletedTaskIDs,
		SolverSeed:       in.SolverSeed,
	}
	if in.Weights != nil {
		req.Weights = model.Weights{Speed: in.Weights.Speed, Coverage: in.Weights.Coverage, Urgency: in.Weights.Urgency}
	}
	if in.SolverBudgetMS > 0 {
		req.SolverBudget = time.Duration(in.SolverBudgetMS) * time.Millisecond
	}

	return req, in.IssueTagsByID, nil
}

// SolverCapability is the wire shape of model.SolverCapability; the
// regex field is a plain pattern string compiled via
// solver.CompileSummaryRegex rather than a serialized regexp.Regexp.
type SolverCapability struct {
	Name                  string   `json:"name"`
	MaxComplexity         int      `json:"max_complexity"`
	ConcurrencyCap        int      `json:"concurrency_cap,omitempty"`
	SummaryPattern        string   `json:"summary_pattern,omitempty"`
	CapabilityTags        []string `json:"capability_tags,omitempty"`
	SupportedFileExt      []string `json:"supported_file_ext,omitempty"`
	RequiredExternalTools []string `json:"required_external_tools,omitempty"`
	Strengths             []string `json:"strengths,omitempty"`
	StaticallyUnavailable bool     `json:"statically_unavailable,omitempty"`
	UnavailableReason     string   `json:"unavailable_reason,omitempty"`
	RateLimitedModels     []string `json:"rate_limited_models,omitempty"`
	AccountID             string   `json:"account_id,omitempty"`
}

// DecodeRegistry parses a JSON array of SolverCapability wire records
// into a *solver.Registry.
func DecodeRegistry(raw []byte) (*solver.Registry, error) {
	var in []SolverCapability
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("planwire: decoding solver registry: %w", err)
	}
	caps := make([]model.SolverCapability, 0, len(in))
	for _, c := range in {
		sc := model.SolverCapability{
			Name:                  c.Name,
			MaxComplexity:         c.MaxComplexity,
			ConcurrencyCap:        c.ConcurrencyCap,
			CapabilityTags:        c.CapabilityTags,
			SupportedFileExt:      c.SupportedFileExt,
			RequiredExternalTools: c.RequiredExternalTools,
			Strengths:             c.Strengths,
			StaticallyUnavailable: c.StaticallyUnavailable,
			UnavailableReason:     c.UnavailableReason,
			RateLimitedModels:     c.RateLimitedModels,
			AccountID:             c.AccountID,
		}
		if c.SummaryPattern != "" {
			re, err := solver.CompileSummaryRegex(c.SummaryPattern)
			if err != nil {
				return nil, fmt.Errorf("planwire: solver %q summary_pattern: %w", c.Name, err)
			}
			sc.SummaryRegex = re
		}
		caps = append(caps, sc)
	}
	return solver.NewRegistry(caps), nil
}
