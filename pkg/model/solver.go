package model

import "regexp"

// SolverCapability describes one external worker identity's limits and
// strengths (§3, §4.7, §4.9).
type SolverCapability struct {
	Name string

	MaxComplexity  int
	ConcurrencyCap int

	// SummaryRegex, when set, is matched case-insensitively against a
	// task's summary text by the Solver Matcher's rule 2 (§4.9).
	SummaryRegex *regexp.Regexp

	CapabilityTags     []string
	SupportedFileExt    []string
	RequiredExternalTools []string
	Strengths          []string

	// StaticallyUnavailable marks a solver that can never be dispatched
	// to (e.g. "no subscription"), short-circuiting availability (§4.7.1).
	StaticallyUnavailable bool
	UnavailableReason     string

	// RateLimitedModels lists the model names this solver depends on
	// that are subject to rate limiting. An empty list means the solver
	// has no rate-limited models and is always available (§4.7.2).
	RateLimitedModels []string

	// AccountID identifies which account's rate-limit record to consult
	// for this solver's models (§6 RateLimitView key).
	AccountID string
}

// RateLimitRecord is the live rate-limit state for one (model, account)
// pair (§3, §6).
type RateLimitRecord struct {
	Model            string
	Account          string
	IsLimited        bool
	AvailableAtUnixMs int64
}

// CompletionRecord is one append-only history-log entry (§3, §6).
type CompletionRecord struct {
	TaskID        string
	EstimatedHours float64
	ActualHours   float64
	Solver        string
	CompletedAt   string // ISO 8601, kept as the raw string per §6's persistent format
	Success       bool
	Notes         string
}

// SolverMatch is the Solver Matcher's decision for one task (§4.9, §7).
type SolverMatch struct {
	TaskID     string
	Solver     string
	Confidence float64
	Reason     string

	// Fallback names the next-best solver considered, when applicable.
	Fallback string

	// Warning carries a non-fatal annotation for UnknownSolver or
	// RateLimitUnavailable degradation (§7): these never fail a match,
	// they just get noted here.
	Warning string
}
