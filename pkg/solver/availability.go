package solver

import (
	"github.com/vanderheijden86/beadwork/pkg/model"
)

// Availability is the outcome of a §4.7 availability lookup.
type Availability struct {
	Available bool
	Reason    string

	// EarliestAvailableAtUnixMs is the earliest availableAtUnix across
	// all-limited models, persisted for the caller per §4.7 step 3. Zero
	// when not meaningful (the solver is available, or has no
	// rate-limited models).
	EarliestAvailableAtUnixMs int64
}

// Check implements the §4.7 availability rule chain for one solver.
func (r *Registry) Check(name string, rl model.RateLimitView, nowUnixMs int64) Availability {
	capa, ok := r.Get(name)
	if !ok {
		return Availability{Available: false, Reason: "solver not registered"}
	}

	if capa.StaticallyUnavailable {
		reason := capa.UnavailableReason
		if reason == "" {
			reason = "statically unavailable"
		}
		return Availability{Available: false, Reason: reason}
	}

	if len(capa.RateLimitedModels) == 0 {
		return Availability{Available: true, Reason: "no rate-limited models"}
	}

	var earliest int64
	haveEarliest := false
	anyAvailable := false
	sawViewError := false

	for _, modelName := range capa.RateLimitedModels {
		rec, present, err := rl.Get(modelName, capa.AccountID)
		if err != nil {
			sawViewError = true
			continue
		}
		if !present || !rec.IsLimited || rec.AvailableAtUnixMs <= nowUnixMs {
			anyAvailable = true
			continue
		}
		if !haveEarliest || rec.AvailableAtUnixMs < earliest {
			earliest = rec.AvailableAtUnixMs
			haveEarliest = true
		}
	}

	if anyAvailable {
		return Availability{Available: true, Reason: "at least one model available"}
	}

	if sawViewError && !haveEarliest {
		// §4.7 step 4: the rate-limit view is unreachable for every
		// model we tried — treat the solver as available and tag the
		// reason accordingly.
		return Availability{Available: true, Reason: "assuming available: rate limit view unreachable"}
	}

	return Availability{
		Available:                 false,
		Reason:                    "all models rate-limited",
		EarliestAvailableAtUnixMs: earliest,
	}
}
