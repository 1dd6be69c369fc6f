package planwire

import (
	"testing"

	"github.com/vanderheijden86/beadwork/pkg/model"
)

func TestDecodeRequest_AppliesPrioritiesAndDue(t *testing.T) {
	raw := []byte(`{
		"tasks": [
			{"id": "T1", "summary": "fix auth", "priority": "CRITICAL", "estimate_hours": 8, "due": "2026-02-01T00:00:00Z"},
			{"id": "T2", "depends_on": ["T1"]}
		],
		"goals": [{"id": "G1", "task_ids": ["T1", "T2"]}],
		"weights": {"speed": 2, "coverage": 1, "urgency": 1},
		"available_hours": 20,
		"max_parallel": 3
	}`)

	req, _, err := DecodeRequest(raw)
	if err != nil {
		t.Fatalf("DecodeRequest: %v", err)
	}
	if len(req.Tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(req.Tasks))
	}
	if req.Tasks[0].Priority != model.PriorityCritical {
		t.Fatalf("expected CRITICAL priority, got %v", req.Tasks[0].Priority)
	}
	if req.Tasks[0].Due == nil {
		t.Fatal("expected a parsed due date")
	}
	if req.Tasks[1].Priority != model.PriorityNormal {
		t.Fatalf("expected default NORMAL priority for T2, got %v", req.Tasks[1].Priority)
	}
	if req.Weights.Speed != 2 {
		t.Fatalf("expected weights to carry through, got %+v", req.Weights)
	}
}

func TestDecodeRequest_RejectsUnknownPriority(t *testing.T) {
	raw := []byte(`{"tasks": [{"id": "T1", "priority": "urgent-ish"}]}`)
	if _, _, err := DecodeRequest(raw); err == nil {
		t.Fatal("expected an error for an unrecognized priority name")
	}
}

func TestDecodeRegistry_CompilesSummaryPattern(t *testing.T) {
	raw := []byte(`[
		{"name": "jules", "max_complexity": 7, "summary_pattern": "refactor"},
		{"name": "perplexity", "max_complexity": 3, "statically_unavailable": true, "unavailable_reason": "no subscription"}
	]`)
	reg, err := DecodeRegistry(raw)
	if err != nil {
		t.Fatalf("DecodeRegistry: %v", err)
	}
	jules, ok := reg.Get("jules")
	if !ok {
		t.Fatal("expected jules to be registered")
	}
	if jules.SummaryRegex == nil || !jules.SummaryRegex.MatchString("Refactor the parser") {
		t.Fatalf("expected a case-insensitive compiled regex, got %+v", jules.SummaryRegex)
	}
	perplexity, ok := reg.Get("perplexity")
	if !ok || !perplexity.StaticallyUnavailable {
		t.Fatalf("expected perplexity to be statically unavailable, got %+v", perplexity)
	}
}
