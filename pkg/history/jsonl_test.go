package history

import (
	"strings"
	"testing"

	"github.com/vanderheijden86/beadwork/pkg/model"
)

func TestSnapshot_DrainsWellFormedRecords(t *testing.T) {
	body := `{"task_id":"a","estimated_hours":4,"actual_hours":8,"solver":"jules","completed_at":"2026-01-01T00:00:00Z"}
{"task_id":"b","estimated_hours":2,"actual_hours":1,"solver":"jules","completed_at":"2026-01-02T00:00:00Z","success":false,"notes":"reverted"}
`
	snap := NewSnapshot(strings.NewReader(body), func(string) {})
	records, err := model.DrainHistory(snap)
	if err != nil {
		t.Fatalf("DrainHistory: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(records), records)
	}
	if !records[0].Success {
		t.Fatalf("record with no explicit success should default true: %+v", records[0])
	}
	if records[1].Success {
		t.Fatalf("record with explicit success=false should stay false: %+v", records[1])
	}
}

func TestSnapshot_SkipsMalformedAndIncompleteLines(t *testing.T) {
	body := `not json at all
{"task_id":"","solver":"jules","estimated_hours":1,"actual_hours":1,"completed_at":"x"}
{"task_id":"c","solver":"","estimated_hours":1,"actual_hours":1,"completed_at":"x"}

{"task_id":"d","solver":"jules","estimated_hours":3,"actual_hours":3,"completed_at":"2026-02-01T00:00:00Z"}
`
	var warnings []string
	snap := NewSnapshot(strings.NewReader(body), func(msg string) {
		warnings = append(warnings, msg)
	})
	records, err := model.DrainHistory(snap)
	if err != nil {
		t.Fatalf("DrainHistory: %v", err)
	}
	if len(records) != 1 || records[0].TaskID != "d" {
		t.Fatalf("expected only the one well-formed record to survive, got %+v", records)
	}
	if len(warnings) != 3 {
		t.Fatalf("expected 3 warnings (malformed, empty task_id, empty solver), got %d: %v", len(warnings), warnings)
	}
}

func TestSnapshot_EmptyStreamYieldsNoRecords(t *testing.T) {
	snap := NewSnapshot(strings.NewReader(""), func(string) {})
	rec, ok, err := snap.Next()
	if err != nil || ok {
		t.Fatalf("expected (zero, false, nil) on empty stream, got (%+v, %v, %v)", rec, ok, err)
	}
}
