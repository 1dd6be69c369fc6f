// Package history provides a model.HistorySnapshot backed by a
// newline-delimited JSON completion log on disk, following the same
// bufio.Scanner-plus-warn-and-skip idiom the teacher's loader uses for
// issue JSONL files.
package history

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/beadwork/pkg/model"
)

// maxLineCapacity bounds a single completion-log line, mirroring the
// teacher's 10MB cap on issue JSONL lines.
const maxLineCapacity = 1024 * 1024 * 10

// record is the on-disk shape of one completion-log line (SPEC_FULL.md
// §6): required task_id/estimated_hours/actual_hours/solver/completed_at,
// optional success (defaults true) and notes.
type record struct {
	TaskID        string   `json:"task_id"`
	EstimatedHours float64  `json:"estimated_hours"`
	ActualHours   float64  `json:"actual_hours"`
	Solver        string   `json:"solver"`
	CompletedAt   string   `json:"completed_at"`
	Success       *bool    `json:"success,omitempty"`
	Notes         string   `json:"notes,omitempty"`
}

// WarningHandler receives a message for each skipped, malformed, or
// invalid completion-log line. If nil, warnings print to os.Stderr.
type WarningHandler func(string)

// Snapshot is a single-pass model.HistorySnapshot over a completion-log
// JSONL stream: it reads and validates one line per Next call rather
// than materializing the whole file up front.
type Snapshot struct {
	scanner *bufio.Scanner
	warn    WarningHandler
	lineNum int
	closer  io.Closer
}

// NewSnapshot wraps an already-open reader. The caller retains
// ownership of r; Close is a no-op unless r also implements io.Closer
// and was obtained via Open.
func NewSnapshot(r io.Reader, warn WarningHandler) *Snapshot {
	if warn == nil {
		warn = func(msg string) {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
		}
	}
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, maxLineCapacity)
	return &Snapshot{scanner: scanner, warn: warn}
}

// openJSONL opens path and returns a Snapshot that closes the file when
// the caller calls Close.
func openJSONL(path string, warn WarningHandler) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("history: opening %s: %w", path, err)
	}
	s := NewSnapshot(f, warn)
	s.closer = f
	return s, nil
}

// Close releases the underlying file, if any.
func (s *Snapshot) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// Next implements model.HistorySnapshot. It scans forward until it
// finds a well-formed completion record or reaches the end of the
// stream; malformed lines are warned about and skipped rather than
// aborting the whole drain.
func (s *Snapshot) Next() (model.CompletionRecord, bool, error) {
	for s.scanner.Scan() {
		s.lineNum++
		line := s.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if s.lineNum == 1 {
			line = stripBOM(line)
		}

		var rec record
		if err := json.Unmarshal(line, &rec); err != nil {
			s.warn(fmt.Sprintf("skipping malformed completion record on line %d: %v", s.lineNum, err))
			continue
		}
		if rec.TaskID == "" || rec.Solver == "" {
			s.warn(fmt.Sprintf("skipping incomplete completion record on line %d: missing task_id or solver", s.lineNum))
			continue
		}

		success := true
		if rec.Success != nil {
			success = *rec.Success
		}
		return model.CompletionRecord{
			TaskID:         rec.TaskID,
			EstimatedHours: rec.EstimatedHours,
			ActualHours:    rec.ActualHours,
			Solver:         rec.Solver,
			CompletedAt:    rec.CompletedAt,
			Success:        success,
			Notes:          rec.Notes,
		}, true, nil
	}
	if err := s.scanner.Err(); err != nil {
		return model.CompletionRecord{}, false, fmt.Errorf("history: reading completion log: %w", err)
	}
	return model.CompletionRecord{}, false, nil
}

func stripBOM(b []byte) []byte {
	if bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) {
		return b[3:]
	}
	return b
}
