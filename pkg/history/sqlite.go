package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/beadwork/pkg/debug"
	"github.com/vanderheijden86/beadwork/pkg/model"
)

// SQLiteSnapshot is a model.HistorySnapshot reading an append-only
// completion log from a read-only SQLite table, the way
// internal/datasource.SQLiteReader opens the beads database: a
// mode=ro DSN with WAL and a busy-timeout pragma, so a concurrent
// writer never blocks this read.
type SQLiteSnapshot struct {
	db   *sql.DB
	rows *sql.Rows
}

// OpenSQLite opens path read-only and prepares a forward-only cursor
// over its "completions" table. The caller must call Close.
func OpenSQLite(path string) (*SQLiteSnapshot, error) {
	start := time.Now()
	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("history: opening %s: %w", path, err)
	}

	rows, err := db.Query(`
		SELECT task_id, estimated_hours, actual_hours, solver, completed_at, success, notes
		FROM completions
		ORDER BY completed_at ASC
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("history: querying completions: %w", err)
	}

	debug.LogTiming("history.OpenSQLite", time.Since(start))
	return &SQLiteSnapshot{db: db, rows: rows}, nil
}

// Next implements model.HistorySnapshot.
func (s *SQLiteSnapshot) Next() (model.CompletionRecord, bool, error) {
	if !s.rows.Next() {
		if err := s.rows.Err(); err != nil {
			return model.CompletionRecord{}, false, fmt.Errorf("history: reading completions: %w", err)
		}
		return model.CompletionRecord{}, false, nil
	}

	var rec model.CompletionRecord
	var notes sql.NullString
	var success sql.NullBool
	if err := s.rows.Scan(&rec.TaskID, &rec.EstimatedHours, &rec.ActualHours, &rec.Solver, &rec.CompletedAt, &success, &notes); err != nil {
		return model.CompletionRecord{}, false, fmt.Errorf("history: scanning completion row: %w", err)
	}
	rec.Success = !success.Valid || success.Bool
	rec.Notes = notes.String
	return rec, true, nil
}

// Close releases the cursor and the underlying connection.
func (s *SQLiteSnapshot) Close() error {
	s.rows.Close()
	return s.db.Close()
}
