package history

import (
	"io"
	"strings"

	"github.com/vanderheijden86/beadwork/pkg/model"
)

// Open picks a HistorySnapshot implementation by file extension, the
// way internal/datasource.DiscoverSources prefers SQLite over JSONL
// for the same logical source: ".db"/".sqlite"/".sqlite3" opens the
// read-only SQLite adapter, anything else opens the JSONL adapter.
func Open(path string, warn WarningHandler) (model.HistorySnapshot, io.Closer, error) {
	if isSQLitePath(path) {
		snap, err := OpenSQLite(path)
		if err != nil {
			return nil, nil, err
		}
		return snap, snap, nil
	}
	snap, err := openJSONL(path, warn)
	if err != nil {
		return nil, nil, err
	}
	return snap, snap, nil
}

func isSQLitePath(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".db") || strings.HasSuffix(lower, ".sqlite") || strings.HasSuffix(lower, ".sqlite3")
}
