// Package debug provides conditional debug logging for the planning
// core's external-interface adapters (ratelimit, history). The pure
// computation packages (depgraph, value, schedule, batch, solver) never
// log, per the §5 pure-function contract; this logger exists only for
// the adapters that do real I/O and can fail or block.
//
// Debug logging is enabled by setting the PLANNER_DEBUG environment
// variable:
//
//	PLANNER_DEBUG=1 planctl -mode=match -solvers solvers.json
//
// When disabled (default), every function here is a no-op with zero
// overhead.
package debug

import (
	"log"
	"os"
	"time"
)

var (
	enabled bool
	logger  *log.Logger
)

func init() {
	if os.Getenv("PLANNER_DEBUG") != "" {
		enabled = true
		logger = log.New(os.Stderr, "[planner] ", log.Ltime|log.Lmicroseconds)
	}
}

// Enabled reports whether debug logging is active.
func Enabled() bool {
	return enabled
}

// Log writes a debug message if debug logging is enabled.
func Log(format string, args ...any) {
	if !enabled {
		return
	}
	logger.Printf(format, args...)
}

// LogTiming writes a timing message if debug logging is enabled.
func LogTiming(name string, d time.Duration) {
	if !enabled {
		return
	}
	logger.Printf("%s took %v", name, d)
}
