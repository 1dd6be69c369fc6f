package model

import (
	"fmt"
	"strings"
)

// Priority is an ordered enum matching the source's numeric scale.
// Higher values sort first when comparing urgency or breaking topological ties.
type Priority int

const (
	PriorityMinor       Priority = 1
	PriorityNormal      Priority = 2
	PriorityMajor       Priority = 3
	PriorityCritical    Priority = 4
	PriorityShowStopper Priority = 5
)

// String renders the canonical upper-case name for a priority value.
func (p Priority) String() string {
	switch p {
	case PriorityShowStopper:
		return "SHOW_STOPPER"
	case PriorityCritical:
		return "CRITICAL"
	case PriorityMajor:
		return "MAJOR"
	case PriorityNormal:
		return "NORMAL"
	case PriorityMinor:
		return "MINOR"
	default:
		return fmt.Sprintf("PRIORITY(%d)", int(p))
	}
}

// ParsePriority parses a case-insensitive priority name into its numeric value.
// Unknown names return PriorityNormal together with a non-nil error.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SHOW_STOPPER", "SHOWSTOPPER", "P0":
		return PriorityShowStopper, nil
	case "CRITICAL", "P1":
		return PriorityCritical, nil
	case "MAJOR", "P2":
		return PriorityMajor, nil
	case "NORMAL", "P3":
		return PriorityNormal, nil
	case "MINOR", "P4":
		return PriorityMinor, nil
	default:
		return PriorityNormal, fmt.Errorf("unknown priority %q", s)
	}
}

// Valid reports whether p is one of the five defined levels.
func (p Priority) Valid() bool {
	return p >= PriorityMinor && p <= PriorityShowStopper
}
