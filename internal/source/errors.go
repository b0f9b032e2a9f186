package source

import (
	"fmt"
)

// SourceError reports that a source could not be opened, read, or parsed.
// It aborts the whole load; per-row failures use ConversionError instead.
type SourceError struct {
	Origin string
	Op     string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Origin, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// ConversionError reports a failure converting a single row or column. It is
// surfaced only under PolicyError; other policies downgrade it to a warning.
type ConversionError struct {
	Row    int
	Column string
	Err    error
}

func (e *ConversionError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d, column %q: %v", e.Row, e.Column, e.Err)
	}
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// Policy controls how per-row conversion failures are handled.
type Policy string

const (
	// PolicyIgnore keeps the row as-is and moves on silently.
	PolicyIgnore Policy = "ignore"
	// PolicyWarn keeps the row as-is and logs a warning.
	PolicyWarn Policy = "warn"
	// PolicyError aborts the whole load on the first failure.
	PolicyError Policy = "error"
)

// ParsePolicy parses a policy name. Empty input means PolicyIgnore.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "":
		return PolicyIgnore, nil
	case PolicyIgnore, PolicyWarn, PolicyError:
		return Policy(s), nil
	default:
		return "", fmt.Errorf("unknown error policy %q (want ignore, warn, or error)", s)
	}
}
