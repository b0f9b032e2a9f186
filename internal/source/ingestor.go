// Package source loads records from external data sources. Each source kind
// (CSV, JSON, API, MySQL) has its own ingestor type behind a common
// interface; a Registry maps kinds to ingestor factories and detects the
// kind of an unlabelled location.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/dbsmedya/docsmith/internal/record"
)

// ErrStop aborts batch streaming early without reporting a failure. Return
// it from a StreamBatches callback to stop consuming the source.
var ErrStop = errors.New("stop streaming")

// Validation is the outcome of a source accessibility check. Errors are
// fatal; warnings are advisory and never block a load.
type Validation struct {
	Errors   []string
	Warnings []string
}

// OK reports whether the source passed validation.
func (v *Validation) OK() bool { return len(v.Errors) == 0 }

// AddError records a fatal validation failure.
func (v *Validation) AddError(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

// AddWarning records a non-fatal validation finding.
func (v *Validation) AddWarning(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}

// Merge appends another validation's findings.
func (v *Validation) Merge(o *Validation) {
	if o == nil {
		return
	}
	v.Errors = append(v.Errors, o.Errors...)
	v.Warnings = append(v.Warnings, o.Warnings...)
}

// Ingestor loads records from one configured source. Implementations own
// their read cursor exclusively; one ingestor value serves one load and is
// not safe for concurrent use.
type Ingestor interface {
	// Kind returns the source kind identifier (csv, json, api, mysql).
	Kind() string

	// Validate checks that the source is reachable and looks parseable
	// without loading it.
	Validate(ctx context.Context) *Validation

	// LoadAll reads the whole source into a collection.
	LoadAll(ctx context.Context) (*record.Collection, error)

	// StreamBatches reads the source in fixed-size batches, invoking fn
	// for each. Returning ErrStop from fn stops the stream cleanly; any
	// other error aborts and propagates.
	StreamBatches(ctx context.Context, size int, fn func(batch []*record.Record) error) error

	// EstimateSize reports the approximate record count, when the source
	// kind allows estimating it without a full load.
	EstimateSize(ctx context.Context) (int, bool)
}

// streamSlice feeds an already-materialized record list through the
// StreamBatches contract. Used by sources that cannot read incrementally.
func streamSlice(records []*record.Record, size int, fn func(batch []*record.Record) error) error {
	if size <= 0 {
		size = 1
	}
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		if err := fn(records[start:end]); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return err
		}
	}
	return nil
}
