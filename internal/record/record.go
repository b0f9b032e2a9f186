// Package record holds the canonical in-memory representation of normalized
// data units: single records with provenance, ordered collections, and the
// flat-to-nested conversion used by tabular sources.
package record

import (
	"time"

	orderedmap "github.com/elliotchance/orderedmap/v2"

	"github.com/dbsmedya/docsmith/internal/fieldpath"
	"github.com/dbsmedya/docsmith/internal/value"
)

// SourceInfo is provenance metadata attached to a record or collection.
type SourceInfo struct {
	Origin string // file path, URL, or DSN the data came from
	Kind   string // source kind: csv, json, api, mysql
	Index  int    // positional index within the source
}

// Meta is processing metadata stamped by loaders and transforms.
type Meta struct {
	CreatedAt  time.Time
	Loader     string
	Normalized string // name style applied by a normalizer, if any
}

// Record is one normalized data unit. Fields is always a mapping at the
// root. Records are never mutated after their loader finishes; transforms
// produce new records.
type Record struct {
	Fields value.Value
	Source SourceInfo
	Meta   Meta
}

// New creates a record from a nested mapping. Non-mapping fields are wrapped
// under a single "value" key so the root invariant always holds.
func New(fields value.Value, src SourceInfo, loader string) *Record {
	if fields.Kind() != value.KindMapping {
		wrapped := value.Mapping()
		wrapped.Set("value", fields)
		fields = wrapped
	}
	return &Record{
		Fields: fields,
		Source: src,
		Meta: Meta{
			CreatedAt: time.Now(),
			Loader:    loader,
		},
	}
}

// Get resolves a dot-notation field path. Absent paths report ok=false.
func (r *Record) Get(path string) (value.Value, bool) {
	return fieldpath.Get(r.Fields, path)
}

// Set assigns a field at a dot-notation path, creating intermediates.
func (r *Record) Set(path string, v value.Value) {
	fieldpath.Set(r.Fields, path, v)
}

// Flatten returns a single-level ordered mapping keyed by field paths.
func (r *Record) Flatten(sep string) *orderedmap.OrderedMap[string, value.Value] {
	return fieldpath.Flatten(r.Fields, sep)
}

// AllKeys returns every key-path in the record, branches included.
func (r *Record) AllKeys() []string {
	return fieldpath.Keys(r.Fields)
}

// LeafKeys returns the record's leaf key-paths (scalar, sequence, or empty
// mapping values).
func (r *Record) LeafKeys() []string {
	return fieldpath.Leaves(r.Fields)
}
