package record

import (
	"strings"

	"github.com/dbsmedya/docsmith/internal/value"
)

// DefaultFieldSeparator is the column-name separator that encodes nesting in
// flat sources ("profile_age" becomes profile.age).
const DefaultFieldSeparator = "_"

// ConvertOptions controls flat-to-nested conversion.
type ConvertOptions struct {
	// Separator splits column names into nesting segments. Empty means "_".
	Separator string
	// DetectTypes runs scalar type inference on every leaf value.
	DetectTypes bool
	// NullTokens overrides the raw strings inferred as null. Nil keeps the
	// defaults. Only consulted when DetectTypes is set.
	NullTokens map[string]struct{}
}

func (o ConvertOptions) separator() string {
	if o.Separator == "" {
		return DefaultFieldSeparator
	}
	return o.Separator
}

// Convert builds a nested mapping from a flat column->value row. Column
// names are split on the separator; intermediate mappings are created as
// needed and the raw value is assigned at the last segment. Columns with an
// empty name are skipped.
//
// The result is independent of column order: processing columns in any order
// yields a structurally equal mapping (two columns producing the same path
// is a caller error and resolves last-write-wins). A literal separator
// inside a field's own name is indistinguishable from a nesting divider.
func Convert(columns []string, row map[string]string, opts ConvertOptions) value.Value {
	sep := opts.separator()
	nested := value.Mapping()

	for _, col := range columns {
		if col == "" {
			continue
		}
		raw, ok := row[col]
		if !ok {
			continue
		}

		var leaf value.Value
		if opts.DetectTypes {
			leaf = value.Infer(raw, opts.NullTokens)
		} else {
			leaf = value.String(raw)
		}

		setNested(nested, col, sep, leaf)
	}

	return nested
}

// ConvertValues is Convert for sources whose values arrive already typed,
// such as database rows. Column names nest on the separator the same way;
// when DetectTypes is set, string values still pass through inference.
func ConvertValues(columns []string, row map[string]value.Value, opts ConvertOptions) value.Value {
	sep := opts.separator()
	nested := value.Mapping()

	for _, col := range columns {
		if col == "" {
			continue
		}
		leaf, ok := row[col]
		if !ok {
			continue
		}
		if opts.DetectTypes && leaf.Kind() == value.KindString {
			leaf = value.Infer(leaf.Str(), opts.NullTokens)
		}

		setNested(nested, col, sep, leaf)
	}

	return nested
}

// setNested walks the separator-split column name through the mapping,
// creating intermediate mappings, and assigns the leaf at the last segment.
func setNested(root value.Value, col, sep string, leaf value.Value) {
	cur := root
	segs := strings.Split(col, sep)
	for _, seg := range segs[:len(segs)-1] {
		child, ok := cur.Get(seg)
		if !ok || child.Kind() != value.KindMapping {
			child = value.Mapping()
			cur.Set(seg, child)
		}
		cur = child
	}
	cur.Set(segs[len(segs)-1], leaf)
}

// ConvertMap is Convert for callers that have no meaningful column order;
// the mapping's key order follows Go's map iteration and is therefore
// unspecified, but the resulting structure is deterministic.
func ConvertMap(row map[string]string, opts ConvertOptions) value.Value {
	columns := make([]string, 0, len(row))
	for col := range row {
		columns = append(columns, col)
	}
	return Convert(columns, row, opts)
}
