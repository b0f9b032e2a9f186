// Package selection decides, per export, which of a record's key-paths are
// inlined into a metadata block and which are rendered as structured
// sections.
package selection

import (
	"fmt"
	"strings"

	orderedmap "github.com/elliotchance/orderedmap/v2"

	"github.com/dbsmedya/docsmith/internal/record"
	"github.com/dbsmedya/docsmith/internal/value"
)

// Mode names a key-selection strategy.
type Mode string

const (
	// ModeAll inlines every leaf whose value classifies as simple.
	ModeAll Mode = "all"
	// ModeSelect inlines only explicitly chosen keys; everything else is
	// residual even when simple.
	ModeSelect Mode = "select"
	// ModeFlatten behaves like all and additionally signals the renderer to
	// flatten residual structures so nothing nested survives.
	ModeFlatten Mode = "flatten"
	// ModeNone inlines nothing; full content goes to the structured path.
	ModeNone Mode = "none"
)

// ParseMode validates a mode string from configuration.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAll, ModeSelect, ModeFlatten, ModeNone:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown key selection mode %q (want all, select, flatten, or none)", s)
}

// KeySelection is a per-export selection decision.
type KeySelection struct {
	Mode          Mode
	SelectedKeys  []string
	FlattenNested bool
}

// normalized applies the mode invariants: select without keys falls back to
// all, none always carries an empty key set, flatten always signals the
// renderer.
func (ks KeySelection) normalized() KeySelection {
	out := ks
	switch out.Mode {
	case ModeSelect:
		if len(out.SelectedKeys) == 0 {
			out.Mode = ModeAll
		}
	case ModeNone:
		out.SelectedKeys = nil
	case ModeFlatten:
		out.FlattenNested = true
	}
	return out
}

// Result is the partition of a record's leaf key-paths. Inline holds the
// key-paths (and resolved values) to serialize compactly; Residual holds the
// key-paths to render as structured sections. For modes all, flatten, and
// none the two sets are disjoint and together cover every leaf key-path.
type Result struct {
	Inline        *orderedmap.OrderedMap[string, value.Value]
	Residual      []string
	FlattenNested bool
}

// Select partitions one record's key-paths according to the configuration.
func Select(r *record.Record, cfg KeySelection) Result {
	cfg = cfg.normalized()
	res := Result{
		Inline:        orderedmap.NewOrderedMap[string, value.Value](),
		FlattenNested: cfg.FlattenNested,
	}
	leaves := r.LeafKeys()

	switch cfg.Mode {
	case ModeSelect:
		for _, key := range cfg.SelectedKeys {
			if v, ok := r.Get(key); ok {
				res.Inline.Set(key, v)
			}
		}
		// Selection is exclusionary: every leaf not selected, and not under
		// a selected branch, is residual even when simple.
		for _, leaf := range leaves {
			if !coveredBy(leaf, cfg.SelectedKeys) {
				res.Residual = append(res.Residual, leaf)
			}
		}
	case ModeNone:
		res.Residual = append(res.Residual, leaves...)
	default: // all, flatten
		for _, leaf := range leaves {
			v, _ := r.Get(leaf)
			if value.IsSimple(v) {
				res.Inline.Set(leaf, v)
			} else {
				res.Residual = append(res.Residual, leaf)
			}
		}
	}
	return res
}

// SelectCollection computes the selection for every record in a collection,
// in source order.
func SelectCollection(c *record.Collection, cfg KeySelection) []Result {
	out := make([]Result, c.Len())
	for i, r := range c.Records {
		out[i] = Select(r, cfg)
	}
	return out
}

// coveredBy reports whether a leaf path equals one of the selected keys or
// sits beneath a selected branch.
func coveredBy(leaf string, selected []string) bool {
	for _, key := range selected {
		if leaf == key || strings.HasPrefix(leaf, key+".") {
			return true
		}
	}
	return false
}
