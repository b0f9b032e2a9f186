// Package fieldpath implements dot-notation access, flattening, and
// un-flattening over nested record values.
//
// A path is a sequence of dot-separated segments. A segment may carry a
// bracketed integer suffix ("items[2]") addressing a sequence element.
// A key that contains the separator inside its own name is indistinguishable
// from a path divider; that ambiguity is inherited from the source data
// formats and is deliberately not resolved here.
package fieldpath

import (
	"strconv"
	"strings"

	"github.com/dbsmedya/docsmith/internal/value"
)

// DefaultSeparator is the path separator exposed to exporters and key
// selection. Flatten and Unflatten accept alternatives.
const DefaultSeparator = "."

// segment is one parsed path element.
type segment struct {
	name    string
	index   int
	indexed bool
}

// parseSegment splits "name[3]" into a name and an index. Anything that does
// not look like a well-formed index suffix is treated as a literal name.
func parseSegment(s string) segment {
	open := strings.IndexByte(s, '[')
	if open < 0 || !strings.HasSuffix(s, "]") {
		return segment{name: s}
	}
	idx, err := strconv.Atoi(s[open+1 : len(s)-1])
	if err != nil || idx < 0 {
		return segment{name: s}
	}
	return segment{name: s[:open], index: idx, indexed: true}
}

func parsePath(path, sep string) []segment {
	parts := strings.Split(path, sep)
	segs := make([]segment, len(parts))
	for i, p := range parts {
		segs[i] = parseSegment(p)
	}
	return segs
}

// Get resolves a dot-notation path against a nested value. Resolution of a
// missing segment yields absent (ok=false), never an error. For an indexed
// segment the name must resolve to a sequence and the index must be in
// bounds.
func Get(root value.Value, path string) (value.Value, bool) {
	return GetSep(root, path, DefaultSeparator)
}

// GetSep is Get with a caller-chosen separator.
func GetSep(root value.Value, path string, sep string) (value.Value, bool) {
	cur := root
	for _, seg := range parsePath(path, sep) {
		child, ok := cur.Get(seg.name)
		if !ok {
			return value.Null(), false
		}
		if seg.indexed {
			child, ok = child.At(seg.index)
			if !ok {
				return value.Null(), false
			}
		}
		cur = child
	}
	return cur, true
}

// Set assigns a value at a dot-notation path, creating intermediate mappings
// for missing segments. Indexed segments grow the target sequence with null
// placeholders until the index is reachable. Intermediate values of the
// wrong shape are replaced (last write wins). The root must be a mapping.
func Set(root value.Value, path string, v value.Value) bool {
	return SetSep(root, path, v, DefaultSeparator)
}

// SetSep is Set with a caller-chosen separator.
func SetSep(root value.Value, path string, v value.Value, sep string) bool {
	if root.Kind() != value.KindMapping || path == "" {
		return false
	}

	segs := parsePath(path, sep)
	cur := root
	for _, seg := range segs[:len(segs)-1] {
		cur = descend(cur, seg)
	}

	last := segs[len(segs)-1]
	if !last.indexed {
		cur.Set(last.name, v)
		return true
	}

	seq, _ := cur.Get(last.name)
	elems := growSequence(seq, last.index)
	elems[last.index] = v
	cur.Set(last.name, value.Sequence(elems...))
	return true
}

// descend walks one segment, materializing missing intermediates, and
// returns the mapping to continue from.
func descend(cur value.Value, seg segment) value.Value {
	if !seg.indexed {
		child, ok := cur.Get(seg.name)
		if !ok || child.Kind() != value.KindMapping {
			child = value.Mapping()
			cur.Set(seg.name, child)
		}
		return child
	}

	seq, _ := cur.Get(seg.name)
	elems := growSequence(seq, seg.index)
	elem := elems[seg.index]
	if elem.Kind() != value.KindMapping {
		elem = value.Mapping()
		elems[seg.index] = elem
	}
	cur.Set(seg.name, value.Sequence(elems...))
	return elem
}

// growSequence returns the elements of seq extended with null placeholders
// so that index is addressable. Non-sequence inputs start from empty.
func growSequence(seq value.Value, index int) []value.Value {
	var elems []value.Value
	if seq.Kind() == value.KindSequence {
		elems = append(elems, seq.Items()...)
	}
	for len(elems) <= index {
		elems = append(elems, value.Null())
	}
	return elems
}
