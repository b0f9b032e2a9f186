package fieldpath

import (
	"fmt"

	orderedmap "github.com/elliotchance/orderedmap/v2"

	"github.com/dbsmedya/docsmith/internal/value"
)

// Flatten converts a nested mapping into a single-level ordered mapping with
// one entry per leaf. Sequence elements are addressed with an "[i]" suffix;
// mapping elements of a sequence are flattened below "key[i]". Entry order
// follows the mapping's natural key order and, within a sequence, ascending
// index order.
func Flatten(root value.Value, sep string) *orderedmap.OrderedMap[string, value.Value] {
	if sep == "" {
		sep = DefaultSeparator
	}
	out := orderedmap.NewOrderedMap[string, value.Value]()
	flattenInto(out, root, "", sep)
	return out
}

func flattenInto(out *orderedmap.OrderedMap[string, value.Value], v value.Value, prefix, sep string) {
	for _, key := range v.Keys() {
		child, _ := v.Get(key)
		full := key
		if prefix != "" {
			full = prefix + sep + key
		}
		switch child.Kind() {
		case value.KindMapping:
			flattenInto(out, child, full, sep)
		case value.KindSequence:
			for i, elem := range child.Items() {
				indexed := fmt.Sprintf("%s[%d]", full, i)
				if elem.Kind() == value.KindMapping {
					flattenInto(out, elem, indexed, sep)
				} else {
					out.Set(indexed, elem)
				}
			}
		default:
			out.Set(full, child)
		}
	}
}

// Unflatten is the inverse of Flatten: it rebuilds a nested mapping from a
// flat one, filling sequence placeholders in the order keys appear. For any
// mapping m built from scalars, mappings, and non-empty sequences,
// Unflatten(Flatten(m)) equals m.
func Unflatten(flat *orderedmap.OrderedMap[string, value.Value], sep string) value.Value {
	if sep == "" {
		sep = DefaultSeparator
	}
	root := value.Mapping()
	for el := flat.Front(); el != nil; el = el.Next() {
		SetSep(root, el.Key, el.Value, sep)
	}
	return root
}
