package fieldpath

import "github.com/dbsmedya/docsmith/internal/value"

// Keys enumerates every key-path in a nested mapping, branches included, in
// natural key order. Index notation never appears; a sequence is addressed
// by the path of the key holding it.
func Keys(root value.Value) []string {
	var out []string
	walkKeys(root, "", func(path string, _ value.Value, _ bool) {
		out = append(out, path)
	})
	return out
}

// Leaves enumerates the leaf key-paths of a nested mapping: paths whose
// value is a scalar, a sequence, or an empty mapping. These are the paths
// the key-selection engine partitions into inline and residual sets.
func Leaves(root value.Value) []string {
	var out []string
	walkKeys(root, "", func(path string, _ value.Value, leaf bool) {
		if leaf {
			out = append(out, path)
		}
	})
	return out
}

func walkKeys(v value.Value, prefix string, visit func(path string, v value.Value, leaf bool)) {
	for _, key := range v.Keys() {
		child, _ := v.Get(key)
		full := key
		if prefix != "" {
			full = prefix + DefaultSeparator + key
		}
		if child.Kind() == value.KindMapping && child.Len() > 0 {
			visit(full, child, false)
			walkKeys(child, full, visit)
		} else {
			visit(full, child, true)
		}
	}
}
