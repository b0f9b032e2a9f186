package value

// simpleBound is the maximum element count a sequence or mapping may have
// and still be considered simple. The same bound applies to every exporter
// so that key selection stays consistent across output formats.
const simpleBound = 5

// IsSimple reports whether a value is compact enough to inline in a metadata
// block (e.g. YAML front matter) instead of rendering as a structured section.
//
//   - Scalars are always simple.
//   - A sequence is simple iff it has at most 5 elements, all scalar.
//   - A mapping is simple iff it has at most 5 entries and every entry value
//     is recursively simple.
func IsSimple(v Value) bool {
	switch v.Kind() {
	case KindNull, KindBool, KindInt, KindFloat, KindString:
		return true
	case KindSequence:
		if v.Len() > simpleBound {
			return false
		}
		for _, e := range v.Items() {
			if !e.IsScalar() {
				return false
			}
		}
		return true
	case KindMapping:
		if v.Len() > simpleBound {
			return false
		}
		for _, k := range v.Keys() {
			e, _ := v.Get(k)
			if !IsSimple(e) {
				return false
			}
		}
		return true
	}
	return false
}
