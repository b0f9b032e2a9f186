package record

import (
	"sort"
	"strings"

	orderedmap "github.com/elliotchance/orderedmap/v2"

	"github.com/dbsmedya/docsmith/internal/value"
)

// Stats summarizes a collection at a glance.
type Stats struct {
	RecordCount int
	UniqueKeys  int
	CommonKeys  int // keys present in at least half the records
}

// Summarize computes collection-level statistics.
func Summarize(c *Collection) Stats {
	return Stats{
		RecordCount: c.Len(),
		UniqueKeys:  len(c.AllKeys()),
		CommonKeys:  len(c.CommonKeys(0.5)),
	}
}

// FieldQuality describes per-field data quality across a collection.
type FieldQuality struct {
	Present int // records where the path resolves
	Nulls   int
	Empties int // present but blank strings
	Unique  int // distinct non-null, non-empty values
	Samples []string
}

const qualitySampleLimit = 5

// Quality analyzes every leaf key-path in the collection, keyed in
// first-seen order.
func Quality(c *Collection) *orderedmap.OrderedMap[string, FieldQuality] {
	out := orderedmap.NewOrderedMap[string, FieldQuality]()

	var paths []string
	seen := make(map[string]struct{})
	for _, r := range c.Records {
		for _, p := range r.LeafKeys() {
			if _, dup := seen[p]; !dup {
				seen[p] = struct{}{}
				paths = append(paths, p)
			}
		}
	}

	for _, path := range paths {
		var q FieldQuality
		uniq := make(map[string]struct{})
		for _, r := range c.Records {
			v, ok := r.Get(path)
			if !ok {
				continue
			}
			q.Present++
			switch {
			case v.IsNull():
				q.Nulls++
			case v.Kind() == value.KindString && strings.TrimSpace(v.Str()) == "":
				q.Empties++
			default:
				s := v.String()
				if _, dup := uniq[s]; !dup {
					uniq[s] = struct{}{}
					if len(q.Samples) < qualitySampleLimit {
						q.Samples = append(q.Samples, s)
					}
				}
			}
		}
		q.Unique = len(uniq)
		out.Set(path, q)
	}
	return out
}

// Aggregate holds numeric summary statistics for one field.
type Aggregate struct {
	Count  int
	Sum    float64
	Mean   float64
	Min    float64
	Max    float64
	Median float64
}

// NumericAggregates computes aggregates for the given field paths, skipping
// non-numeric values. Paths with no numeric values are omitted.
func NumericAggregates(c *Collection, paths []string) *orderedmap.OrderedMap[string, Aggregate] {
	out := orderedmap.NewOrderedMap[string, Aggregate]()
	for _, path := range paths {
		var vals []float64
		for _, v := range c.FieldValues(path) {
			if f, ok := value.AsFloat64(v); ok {
				vals = append(vals, f)
			}
		}
		if len(vals) == 0 {
			continue
		}
		agg := Aggregate{Count: len(vals), Min: vals[0], Max: vals[0]}
		for _, f := range vals {
			agg.Sum += f
			if f < agg.Min {
				agg.Min = f
			}
			if f > agg.Max {
				agg.Max = f
			}
		}
		agg.Mean = agg.Sum / float64(len(vals))
		sorted := append([]float64(nil), vals...)
		sort.Float64s(sorted)
		agg.Median = sorted[len(sorted)/2]
		out.Set(path, agg)
	}
	return out
}

// NumericPaths detects field paths holding numeric values, sampling up to
// the first ten records.
func NumericPaths(c *Collection) []string {
	limit := c.Len()
	if limit > 10 {
		limit = 10
	}
	var out []string
	seen := make(map[string]struct{})
	for _, r := range c.Records[:limit] {
		for _, p := range r.LeafKeys() {
			if _, dup := seen[p]; dup {
				continue
			}
			v, _ := r.Get(p)
			if _, ok := value.AsFloat64(v); ok {
				seen[p] = struct{}{}
				out = append(out, p)
			}
		}
	}
	return out
}

// ValueCounts tallies occurrences of each rendered value at a path. Null
// values count under "null".
func ValueCounts(c *Collection, path string) *orderedmap.OrderedMap[string, int] {
	out := orderedmap.NewOrderedMap[string, int]()
	for _, r := range c.Records {
		v, ok := r.Get(path)
		if !ok {
			continue
		}
		key := v.String()
		n, _ := out.Get(key)
		out.Set(key, n+1)
	}
	return out
}

// GroupBy partitions records by their rendered value at a path. Records
// where the path is absent are grouped under "null".
func GroupBy(c *Collection, path string) *orderedmap.OrderedMap[string, *Collection] {
	out := orderedmap.NewOrderedMap[string, *Collection]()
	for _, r := range c.Records {
		v, ok := r.Get(path)
		key := "null"
		if ok && !v.IsNull() {
			key = v.String()
		}
		group, exists := out.Get(key)
		if !exists {
			group = NewCollection(c.Source, c.Meta.Loader)
			out.Set(key, group)
		}
		group.Add(r)
	}
	return out
}
