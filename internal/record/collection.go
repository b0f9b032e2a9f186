package record

import (
	"time"

	"github.com/dbsmedya/docsmith/internal/value"
)

// Collection is an ordered sequence of records sharing provenance metadata.
// Order reflects source order. Derived collections (Filter) are new values;
// the original is never mutated.
type Collection struct {
	Records []*Record
	Source  SourceInfo
	Meta    Meta
}

// NewCollection creates an empty collection for the given source.
func NewCollection(src SourceInfo, loader string) *Collection {
	return &Collection{
		Source: src,
		Meta: Meta{
			CreatedAt: time.Now(),
			Loader:    loader,
		},
	}
}

// Add appends a record, preserving source order.
func (c *Collection) Add(r *Record) {
	c.Records = append(c.Records, r)
}

// Len returns the record count.
func (c *Collection) Len() int { return len(c.Records) }

// At returns the i-th record.
func (c *Collection) At(i int) *Record { return c.Records[i] }

// AllKeys returns the union of every record's key-paths, in first-seen
// order across the collection.
func (c *Collection) AllKeys() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range c.Records {
		for _, k := range r.AllKeys() {
			if _, dup := seen[k]; !dup {
				seen[k] = struct{}{}
				out = append(out, k)
			}
		}
	}
	return out
}

// CommonKeys returns the key-paths present in at least the given fraction of
// records (threshold in [0, 1]; 1 means every record).
func (c *Collection) CommonKeys(threshold float64) []string {
	if len(c.Records) == 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, r := range c.Records {
		for _, k := range r.AllKeys() {
			counts[k]++
		}
	}
	min := int(float64(len(c.Records)) * threshold)
	var out []string
	for _, k := range c.AllKeys() {
		if counts[k] >= min {
			out = append(out, k)
		}
	}
	return out
}

// Filter returns a new collection holding the records the predicate keeps.
func (c *Collection) Filter(keep func(*Record) bool) *Collection {
	out := NewCollection(c.Source, c.Meta.Loader)
	for _, r := range c.Records {
		if keep(r) {
			out.Add(r)
		}
	}
	return out
}

// FieldValues returns the value at the given path for every record; absent
// paths contribute null.
func (c *Collection) FieldValues(path string) []value.Value {
	out := make([]value.Value, len(c.Records))
	for i, r := range c.Records {
		v, ok := r.Get(path)
		if !ok {
			v = value.Null()
		}
		out[i] = v
	}
	return out
}

// UniqueValues returns the distinct non-null values at the given path, in
// first-seen order.
func (c *Collection) UniqueValues(path string) []value.Value {
	seen := make(map[string]struct{})
	var out []value.Value
	for _, v := range c.FieldValues(path) {
		if v.IsNull() {
			continue
		}
		key := v.Kind().String() + ":" + v.String()
		if _, dup := seen[key]; !dup {
			seen[key] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}
