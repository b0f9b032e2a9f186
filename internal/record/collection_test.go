package record

import (
	"fmt"
	"testing"

	"github.com/dbsmedya/docsmith/internal/value"
)

func testCollection() *Collection {
	c := NewCollection(SourceInfo{Origin: "people.csv", Kind: "csv"}, "csv")
	for i, row := range []map[string]string{
		{"name": "Ann", "dept": "eng", "age": "30"},
		{"name": "Bob", "dept": "eng", "age": "41"},
		{"name": "Cat", "dept": "ops", "age": "35", "extra": "x"},
	} {
		fields := ConvertMap(row, ConvertOptions{DetectTypes: true})
		r := New(fields, SourceInfo{Origin: "people.csv", Kind: "csv", Index: i}, "csv")
		c.Add(r)
	}
	return c
}

func TestCollectionOrderAndLength(t *testing.T) {
	c := testCollection()
	if c.Len() != 3 {
		t.Fatalf("expected 3 records, got %d", c.Len())
	}
	for i := 0; i < c.Len(); i++ {
		if c.At(i).Source.Index != i {
			t.Errorf("record %d has source index %d", i, c.At(i).Source.Index)
		}
	}
}

func TestCollectionAllKeys(t *testing.T) {
	c := testCollection()
	keys := c.AllKeys()

	want := map[string]bool{"name": true, "dept": true, "age": true, "extra": true}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %v", len(want), keys)
	}
	for _, k := range keys {
		if !want[k] {
			t.Errorf("unexpected key %q", k)
		}
	}
}

func TestCollectionCommonKeys(t *testing.T) {
	c := testCollection()

	full := c.CommonKeys(1.0)
	for _, k := range full {
		if k == "extra" {
			t.Errorf("'extra' appears in one record only, should not be common at 1.0")
		}
	}
	if len(full) != 3 {
		t.Errorf("expected 3 fully-common keys, got %v", full)
	}

	loose := c.CommonKeys(0.3)
	if len(loose) != 4 {
		t.Errorf("expected all 4 keys common at 0.3, got %v", loose)
	}
}

func TestCollectionFilterDoesNotMutate(t *testing.T) {
	c := testCollection()
	eng := c.Filter(func(r *Record) bool {
		v, _ := r.Get("dept")
		return v.Str() == "eng"
	})

	if eng.Len() != 2 {
		t.Errorf("expected 2 eng records, got %d", eng.Len())
	}
	if c.Len() != 3 {
		t.Errorf("filter mutated the original collection: %d records", c.Len())
	}
}

func TestCollectionFieldValues(t *testing.T) {
	c := testCollection()

	ages := c.FieldValues("age")
	if len(ages) != 3 || ages[0].Int() != 30 {
		t.Errorf("unexpected age values: %v", ages)
	}

	// Absent paths contribute null.
	extras := c.FieldValues("extra")
	if !extras[0].IsNull() || extras[2].Str() != "x" {
		t.Errorf("unexpected extra values: %v", extras)
	}
}

func TestCollectionUniqueValues(t *testing.T) {
	c := testCollection()
	depts := c.UniqueValues("dept")
	if len(depts) != 2 {
		t.Fatalf("expected 2 unique departments, got %v", depts)
	}
	if depts[0].Str() != "eng" || depts[1].Str() != "ops" {
		t.Errorf("expected first-seen order [eng ops], got %v", depts)
	}
}

func TestUniqueValuesDistinguishesKinds(t *testing.T) {
	c := NewCollection(SourceInfo{}, "test")
	for i, v := range []value.Value{value.Int(1), value.String("1")} {
		fields := value.Mapping()
		fields.Set("v", v)
		c.Add(New(fields, SourceInfo{Index: i}, "test"))
	}
	if got := c.UniqueValues("v"); len(got) != 2 {
		t.Errorf("integer 1 and string \"1\" should stay distinct, got %v", got)
	}
}

func TestGroupBy(t *testing.T) {
	c := testCollection()
	groups := GroupBy(c, "dept")

	eng, ok := groups.Get("eng")
	if !ok || eng.Len() != 2 {
		t.Errorf("expected 2 records in eng group")
	}
	ops, ok := groups.Get("ops")
	if !ok || ops.Len() != 1 {
		t.Errorf("expected 1 record in ops group")
	}
}

func TestGroupByAbsent(t *testing.T) {
	c := testCollection()
	groups := GroupBy(c, "extra")
	absent, ok := groups.Get("null")
	if !ok || absent.Len() != 2 {
		t.Errorf("expected 2 records without 'extra' grouped under null, got %v", ok)
	}
}

func TestValueCounts(t *testing.T) {
	c := testCollection()
	counts := ValueCounts(c, "dept")
	if n, _ := counts.Get("eng"); n != 2 {
		t.Errorf("expected eng count 2, got %d", n)
	}
	if n, _ := counts.Get("ops"); n != 1 {
		t.Errorf("expected ops count 1, got %d", n)
	}
}

func TestLargeCollectionKeysStayOrdered(t *testing.T) {
	c := NewCollection(SourceInfo{}, "test")
	for i := 0; i < 20; i++ {
		fields := value.Mapping()
		fields.Set("first", value.Int(int64(i)))
		fields.Set(fmt.Sprintf("k%02d", i), value.Int(int64(i)))
		c.Add(New(fields, SourceInfo{Index: i}, "test"))
	}
	keys := c.AllKeys()
	if keys[0] != "first" || keys[1] != "k00" {
		t.Errorf("expected first-seen key order, got %v", keys[:3])
	}
}
