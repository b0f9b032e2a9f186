package value

import "testing"

func TestZeroValueIsNull(t *testing.T) {
	var v Value
	if !v.IsNull() {
		t.Errorf("zero Value should be null, got %s", v.Kind())
	}
}

func TestMappingPreservesInsertionOrder(t *testing.T) {
	m := Mapping()
	m.Set("zeta", Int(1))
	m.Set("alpha", Int(2))
	m.Set("mid", Int(3))

	want := []string{"zeta", "alpha", "mid"}
	got := m.Keys()
	if len(got) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("key %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestEqualIgnoresMappingOrder(t *testing.T) {
	a := Mapping()
	a.Set("x", Int(1))
	a.Set("y", String("two"))

	b := Mapping()
	b.Set("y", String("two"))
	b.Set("x", Int(1))

	if !a.Equal(b) {
		t.Errorf("mappings with same entries in different order should be equal")
	}

	b.Set("x", Int(9))
	if a.Equal(b) {
		t.Errorf("mappings with different values should not be equal")
	}
}

func TestEqualSequenceIsOrderSensitive(t *testing.T) {
	a := Sequence(Int(1), Int(2))
	b := Sequence(Int(2), Int(1))
	if a.Equal(b) {
		t.Errorf("sequences with different element order should not be equal")
	}
	if !a.Equal(Sequence(Int(1), Int(2))) {
		t.Errorf("identical sequences should be equal")
	}
}

func TestCopyIsIndependent(t *testing.T) {
	inner := Mapping()
	inner.Set("n", Int(1))
	orig := Mapping()
	orig.Set("child", inner)
	orig.Set("items", Sequence(Int(1), Int(2)))

	cp := orig.Copy()
	child, _ := cp.Get("child")
	child.Set("n", Int(99))

	origChild, _ := orig.Get("child")
	got, _ := origChild.Get("n")
	if got.Int() != 1 {
		t.Errorf("mutating a copy leaked into the original: got %d", got.Int())
	}
}

func TestInterfaceRoundTripShapes(t *testing.T) {
	m := Mapping()
	m.Set("name", String("Ann"))
	m.Set("age", Int(30))
	m.Set("tags", Sequence(String("a"), String("b")))
	m.Set("gone", Null())

	raw, ok := m.Interface().(map[string]any)
	if !ok {
		t.Fatalf("expected map[string]any, got %T", m.Interface())
	}
	if raw["name"] != "Ann" || raw["age"] != int64(30) {
		t.Errorf("unexpected scalar conversion: %v", raw)
	}
	if raw["gone"] != nil {
		t.Errorf("expected nil for null value, got %v", raw["gone"])
	}
	tags, ok := raw["tags"].([]any)
	if !ok || len(tags) != 2 {
		t.Errorf("unexpected sequence conversion: %v", raw["tags"])
	}
}

func TestStringRendering(t *testing.T) {
	m := Mapping()
	m.Set("a", Int(1))
	m.Set("b", Sequence(Bool(true), Null()))

	if got := m.String(); got != "{a: 1, b: [true, null]}" {
		t.Errorf("unexpected rendering: %q", got)
	}
}

func TestFromGo(t *testing.T) {
	tests := []struct {
		in   any
		want Value
	}{
		{nil, Null()},
		{int(5), Int(5)},
		{int64(5), Int(5)},
		{uint8(5), Int(5)},
		{3.5, Float(3.5)},
		{float32(0.5), Float(0.5)},
		{true, Bool(true)},
		{"s", String("s")},
		{[]byte("bytes"), String("bytes")},
	}
	for _, tt := range tests {
		if got := FromGo(tt.in); !got.Equal(tt.want) {
			t.Errorf("FromGo(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
