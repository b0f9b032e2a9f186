package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dbsmedya/docsmith/internal/value"
)

func TestSectionTitle(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"name", "Name"},
		{"contact_info", "Contact Info"},
		{"profile.home_address", "Home Address"},
		{"a_b_c", "A B C"},
		{"already Title", "Already Title"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SectionTitle(tc.path), tc.path)
	}
}

func TestRenderSectionMappingTable(t *testing.T) {
	v := value.Mapping()
	v.Set("city", value.String("Oslo"))
	v.Set("zip", value.Int(1234))

	var b strings.Builder
	RenderSection(&b, "address", v, false)

	want := "## Address\n\n" +
		"| Key  | Value |\n" +
		"| ---- | ----- |\n" +
		"| city | Oslo  |\n" +
		"| zip  | 1234  |\n" +
		"\n"
	assert.Equal(t, want, b.String())
}

func TestRenderSectionFlattensNestedMapping(t *testing.T) {
	inner := value.Mapping()
	inner.Set("email", value.String("ann@example.com"))
	v := value.Mapping()
	v.Set("contact", inner)
	v.Set("name", value.String("Ann"))

	var b strings.Builder
	RenderSection(&b, "profile", v, true)

	out := b.String()
	assert.Contains(t, out, "| contact.email | ann@example.com |")
	assert.Contains(t, out, "| name")
	assert.NotContains(t, out, "{email")
}

func TestRenderSectionBullets(t *testing.T) {
	v := value.Sequence(value.String("go"), value.String("sql"))

	var b strings.Builder
	RenderSection(&b, "tags", v, false)

	assert.Equal(t, "## Tags\n\n- go\n- sql\n\n", b.String())
}

func TestRenderSectionFencedJSON(t *testing.T) {
	v := value.String(`{"a": 1}`)

	var b strings.Builder
	RenderSection(&b, "payload", v, false)

	assert.Equal(t, "## Payload\n\n```json\n{\n  \"a\": 1\n}\n```\n\n", b.String())
}

func TestRenderSectionScalar(t *testing.T) {
	var b strings.Builder
	RenderSection(&b, "age", value.Int(30), false)
	assert.Equal(t, "## Age\n\n30\n\n", b.String())
}

func TestLooksLikeJSON(t *testing.T) {
	assert.True(t, looksLikeJSON(`{"a": 1}`))
	assert.True(t, looksLikeJSON(`  [1, 2]  `))
	assert.False(t, looksLikeJSON("hello"))
	assert.False(t, looksLikeJSON("{not json"))
	assert.False(t, looksLikeJSON(""))
}
