package export

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/docsmith/internal/record"
	"github.com/dbsmedya/docsmith/internal/value"
)

func filenameRecord(set func(fields value.Value)) *record.Record {
	fields := value.Mapping()
	set(fields)
	return record.New(fields, record.SourceInfo{Origin: "test.csv", Kind: "csv"}, "csv")
}

func TestFilenameConfiguredKey(t *testing.T) {
	rec := filenameRecord(func(f value.Value) {
		f.Set("slug", value.String("post-1"))
		f.Set("name", value.String("Ann"))
	})
	assert.Equal(t, "post-1", Filename(rec, "slug", 0))
}

func TestFilenameFallbackOrder(t *testing.T) {
	rec := filenameRecord(func(f value.Value) {
		f.Set("title", value.String("My Doc"))
		f.Set("id", value.Int(9))
	})
	// name is absent, title wins over id.
	assert.Equal(t, "My Doc", Filename(rec, "", 0))
}

func TestFilenameSkipsStructuredValues(t *testing.T) {
	rec := filenameRecord(func(f value.Value) {
		nested := value.Mapping()
		nested.Set("first", value.String("Ann"))
		f.Set("name", nested)
		f.Set("id", value.Int(42))
	})
	assert.Equal(t, "42", Filename(rec, "name", 0))
}

func TestFilenameTimestampFallback(t *testing.T) {
	rec := filenameRecord(func(f value.Value) {
		f.Set("status", value.Null())
	})
	got := Filename(rec, "", 2)
	assert.Regexp(t, regexp.MustCompile(`^\d{8}_\d{6}_3$`), got)
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{`a/b:c`, "a_b_c"},
		{`what?"quote"`, "what__quote_"},
		{"  spaced  ", "spaced"},
		{"", "untitled"},
		{"///", "___"},
		{"tab\there", "tabhere"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SanitizeFilename(tc.in), tc.in)
	}
}

func TestSanitizeFilenameTruncates(t *testing.T) {
	long := strings.Repeat("a", 300) + ".md"
	got := SanitizeFilename(long)
	assert.Len(t, got, maxFilenameLength)
	assert.True(t, strings.HasSuffix(got, ".md"))
}

func TestAvailablePath(t *testing.T) {
	dir := t.TempDir()

	first := availablePath(dir, "doc", ".md")
	assert.Equal(t, filepath.Join(dir, "doc.md"), first)
	require.NoError(t, os.WriteFile(first, []byte("x"), 0644))

	second := availablePath(dir, "doc", ".md")
	assert.Equal(t, filepath.Join(dir, "doc_1.md"), second)
	require.NoError(t, os.WriteFile(second, []byte("x"), 0644))

	third := availablePath(dir, "doc", ".md")
	assert.Equal(t, filepath.Join(dir, "doc_2.md"), third)
}
