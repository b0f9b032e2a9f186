package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/docsmith/internal/config"
	"github.com/dbsmedya/docsmith/internal/record"
	"github.com/dbsmedya/docsmith/internal/value"
)

func exportRecord(t *testing.T, set func(fields value.Value)) *record.Record {
	t.Helper()
	fields := value.Mapping()
	set(fields)
	return record.New(fields, record.SourceInfo{Origin: "people.csv", Kind: "csv"}, "csv")
}

func TestRenderRecordAllMode(t *testing.T) {
	rec := exportRecord(t, func(f value.Value) {
		f.Set("name", value.String("Ann"))
		f.Set("age", value.Int(30))

		p1 := value.Mapping()
		p1.Set("name", value.String("docsmith"))
		p2 := value.Mapping()
		p2.Set("name", value.String("fieldkit"))
		f.Set("projects", value.Sequence(p1, p2))
	})

	r, err := NewRenderer(config.ExportConfig{KeyMode: "all"})
	require.NoError(t, err)

	out, err := r.RenderRecord(rec)
	require.NoError(t, err)
	want := "---\nage: 30\nname: Ann\n---\n\n" +
		"## Projects\n\n- {name: docsmith}\n- {name: fieldkit}\n\n"
	assert.Equal(t, want, out)
}

func TestRenderRecordSelectMode(t *testing.T) {
	rec := exportRecord(t, func(f value.Value) {
		f.Set("name", value.String("Ann"))
		f.Set("age", value.Int(30))

		contact := value.Mapping()
		contact.Set("email", value.String("ann@example.com"))
		contact.Set("phone", value.String("555-0101"))
		f.Set("contact", contact)
	})

	r, err := NewRenderer(config.ExportConfig{
		KeyMode:      "select",
		SelectedKeys: []string{"name"},
	})
	require.NoError(t, err)

	out, err := r.RenderRecord(rec)
	require.NoError(t, err)

	// Only the selected key is inlined; age is residual despite being
	// simple, and the fully-residual contact mapping becomes one table.
	assert.Contains(t, out, "---\nname: Ann\n---\n")
	assert.Contains(t, out, "## Age\n\n30\n")
	assert.Contains(t, out, "## Contact\n")
	assert.Contains(t, out, "| email | ann@example.com |")
	assert.Contains(t, out, "| phone | 555-0101")
	assert.NotContains(t, out, "age: 30")
}

func TestRenderRecordNoneMode(t *testing.T) {
	rec := exportRecord(t, func(f value.Value) {
		f.Set("name", value.String("Ann"))
	})

	r, err := NewRenderer(config.ExportConfig{KeyMode: "none"})
	require.NoError(t, err)

	out, err := r.RenderRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, "---\n---\n\n## Name\n\nAnn\n\n", out)
}

func TestRenderRecordFlattenMode(t *testing.T) {
	rec := exportRecord(t, func(f value.Value) {
		f.Set("name", value.String("Ann"))
	})

	r, err := NewRenderer(config.ExportConfig{KeyMode: "flatten"})
	require.NoError(t, err)

	out, err := r.RenderRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, "---\nname: Ann\n---\n", out)
}

func TestNewRendererDefaultsToAll(t *testing.T) {
	_, err := NewRenderer(config.ExportConfig{})
	assert.NoError(t, err)
}

func TestNewRendererUnknownMode(t *testing.T) {
	_, err := NewRenderer(config.ExportConfig{KeyMode: "bogus"})
	assert.ErrorContains(t, err, "unknown key selection mode")
}

func TestWriteCollection(t *testing.T) {
	dir := t.TempDir()

	coll := record.NewCollection(record.SourceInfo{Origin: "people.csv", Kind: "csv"}, "csv")
	coll.Add(exportRecord(t, func(f value.Value) { f.Set("name", value.String("Ann")) }))
	coll.Add(exportRecord(t, func(f value.Value) { f.Set("name", value.String("Bob")) }))

	w, err := NewWriter(config.ExportConfig{
		OutputDir:   dir,
		KeyMode:     "all",
		FilenameKey: "name",
		Summary:     true,
	}, nil)
	require.NoError(t, err)

	created, err := w.WriteCollection(coll)
	require.NoError(t, err)
	require.Len(t, created, 3)

	data, err := os.ReadFile(filepath.Join(dir, "Ann.md"))
	require.NoError(t, err)
	assert.Equal(t, "---\nname: Ann\n---\n", string(data))

	_, err = os.Stat(filepath.Join(dir, "Bob.md"))
	assert.NoError(t, err)

	summary, err := os.ReadFile(filepath.Join(dir, "README.md"))
	require.NoError(t, err)
	assert.Contains(t, string(summary), "# Export Summary")
	assert.Contains(t, string(summary), "people.csv (csv)")
	assert.Contains(t, string(summary), "- Ann.md")
	assert.Contains(t, string(summary), "- Bob.md")
}

func TestWriteCollectionResolvesNameCollisions(t *testing.T) {
	dir := t.TempDir()

	coll := record.NewCollection(record.SourceInfo{Origin: "people.csv", Kind: "csv"}, "csv")
	coll.Add(exportRecord(t, func(f value.Value) { f.Set("name", value.String("Ann")) }))
	coll.Add(exportRecord(t, func(f value.Value) { f.Set("name", value.String("Ann")) }))

	w, err := NewWriter(config.ExportConfig{OutputDir: dir, FilenameKey: "name"}, nil)
	require.NoError(t, err)

	created, err := w.WriteCollection(coll)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "Ann.md"),
		filepath.Join(dir, "Ann_1.md"),
	}, created)
}

func TestWriteCollectionEmpty(t *testing.T) {
	coll := record.NewCollection(record.SourceInfo{}, "csv")

	w, err := NewWriter(config.ExportConfig{OutputDir: t.TempDir()}, nil)
	require.NoError(t, err)

	_, err = w.WriteCollection(coll)
	assert.ErrorContains(t, err, "no records")
}
