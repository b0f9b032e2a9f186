package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/docsmith/internal/config"
	"github.com/dbsmedya/docsmith/internal/record"
	"github.com/dbsmedya/docsmith/internal/value"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func csvConfig(location string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Source.Kind = "csv"
	cfg.Source.Location = location
	return cfg
}

func TestCSVLoadAll(t *testing.T) {
	path := writeCSV(t, "name,profile_age,profile_city,active\nAnn,30,NYC,true\nBob,25,LA,false\n")

	ing, err := NewCSVIngestor(csvConfig(path), nil)
	require.NoError(t, err)

	coll, err := ing.LoadAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, coll.Len())

	rec := coll.At(0)
	name, ok := rec.Get("name")
	require.True(t, ok)
	assert.Equal(t, "Ann", name.Str())

	age, ok := rec.Get("profile.age")
	require.True(t, ok)
	assert.Equal(t, value.KindInt, age.Kind())
	assert.Equal(t, int64(30), age.Int())

	active, ok := rec.Get("active")
	require.True(t, ok)
	assert.Equal(t, value.KindBool, active.Kind())
	assert.True(t, active.Bool())

	assert.Equal(t, "csv", rec.Source.Kind)
	assert.Equal(t, 0, rec.Source.Index)
	assert.Equal(t, 1, coll.At(1).Source.Index)
}

func TestCSVHeaderless(t *testing.T) {
	path := writeCSV(t, "Ann,30\nBob,25\n")

	cfg := csvConfig(path)
	cfg.Source.CSV.HeaderRow = false

	ing, err := NewCSVIngestor(cfg, nil)
	require.NoError(t, err)

	coll, err := ing.LoadAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, coll.Len())

	first, ok := coll.At(0).Get("field_1")
	require.True(t, ok)
	assert.Equal(t, "Ann", first.Str())

	second, ok := coll.At(0).Get("field_2")
	require.True(t, ok)
	assert.Equal(t, int64(30), second.Int())
}

func TestCSVWithoutTypeDetection(t *testing.T) {
	path := writeCSV(t, "age\n30\n")

	cfg := csvConfig(path)
	cfg.Source.CSV.DetectTypes = false

	ing, err := NewCSVIngestor(cfg, nil)
	require.NoError(t, err)

	coll, err := ing.LoadAll(context.Background())
	require.NoError(t, err)

	age, ok := coll.At(0).Get("age")
	require.True(t, ok)
	assert.Equal(t, value.KindString, age.Kind())
	assert.Equal(t, "30", age.Str())
}

func TestCSVCustomNullValues(t *testing.T) {
	path := writeCSV(t, "name,score\nAnn,NA\n")

	cfg := csvConfig(path)
	cfg.Source.CSV.NullValues = []string{"", "NA"}

	ing, err := NewCSVIngestor(cfg, nil)
	require.NoError(t, err)

	coll, err := ing.LoadAll(context.Background())
	require.NoError(t, err)

	score, ok := coll.At(0).Get("score")
	require.True(t, ok)
	assert.True(t, score.IsNull())
}

func TestCSVValidateDelimiterWarning(t *testing.T) {
	path := writeCSV(t, "name;age\nAnn;30\nBob;25\n")

	ing, err := NewCSVIngestor(csvConfig(path), nil)
	require.NoError(t, err)

	v := ing.Validate(context.Background())
	assert.True(t, v.OK())
	require.NotEmpty(t, v.Warnings)
	assert.Contains(t, v.Warnings[0], "delimiter")
}

func TestCSVValidateMissingFile(t *testing.T) {
	ing, err := NewCSVIngestor(csvConfig("/nonexistent/data.csv"), nil)
	require.NoError(t, err)

	v := ing.Validate(context.Background())
	assert.False(t, v.OK())
}

func TestCSVValidateEmptyFile(t *testing.T) {
	path := writeCSV(t, "")

	ing, err := NewCSVIngestor(csvConfig(path), nil)
	require.NoError(t, err)

	v := ing.Validate(context.Background())
	require.False(t, v.OK())
	assert.Contains(t, v.Errors[0], "empty")
}

func TestCSVPolicyErrorAbortsOnBadRow(t *testing.T) {
	path := writeCSV(t, "name,age\nAnn,30\nBob,25,extra\n")

	cfg := csvConfig(path)
	cfg.Source.CSV.OnError = "error"

	ing, err := NewCSVIngestor(cfg, nil)
	require.NoError(t, err)

	_, err = ing.LoadAll(context.Background())
	require.Error(t, err)

	var srcErr *SourceError
	require.True(t, errors.As(err, &srcErr))
	var convErr *ConversionError
	assert.True(t, errors.As(err, &convErr))
	assert.Equal(t, 1, convErr.Row)
}

func TestCSVPolicyIgnoreKeepsShortRow(t *testing.T) {
	path := writeCSV(t, "name,age,city\nAnn,30\n")

	cfg := csvConfig(path)
	cfg.Source.CSV.OnError = "ignore"

	ing, err := NewCSVIngestor(cfg, nil)
	require.NoError(t, err)

	coll, err := ing.LoadAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, coll.Len())

	_, ok := coll.At(0).Get("city")
	assert.False(t, ok)
}

func TestCSVStreamBatches(t *testing.T) {
	path := writeCSV(t, "n\n1\n2\n3\n4\n5\n")

	ing, err := NewCSVIngestor(csvConfig(path), nil)
	require.NoError(t, err)

	var sizes []int
	err = ing.StreamBatches(context.Background(), 2, func(batch []*record.Record) error {
		sizes = append(sizes, len(batch))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 1}, sizes)
}

func TestCSVStreamBatchesStop(t *testing.T) {
	path := writeCSV(t, "n\n1\n2\n3\n4\n5\n")

	ing, err := NewCSVIngestor(csvConfig(path), nil)
	require.NoError(t, err)

	calls := 0
	err = ing.StreamBatches(context.Background(), 2, func(batch []*record.Record) error {
		calls++
		return ErrStop
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestCSVEstimateSize(t *testing.T) {
	path := writeCSV(t, "name,age\nAnn,30\nBob,25\nCid,40\n")

	ing, err := NewCSVIngestor(csvConfig(path), nil)
	require.NoError(t, err)

	n, ok := ing.EstimateSize(context.Background())
	require.True(t, ok)
	assert.Equal(t, 3, n)
}

func TestCSVMaxRecords(t *testing.T) {
	path := writeCSV(t, "n\n1\n2\n3\n")

	cfg := csvConfig(path)
	cfg.Processing.MaxRecords = 2

	ing, err := NewCSVIngestor(cfg, nil)
	require.NoError(t, err)

	coll, err := ing.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, coll.Len())
}

func TestCSVLoadAllFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("name,age\nAnn,30\n"))
	}))
	defer srv.Close()

	ing, err := NewCSVIngestor(csvConfig(srv.URL+"/data.csv"), nil)
	require.NoError(t, err)

	coll, err := ing.LoadAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, coll.Len())

	age, ok := coll.At(0).Get("age")
	require.True(t, ok)
	assert.Equal(t, int64(30), age.Int())

	_, hasEstimate := ing.EstimateSize(context.Background())
	assert.False(t, hasEstimate)
}

func TestCSVInvalidPolicy(t *testing.T) {
	cfg := csvConfig("data.csv")
	cfg.Source.CSV.OnError = "panic"

	_, err := NewCSVIngestor(cfg, nil)
	assert.Error(t, err)
}

func TestSniffDelimiter(t *testing.T) {
	tests := []struct {
		name   string
		sample string
		want   rune
		ok     bool
	}{
		{"comma", "a,b,c\n1,2,3\n", ',', true},
		{"semicolon", "a;b\n1;2\n", ';', true},
		{"tab", "a\tb\n1\t2\n", '\t', true},
		{"pipe", "a|b|c\n1|2|3\n", '|', true},
		{"no delimiter", "single\ncolumn\n", 0, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := sniffDelimiter(tt.sample)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
