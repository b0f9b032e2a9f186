package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dbsmedya/docsmith/internal/config"
	"github.com/dbsmedya/docsmith/internal/logger"
	"github.com/dbsmedya/docsmith/internal/record"
)

// dialectSampleSize is how much of the file the dialect sniffer reads.
const dialectSampleSize = 8192

// CSVIngestor loads CSV data from a local file or URL. Column names
// containing the field separator encode nesting; values pass through scalar
// type inference unless disabled.
type CSVIngestor struct {
	location   string
	opts       config.CSVConfig
	policy     Policy
	maxRecords int
	log        *logger.Logger
	client     *http.Client

	estimated   int
	hasEstimate bool
}

// NewCSVIngestor builds a CSV ingestor from configuration.
func NewCSVIngestor(cfg *config.Config, log *logger.Logger) (*CSVIngestor, error) {
	policy, err := ParsePolicy(cfg.Source.CSV.OnError)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewDefault()
	}
	return &CSVIngestor{
		location:   cfg.Source.Location,
		opts:       cfg.Source.CSV,
		policy:     policy,
		maxRecords: cfg.Processing.MaxRecords,
		log:        log.WithSource(cfg.Source.Location),
		client:     &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Kind returns "csv".
func (c *CSVIngestor) Kind() string { return "csv" }

func (c *CSVIngestor) delimiter() rune {
	if c.opts.Delimiter == "" {
		return ','
	}
	return []rune(c.opts.Delimiter)[0]
}

func (c *CSVIngestor) nullTokens() map[string]struct{} {
	if len(c.opts.NullValues) == 0 {
		return nil
	}
	tokens := make(map[string]struct{}, len(c.opts.NullValues))
	for _, t := range c.opts.NullValues {
		tokens[t] = struct{}{}
	}
	return tokens
}

// Validate checks reachability and samples the file to detect the CSV
// dialect. A detected delimiter that differs from the configured one is a
// warning only; the configured delimiter stays in force.
func (c *CSVIngestor) Validate(ctx context.Context) *Validation {
	v := &Validation{}
	if c.location == "" {
		v.AddError("source location is empty")
		return v
	}

	if isURL(c.location) {
		headCheck(ctx, c.client, c.location, v, "text/csv", "text/plain")
		return v
	}

	info, err := os.Stat(c.location)
	if err != nil {
		v.AddError("cannot access CSV file %s: %v", c.location, err)
		return v
	}
	if info.IsDir() {
		v.AddError("source is not a file: %s", c.location)
		return v
	}

	f, err := os.Open(c.location)
	if err != nil {
		v.AddError("cannot open CSV file %s: %v", c.location, err)
		return v
	}
	defer f.Close()

	sample := make([]byte, dialectSampleSize)
	n, _ := io.ReadFull(f, sample)
	if n == 0 {
		v.AddError("CSV file is empty: %s", c.location)
		return v
	}

	if detected, ok := sniffDelimiter(string(sample[:n])); ok {
		if detected != c.delimiter() {
			v.AddWarning("detected delimiter %q differs from configured %q",
				string(detected), string(c.delimiter()))
		}
	} else {
		v.AddWarning("could not detect CSV dialect")
	}

	c.validateFieldCounts(v, sample[:n])
	return v
}

// validateFieldCounts parses the sampled rows and warns when their field
// counts disagree with the first row's.
func (c *CSVIngestor) validateFieldCounts(v *Validation, sample []byte) {
	reader := csv.NewReader(bytes.NewReader(sample))
	reader.Comma = c.delimiter()
	reader.FieldsPerRecord = -1

	expected := -1
	var inconsistent []int
	for i := 0; i < 10; i++ {
		row, err := reader.Read()
		if err != nil {
			break
		}
		if expected == -1 {
			expected = len(row)
			continue
		}
		if len(row) != expected {
			inconsistent = append(inconsistent, i)
		}
	}
	if len(inconsistent) > 0 {
		v.AddWarning("inconsistent field counts in rows %v (expected %d fields)", inconsistent, expected)
	}
}

// sniffDelimiter guesses the delimiter from a sample: a candidate wins when
// it appears a consistent, nonzero number of times on every sampled line.
func sniffDelimiter(sample string) (rune, bool) {
	rawLines := strings.Split(sample, "\n")
	if len(rawLines) > 1 {
		// The last line may be cut off mid-row by the sample boundary.
		rawLines = rawLines[:len(rawLines)-1]
	}
	var lines []string
	for _, line := range rawLines {
		line = strings.TrimRight(line, "\r")
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return 0, false
	}

	var best rune
	bestCount := 0
	for _, cand := range []rune{',', ';', '\t', '|'} {
		count := strings.Count(lines[0], string(cand))
		if count == 0 {
			continue
		}
		consistent := true
		for _, line := range lines[1:] {
			if strings.Count(line, string(cand)) != count {
				consistent = false
				break
			}
		}
		if consistent && count > bestCount {
			best, bestCount = cand, count
		}
	}
	return best, bestCount > 0
}

func (c *CSVIngestor) open(ctx context.Context) (io.ReadCloser, error) {
	if isURL(c.location) {
		return fetchURL(ctx, c.client, c.location)
	}
	f, err := os.Open(c.location)
	if err != nil {
		return nil, &SourceError{Origin: c.location, Op: "open", Err: err}
	}
	return f, nil
}

// scan runs the row loop shared by LoadAll and StreamBatches. Each converted
// record is handed to fn in source order; fn errors abort the scan.
func (c *CSVIngestor) scan(ctx context.Context, fn func(rec *record.Record) error) error {
	rc, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer rc.Close()

	reader := csv.NewReader(rc)
	reader.Comma = c.delimiter()
	reader.FieldsPerRecord = -1

	convertOpts := record.ConvertOptions{
		Separator:   c.opts.FieldSeparator,
		DetectTypes: c.opts.DetectTypes,
		NullTokens:  c.nullTokens(),
	}

	var columns []string
	expected := 0
	index := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			if columns == nil {
				return &SourceError{Origin: c.location, Op: "read", Err: errors.New("CSV source is empty")}
			}
			return nil
		}
		if err != nil {
			convErr := &ConversionError{Row: index, Err: err}
			switch c.policy {
			case PolicyError:
				return &SourceError{Origin: c.location, Op: "read", Err: convErr}
			case PolicyWarn:
				c.log.Warnf("skipping malformed row: %v", convErr)
			}
			index++
			continue
		}

		if columns == nil {
			expected = len(row)
			if c.opts.HeaderRow {
				columns = append([]string(nil), row...)
				continue
			}
			columns = make([]string, len(row))
			for i := range row {
				columns[i] = fmt.Sprintf("field_%d", i+1)
			}
		}

		if len(row) != expected {
			convErr := &ConversionError{
				Row: index,
				Err: fmt.Errorf("expected %d fields, got %d", expected, len(row)),
			}
			switch c.policy {
			case PolicyError:
				return &SourceError{Origin: c.location, Op: "read", Err: convErr}
			case PolicyWarn:
				c.log.Warnf("keeping short row: %v", convErr)
			}
		}

		rowMap := make(map[string]string, len(columns))
		for i, col := range columns {
			if i < len(row) {
				rowMap[col] = row[i]
			}
		}

		fields := record.Convert(columns, rowMap, convertOpts)
		rec := record.New(fields, record.SourceInfo{
			Origin: c.location,
			Kind:   "csv",
			Index:  index,
		}, "csv")

		if err := fn(rec); err != nil {
			return err
		}

		index++
		if c.maxRecords > 0 && index >= c.maxRecords {
			c.log.Infof("reached maximum record limit: %d", c.maxRecords)
			return nil
		}
	}
}

// LoadAll reads the whole CSV source into a collection.
func (c *CSVIngestor) LoadAll(ctx context.Context) (*record.Collection, error) {
	coll := record.NewCollection(record.SourceInfo{Origin: c.location, Kind: "csv"}, "csv")
	err := c.scan(ctx, func(rec *record.Record) error {
		coll.Add(rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.log.Infof("loaded %d records", coll.Len())
	return coll, nil
}

// StreamBatches reads the CSV source in fixed-size batches without
// materializing the full collection.
func (c *CSVIngestor) StreamBatches(ctx context.Context, size int, fn func(batch []*record.Record) error) error {
	if size <= 0 {
		size = 1
	}
	batch := make([]*record.Record, 0, size)
	err := c.scan(ctx, func(rec *record.Record) error {
		batch = append(batch, rec)
		if len(batch) >= size {
			if err := fn(batch); err != nil {
				return err
			}
			batch = make([]*record.Record, 0, size)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrStop) {
			return nil
		}
		return err
	}
	if len(batch) > 0 {
		if err := fn(batch); err != nil && !errors.Is(err, ErrStop) {
			return err
		}
	}
	return nil
}

// EstimateSize counts lines for local files. URL sources report no estimate.
func (c *CSVIngestor) EstimateSize(ctx context.Context) (int, bool) {
	if c.hasEstimate {
		return c.estimated, true
	}
	if isURL(c.location) {
		return 0, false
	}

	f, err := os.Open(c.location)
	if err != nil {
		return 0, false
	}
	defer f.Close()

	count := 0
	var last byte
	buf := make([]byte, 32*1024)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			count += bytes.Count(buf[:n], []byte{'\n'})
			last = buf[n-1]
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, false
		}
	}
	if last != 0 && last != '\n' {
		count++
	}
	if c.opts.HeaderRow && count > 0 {
		count--
	}

	c.estimated, c.hasEstimate = count, true
	return count, true
}
