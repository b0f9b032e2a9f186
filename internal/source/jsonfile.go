package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/dbsmedya/docsmith/internal/config"
	"github.com/dbsmedya/docsmith/internal/logger"
	"github.com/dbsmedya/docsmith/internal/record"
	"github.com/dbsmedya/docsmith/internal/value"
)

// JSONIngestor loads a JSON document whose root is an array of objects, from
// a local file or URL. Elements arrive already nested, so no separator
// conversion or type inference applies.
type JSONIngestor struct {
	location   string
	maxRecords int
	log        *logger.Logger
	client     *http.Client
}

// NewJSONIngestor builds a JSON file ingestor from configuration.
func NewJSONIngestor(cfg *config.Config, log *logger.Logger) (*JSONIngestor, error) {
	if log == nil {
		log = logger.NewDefault()
	}
	return &JSONIngestor{
		location:   cfg.Source.Location,
		maxRecords: cfg.Processing.MaxRecords,
		log:        log.WithSource(cfg.Source.Location),
		client:     &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Kind returns "json".
func (j *JSONIngestor) Kind() string { return "json" }

// Validate checks that the file or URL is reachable.
func (j *JSONIngestor) Validate(ctx context.Context) *Validation {
	v := &Validation{}
	if j.location == "" {
		v.AddError("source location is empty")
		return v
	}

	if isURL(j.location) {
		headCheck(ctx, j.client, j.location, v, "application/json", "text/json")
		return v
	}

	info, err := os.Stat(j.location)
	if err != nil {
		v.AddError("cannot access JSON file %s: %v", j.location, err)
		return v
	}
	if info.IsDir() {
		v.AddError("source is not a file: %s", j.location)
	}
	return v
}

func (j *JSONIngestor) open(ctx context.Context) (io.ReadCloser, error) {
	if isURL(j.location) {
		return fetchURL(ctx, j.client, j.location)
	}
	f, err := os.Open(j.location)
	if err != nil {
		return nil, &SourceError{Origin: j.location, Op: "open", Err: err}
	}
	return f, nil
}

// LoadAll reads and decodes the whole document.
func (j *JSONIngestor) LoadAll(ctx context.Context) (*record.Collection, error) {
	rc, err := j.open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	root, err := value.DecodeJSON(rc)
	if err != nil {
		return nil, &SourceError{Origin: j.location, Op: "parse", Err: err}
	}

	coll, err := recordsFromArray(root, j.location, "json", j.maxRecords)
	if err != nil {
		return nil, err
	}
	j.log.Infof("loaded %d records", coll.Len())
	return coll, nil
}

// StreamBatches loads the document and replays it in batches. JSON documents
// decode whole, so this bounds downstream memory only.
func (j *JSONIngestor) StreamBatches(ctx context.Context, size int, fn func(batch []*record.Record) error) error {
	coll, err := j.LoadAll(ctx)
	if err != nil {
		return err
	}
	return streamSlice(coll.Records, size, fn)
}

// EstimateSize reports no estimate; the count is unknown until decode.
func (j *JSONIngestor) EstimateSize(ctx context.Context) (int, bool) {
	return 0, false
}

// recordsFromArray converts a decoded array-of-objects root into a
// collection. A non-array root or a non-object element fails the load.
func recordsFromArray(root value.Value, origin, kind string, limit int) (*record.Collection, error) {
	if root.Kind() != value.KindSequence {
		return nil, &SourceError{Origin: origin, Op: "parse",
			Err: errors.New("JSON root must be an array of objects")}
	}

	coll := record.NewCollection(record.SourceInfo{Origin: origin, Kind: kind}, kind)
	for i, elem := range root.Items() {
		if limit > 0 && i >= limit {
			break
		}
		if elem.Kind() != value.KindMapping {
			return nil, &SourceError{Origin: origin, Op: "parse",
				Err: fmt.Errorf("element %d is not an object", i)}
		}
		coll.Add(record.New(elem, record.SourceInfo{
			Origin: origin,
			Kind:   kind,
			Index:  i,
		}, kind))
	}
	return coll, nil
}
