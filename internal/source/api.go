package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dbsmedya/docsmith/internal/config"
	"github.com/dbsmedya/docsmith/internal/logger"
	"github.com/dbsmedya/docsmith/internal/record"
	"github.com/dbsmedya/docsmith/internal/value"
)

// APIIngestor loads records from an HTTP endpoint whose response is a JSON
// array of objects. Method, headers, query parameters, and body come from
// configuration.
type APIIngestor struct {
	url        string
	opts       config.APIConfig
	maxRecords int
	log        *logger.Logger
	client     *http.Client
}

// NewAPIIngestor builds an API ingestor from configuration.
func NewAPIIngestor(cfg *config.Config, log *logger.Logger) (*APIIngestor, error) {
	if log == nil {
		log = logger.NewDefault()
	}
	timeout := cfg.Source.API.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	return &APIIngestor{
		url:        cfg.Source.Location,
		opts:       cfg.Source.API,
		maxRecords: cfg.Processing.MaxRecords,
		log:        log.WithSource(cfg.Source.Location),
		client:     &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}, nil
}

// Kind returns "api".
func (a *APIIngestor) Kind() string { return "api" }

// buildRequest assembles the configured request. An explicit method
// overrides the configured one; both default to GET.
func (a *APIIngestor) buildRequest(ctx context.Context, method string) (*http.Request, error) {
	if method == "" {
		method = a.opts.Method
	}
	if method == "" {
		method = http.MethodGet
	}
	method = strings.ToUpper(method)

	var body io.Reader
	if a.opts.Body != "" && method != http.MethodGet && method != http.MethodHead {
		body = strings.NewReader(a.opts.Body)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.url, body)
	if err != nil {
		return nil, &SourceError{Origin: a.url, Op: "request", Err: err}
	}

	q := req.URL.Query()
	for k, v := range a.opts.Query {
		q.Set(k, v)
	}
	req.URL.RawQuery = q.Encode()

	for k, v := range a.opts.Headers {
		req.Header.Set(k, v)
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// Validate checks endpoint reachability with a HEAD request carrying the
// configured headers and query parameters.
func (a *APIIngestor) Validate(ctx context.Context) *Validation {
	v := &Validation{}
	if a.url == "" {
		v.AddError("source location is empty")
		return v
	}

	req, err := a.buildRequest(ctx, http.MethodHead)
	if err != nil {
		v.AddError("invalid API request: %v", err)
		return v
	}
	resp, err := a.client.Do(req)
	if err != nil {
		v.AddError("cannot access API %s: %v", a.url, err)
		return v
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		v.AddError("API %s returned status %s", a.url, resp.Status)
		return v
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if contentType != "" && !strings.Contains(contentType, "json") {
		v.AddWarning("API content type %q may not be JSON", contentType)
	}
	return v
}

// LoadAll issues the configured request and decodes the response.
func (a *APIIngestor) LoadAll(ctx context.Context) (*record.Collection, error) {
	req, err := a.buildRequest(ctx, "")
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, &SourceError{Origin: a.url, Op: "request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &SourceError{Origin: a.url, Op: "request",
			Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	root, err := value.DecodeJSON(resp.Body)
	if err != nil {
		return nil, &SourceError{Origin: a.url, Op: "parse", Err: err}
	}

	coll, err := recordsFromArray(root, a.url, "api", a.maxRecords)
	if err != nil {
		return nil, err
	}
	a.log.Infof("loaded %d records", coll.Len())
	return coll, nil
}

// StreamBatches loads the response and replays it in batches; the response
// is decoded whole either way.
func (a *APIIngestor) StreamBatches(ctx context.Context, size int, fn func(batch []*record.Record) error) error {
	coll, err := a.LoadAll(ctx)
	if err != nil {
		return err
	}
	return streamSlice(coll.Records, size, fn)
}

// EstimateSize reports no estimate; the count is unknown until the response
// is decoded.
func (a *APIIngestor) EstimateSize(ctx context.Context) (int, bool) {
	return 0, false
}
