package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// isURL reports whether a location is an HTTP(S) URL.
func isURL(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// fetchURL issues a GET and returns the response body. Status codes of 400
// and above are load failures.
func fetchURL(ctx context.Context, client *http.Client, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &SourceError{Origin: url, Op: "fetch", Err: err}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &SourceError{Origin: url, Op: "fetch", Err: err}
	}
	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, &SourceError{Origin: url, Op: "fetch", Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}
	return resp.Body, nil
}

// headCheck validates URL reachability with a HEAD request. When acceptTypes
// is non-empty and the response content type matches none of them, a warning
// is recorded.
func headCheck(ctx context.Context, client *http.Client, url string, v *Validation, acceptTypes ...string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		v.AddError("invalid URL %s: %v", url, err)
		return
	}
	resp, err := client.Do(req)
	if err != nil {
		v.AddError("cannot access URL %s: %v", url, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		v.AddError("URL %s returned status %s", url, resp.Status)
		return
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if contentType == "" || len(acceptTypes) == 0 {
		return
	}
	for _, accept := range acceptTypes {
		if strings.Contains(contentType, accept) {
			return
		}
	}
	v.AddWarning("URL content type %q may not match the expected format", contentType)
}
