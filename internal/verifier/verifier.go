// Package verifier provides integrity verification for exported documents.
package verifier

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/dbsmedya/docsmith/internal/logger"
)

// VerificationMethod defines how to verify exported documents.
type VerificationMethod string

const (
	// MethodCount checks file count and basic document shape (fast)
	MethodCount VerificationMethod = "count"
	// MethodSHA256 additionally hashes every document (slower but records a fingerprint)
	MethodSHA256 VerificationMethod = "sha256"
	// MethodSkip skips verification entirely
	MethodSkip VerificationMethod = "skip"
)

// frontMatterDelimiter opens every rendered document.
var frontMatterDelimiter = []byte("---\n")

// VerifyResult holds verification results for a single document.
type VerifyResult struct {
	Path         string
	Size         int64
	Hash         string
	OK           bool
	ErrorMessage string
}

// VerifyStats contains overall verification statistics.
type VerifyStats struct {
	FilesVerified int
	FilesPassed   int
	FilesFailed   int
	TotalBytes    int64
	Method        VerificationMethod
}

// Verifier checks that an export produced the documents it claims to have
// produced: every file exists, is non-empty, and opens with a front matter
// block.
type Verifier struct {
	method VerificationMethod
	logger *logger.Logger
}

// NewVerifier creates a verifier. An empty method defaults to count.
func NewVerifier(method VerificationMethod, log *logger.Logger) (*Verifier, error) {
	if method == "" {
		method = MethodCount
	}
	switch method {
	case MethodCount, MethodSHA256, MethodSkip:
	default:
		return nil, fmt.Errorf("unknown verification method %q", method)
	}
	if log == nil {
		log = logger.NewDefault()
	}
	return &Verifier{method: method, logger: log}, nil
}

// Verify checks every document path against the expected count. It returns
// per-file results alongside the aggregate stats; a non-nil error means the
// export should not be trusted.
func (v *Verifier) Verify(ctx context.Context, paths []string, expected int) (*VerifyStats, []VerifyResult, error) {
	if v.method == MethodSkip {
		v.logger.Info("verification skipped (method=skip)")
		return &VerifyStats{Method: MethodSkip}, nil, nil
	}

	stats := &VerifyStats{Method: v.method}

	if len(paths) != expected {
		return stats, nil, fmt.Errorf("document count mismatch: wrote %d, expected %d", len(paths), expected)
	}

	results := make([]VerifyResult, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return stats, results, err
		}

		res := v.verifyFile(path)
		stats.FilesVerified++
		if res.OK {
			stats.FilesPassed++
			stats.TotalBytes += res.Size
		} else {
			stats.FilesFailed++
			v.logger.Warnf("verification failed for %s: %s", path, res.ErrorMessage)
		}
		results = append(results, res)
	}

	if stats.FilesFailed > 0 {
		return stats, results, fmt.Errorf("verification failed: %d of %d documents failed", stats.FilesFailed, stats.FilesVerified)
	}

	v.logger.Infof("verified %d documents (%d bytes, method=%s)", stats.FilesPassed, stats.TotalBytes, v.method)
	return stats, results, nil
}

// verifyFile checks one document.
func (v *Verifier) verifyFile(path string) VerifyResult {
	res := VerifyResult{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		res.ErrorMessage = err.Error()
		return res
	}
	res.Size = int64(len(data))

	if len(data) == 0 {
		res.ErrorMessage = "document is empty"
		return res
	}
	if !bytes.HasPrefix(data, frontMatterDelimiter) {
		res.ErrorMessage = "document does not start with a front matter block"
		return res
	}
	if bytes.Count(data, frontMatterDelimiter) < 2 && !bytes.Contains(data, []byte("\n---\n")) {
		res.ErrorMessage = "front matter block is not closed"
		return res
	}

	if v.method == MethodSHA256 {
		sum := sha256.Sum256(data)
		res.Hash = hex.EncodeToString(sum[:])
	}

	res.OK = true
	return res
}
