package source

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dbsmedya/docsmith/internal/config"
	"github.com/dbsmedya/docsmith/internal/logger"
)

// Factory builds an ingestor for a configured source.
type Factory func(cfg *config.Config, log *logger.Logger) (Ingestor, error)

// Registry maps source kinds to ingestor factories and location patterns to
// kinds. Callers construct their own registry (usually DefaultRegistry);
// there is no process-wide instance, so tests can substitute a fresh one.
type Registry struct {
	factories map[string]Factory
	patterns  map[string]string // location suffix -> kind
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		patterns:  make(map[string]string),
	}
}

// Register adds a factory for a kind, with optional location suffix patterns
// used by DetectKind (e.g. ".csv").
func (r *Registry) Register(kind string, f Factory, patterns ...string) {
	r.factories[kind] = f
	for _, p := range patterns {
		r.patterns[strings.ToLower(p)] = kind
	}
}

// Kinds lists the registered source kinds in sorted order.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.factories))
	for k := range r.factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// DetectKind infers a source kind from a location string. URLs whose path
// contains /api/ (or ends in /api) resolve to api, as do URLs matching no
// registered suffix; other locations resolve by suffix pattern.
func (r *Registry) DetectKind(location string) (string, error) {
	if location == "" {
		return "", fmt.Errorf("no source location provided")
	}
	lower := strings.ToLower(location)

	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		if strings.Contains(lower, "/api/") || strings.HasSuffix(strings.TrimRight(lower, "/"), "/api") {
			return "api", nil
		}
		for pattern, kind := range r.patterns {
			if strings.HasSuffix(lower, pattern) {
				return kind, nil
			}
		}
		return "api", nil
	}

	for pattern, kind := range r.patterns {
		if strings.HasSuffix(lower, pattern) {
			return kind, nil
		}
	}
	return "", fmt.Errorf("cannot detect source kind for %q", location)
}

// Create builds the ingestor for a configuration, detecting the kind from
// the location when the configuration leaves it empty.
func (r *Registry) Create(cfg *config.Config, log *logger.Logger) (Ingestor, error) {
	kind := cfg.Source.Kind
	if kind == "" {
		detected, err := r.DetectKind(cfg.Source.Location)
		if err != nil {
			return nil, err
		}
		kind = detected
	}

	f, ok := r.factories[kind]
	if !ok {
		return nil, fmt.Errorf("no ingestor registered for source kind %q", kind)
	}
	return f(cfg, log)
}

// DefaultRegistry returns a registry with all built-in ingestors.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("csv", func(cfg *config.Config, log *logger.Logger) (Ingestor, error) {
		return NewCSVIngestor(cfg, log)
	}, ".csv", ".tsv")
	r.Register("json", func(cfg *config.Config, log *logger.Logger) (Ingestor, error) {
		return NewJSONIngestor(cfg, log)
	}, ".json")
	r.Register("api", func(cfg *config.Config, log *logger.Logger) (Ingestor, error) {
		return NewAPIIngestor(cfg, log)
	})
	r.Register("mysql", func(cfg *config.Config, log *logger.Logger) (Ingestor, error) {
		return NewMySQLIngestor(cfg, log)
	})
	return r
}
