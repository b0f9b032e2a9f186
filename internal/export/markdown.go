package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dbsmedya/docsmith/internal/config"
	"github.com/dbsmedya/docsmith/internal/logger"
	"github.com/dbsmedya/docsmith/internal/record"
	"github.com/dbsmedya/docsmith/internal/selection"
)

// Renderer turns one record into Markdown: front matter for the inline
// key-paths, one structured section per residual key-path.
type Renderer struct {
	selection    selection.KeySelection
	jsonFallback bool
}

// NewRenderer builds a renderer from export configuration.
func NewRenderer(cfg config.ExportConfig) (*Renderer, error) {
	modeName := cfg.KeyMode
	if modeName == "" {
		modeName = string(selection.ModeAll)
	}
	mode, err := selection.ParseMode(modeName)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		selection: selection.KeySelection{
			Mode:          mode,
			SelectedKeys:  cfg.SelectedKeys,
			FlattenNested: cfg.FlattenNested,
		},
		jsonFallback: cfg.JSONFallback,
	}, nil
}

// RenderRecord produces the full Markdown document for one record.
func (r *Renderer) RenderRecord(rec *record.Record) (string, error) {
	sel := selection.Select(rec, r.selection)

	fm, err := FrontMatter(sel.Inline, r.jsonFallback)
	if err != nil {
		return "", err
	}

	sections := sectionPaths(rec, sel.Residual)

	var b strings.Builder
	b.WriteString(fm)
	if len(sections) > 0 {
		b.WriteString("\n")
	}
	for _, path := range sections {
		v, ok := rec.Get(path)
		if !ok {
			continue
		}
		RenderSection(&b, path, v, sel.FlattenNested)
	}
	return b.String(), nil
}

// sectionPaths collapses residual leaf paths for rendering. When every leaf
// under a top-level field is residual, the field renders as one section (so
// a fully-residual mapping becomes a single table); otherwise each residual
// leaf gets its own section.
func sectionPaths(rec *record.Record, residual []string) []string {
	if len(residual) == 0 {
		return nil
	}

	totalPerTop := make(map[string]int)
	for _, leaf := range rec.LeafKeys() {
		totalPerTop[topSegment(leaf)]++
	}
	residualPerTop := make(map[string]int)
	for _, leaf := range residual {
		residualPerTop[topSegment(leaf)]++
	}

	var out []string
	collapsed := make(map[string]bool)
	for _, leaf := range residual {
		top := topSegment(leaf)
		if collapsed[top] {
			continue
		}
		if residualPerTop[top] == totalPerTop[top] {
			out = append(out, top)
			collapsed[top] = true
		} else {
			out = append(out, leaf)
		}
	}
	return out
}

func topSegment(path string) string {
	if i := strings.Index(path, "."); i >= 0 {
		return path[:i]
	}
	return path
}

// Writer renders a collection to one Markdown file per record, plus an
// optional summary README.
type Writer struct {
	outputDir   string
	filenameKey string
	summary     bool
	renderer    *Renderer
	log         *logger.Logger
}

// NewWriter builds a writer from export configuration.
func NewWriter(cfg config.ExportConfig, log *logger.Logger) (*Writer, error) {
	renderer, err := NewRenderer(cfg)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewDefault()
	}
	return &Writer{
		outputDir:   cfg.OutputDir,
		filenameKey: cfg.FilenameKey,
		summary:     cfg.Summary,
		renderer:    renderer,
		log:         log,
	}, nil
}

// WriteCollection writes one file per record and returns the created paths
// in write order. Filename collisions within the run resolve by numeric
// suffix.
func (w *Writer) WriteCollection(coll *record.Collection) ([]string, error) {
	if coll == nil || coll.Len() == 0 {
		return nil, errors.New("no records to export")
	}

	created, err := w.WriteRecords(coll.Records, 0)
	if err != nil {
		return created, err
	}

	summaryPath, err := w.WriteSummary(coll.Source, created)
	if err != nil {
		return created, err
	}
	if summaryPath != "" {
		created = append(created, summaryPath)
	}

	w.log.Infof("exported %d files to %s", len(created), w.outputDir)
	return created, nil
}

// WriteRecords writes one file per record. startIndex keeps fallback
// filenames unique across batches when streaming.
func (w *Writer) WriteRecords(records []*record.Record, startIndex int) ([]string, error) {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	var created []string
	for i, rec := range records {
		content, err := w.renderer.RenderRecord(rec)
		if err != nil {
			return created, fmt.Errorf("render record %d: %w", startIndex+i, err)
		}

		path := availablePath(w.outputDir, Filename(rec, w.filenameKey, startIndex+i), ".md")
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return created, fmt.Errorf("write %s: %w", path, err)
		}
		w.log.Debugf("created %s", filepath.Base(path))
		created = append(created, path)
	}
	return created, nil
}

// WriteSummary creates a README.md describing the export. It is a no-op
// returning an empty path when the summary is disabled.
func (w *Writer) WriteSummary(src record.SourceInfo, files []string) (string, error) {
	if !w.summary {
		return "", nil
	}

	var b strings.Builder
	b.WriteString("# Export Summary\n\n")
	fmt.Fprintf(&b, "**Export Date:** %s\n\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Source:** %s (%s)\n\n", src.Origin, src.Kind)
	fmt.Fprintf(&b, "**Records Exported:** %d\n\n", len(files))
	b.WriteString("## Files\n\n")
	for _, f := range files {
		b.WriteString("- ")
		b.WriteString(filepath.Base(f))
		b.WriteString("\n")
	}

	path := filepath.Join(w.outputDir, "README.md")
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", fmt.Errorf("write summary: %w", err)
	}
	return path, nil
}
