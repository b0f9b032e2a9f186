package cmd

import (
	"context"
	"fmt"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/docsmith/internal/export"
	"github.com/dbsmedya/docsmith/internal/logger"
	"github.com/dbsmedya/docsmith/internal/record"
	"github.com/dbsmedya/docsmith/internal/source"
)

var previewCount int

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render the first few records without writing files",
	Long: `Preview loads the first records from the configured source and
prints the documents that an export would produce, without touching
the output directory.

Example:
  docsmith preview --source people.csv --count 2`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().IntVarP(&previewCount, "count", "n", 3,
		"Number of records to preview")

	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	renderer, err := export.NewRenderer(cfg.Export)
	if err != nil {
		return err
	}

	ctx := context.Background()

	ing, err := source.DefaultRegistry().Create(cfg, log)
	if err != nil {
		return err
	}
	if closer, ok := ing.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	var records []*record.Record
	err = ing.StreamBatches(ctx, previewCount, func(batch []*record.Record) error {
		records = append(records, batch...)
		if len(records) >= previewCount {
			records = records[:previewCount]
			return source.ErrStop
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("preview failed: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("source produced no records")
	}

	var style record.NameStyle
	if cfg.Export.Normalize != "" {
		if s, ok := record.ParseNameStyle(cfg.Export.Normalize); ok {
			style = s
		}
	}

	for i, rec := range records {
		if style != "" {
			rec = record.NormalizeRecord(rec, style)
		}
		doc, err := renderer.RenderRecord(rec)
		if err != nil {
			return fmt.Errorf("render record %d: %w", i, err)
		}

		fmt.Fprintln(outputWriter, color.Cyan.Sprintf("=== Record %d (%s) ===", i+1, rec.Source.Origin))
		fmt.Fprint(outputWriter, doc)
		fmt.Fprintln(outputWriter)
	}
	return nil
}
