package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/docsmith/internal/logger"
	"github.com/dbsmedya/docsmith/internal/record"
	"github.com/dbsmedya/docsmith/internal/source"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show field structure and data quality for a source",
	Long: `Inspect loads the source and reports what an export would see:
the discovered field paths, per-field completeness, and numeric
summaries for fields holding numbers.

Example:
  docsmith inspect --source people.csv`,
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx := context.Background()

	ing, err := source.DefaultRegistry().Create(cfg, log)
	if err != nil {
		return err
	}
	if closer, ok := ing.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	coll, err := ing.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load source: %w", err)
	}
	if coll.Len() == 0 {
		return fmt.Errorf("source produced no records")
	}

	stats := record.Summarize(coll)
	fmt.Fprintln(outputWriter, color.Cyan.Sprint("=== Source Summary ==="))
	fmt.Fprintf(outputWriter, "Source: %s (%s)\n", coll.Source.Origin, coll.Source.Kind)
	fmt.Fprintf(outputWriter, "Records: %d\n", stats.RecordCount)
	fmt.Fprintf(outputWriter, "Unique field paths: %d\n", stats.UniqueKeys)
	fmt.Fprintf(outputWriter, "Common field paths: %d\n\n", stats.CommonKeys)

	fmt.Fprintln(outputWriter, color.Cyan.Sprint("=== Field Quality ==="))
	quality := record.Quality(coll)
	for el := quality.Front(); el != nil; el = el.Next() {
		q := el.Value
		pct := 0.0
		if coll.Len() > 0 {
			pct = float64(q.Present-q.Nulls-q.Empties) / float64(coll.Len()) * 100
		}
		fmt.Fprintf(outputWriter, "%-30s %5.1f%% filled, %d unique", el.Key, pct, q.Unique)
		if len(q.Samples) > 0 {
			fmt.Fprintf(outputWriter, "  (e.g. %s)", strings.Join(q.Samples, ", "))
		}
		fmt.Fprintln(outputWriter)
	}

	numeric := record.NumericAggregates(coll, record.NumericPaths(coll))
	if numeric.Len() > 0 {
		fmt.Fprintln(outputWriter)
		fmt.Fprintln(outputWriter, color.Cyan.Sprint("=== Numeric Fields ==="))
		for el := numeric.Front(); el != nil; el = el.Next() {
			a := el.Value
			fmt.Fprintf(outputWriter, "%-30s min=%g max=%g mean=%.2f median=%g (n=%d)\n",
				el.Key, a.Min, a.Max, a.Mean, a.Median, a.Count)
		}
	}
	return nil
}
