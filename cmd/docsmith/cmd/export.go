package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/docsmith/internal/export"
	"github.com/dbsmedya/docsmith/internal/lock"
	"github.com/dbsmedya/docsmith/internal/logger"
	"github.com/dbsmedya/docsmith/internal/record"
	"github.com/dbsmedya/docsmith/internal/source"
	"github.com/dbsmedya/docsmith/internal/verifier"
)

var skipVerify bool

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export source records as documents",
	Long: `Export loads records from the configured source and writes one
document per record into the output directory.

The export process follows these steps:
  1. Validate the source (reachability, dialect, row shape)
  2. Stream records in batches, converting flat fields to nested ones
  3. Partition each record's fields into front matter and sections
  4. Write one Markdown file per record, plus an optional summary

Example:
  docsmith export --config docsmith.yaml --source people.csv`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().BoolVar(&skipVerify, "skip-verify", false,
		"Skip document verification after writing")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	format, err := export.ParseFormat(cfg.Export.Format)
	if err != nil {
		return err
	}
	if cap := format.Capability(); !cap.Available {
		return fmt.Errorf("format %s unavailable: %s", format, cap.Reason)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ing, err := source.DefaultRegistry().Create(cfg, log)
	if err != nil {
		return err
	}
	if closer, ok := ing.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	if err := checkSource(ctx, ing); err != nil {
		return err
	}

	writer, err := export.NewWriter(cfg.Export, log)
	if err != nil {
		return err
	}

	dirLock := lock.New(cfg.Export.OutputDir)
	if err := dirLock.AcquireOrFail(ctx); err != nil {
		return err
	}
	defer dirLock.Release()

	var style record.NameStyle
	if cfg.Export.Normalize != "" {
		s, ok := record.ParseNameStyle(cfg.Export.Normalize)
		if !ok {
			return fmt.Errorf("unknown normalize style %q", cfg.Export.Normalize)
		}
		style = s
	}

	batchSize := cfg.Processing.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	var (
		created []string
		src     record.SourceInfo
		index   int
	)
	err = ing.StreamBatches(ctx, batchSize, func(batch []*record.Record) error {
		if len(batch) > 0 && src.Kind == "" {
			src = batch[0].Source
		}
		if style != "" {
			for i, rec := range batch {
				batch[i] = record.NormalizeRecord(rec, style)
			}
		}
		paths, werr := writer.WriteRecords(batch, index)
		created = append(created, paths...)
		index += len(batch)
		return werr
	})
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	if len(created) == 0 {
		return fmt.Errorf("source produced no records")
	}

	if !skipVerify {
		ver, err := verifier.NewVerifier(verifier.MethodCount, log)
		if err != nil {
			return err
		}
		if _, _, err := ver.Verify(ctx, created, index); err != nil {
			return fmt.Errorf("export verification failed: %w", err)
		}
	}

	if summaryPath, err := writer.WriteSummary(src, created); err != nil {
		return err
	} else if summaryPath != "" {
		created = append(created, summaryPath)
	}

	fmt.Fprintln(outputWriter, color.Green.Sprintf("✅ Exported %d documents to %s", len(created), cfg.Export.OutputDir))
	return nil
}

// checkSource runs source validation and prints warnings without failing on
// them; errors abort the run.
func checkSource(ctx context.Context, ing source.Ingestor) error {
	v := ing.Validate(ctx)
	for _, warn := range v.Warnings {
		fmt.Fprintln(outputWriter, color.Yellow.Sprintf("⚠️  %s", warn))
	}
	if !v.OK() {
		for _, e := range v.Errors {
			fmt.Fprintln(outputWriter, color.Red.Sprintf("❌ %s", e))
		}
		return fmt.Errorf("source validation failed")
	}
	return nil
}
