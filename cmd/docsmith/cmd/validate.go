package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/docsmith/internal/config"
	"github.com/dbsmedya/docsmith/internal/logger"
	"github.com/dbsmedya/docsmith/internal/source"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and check the source",
	Long: `Validate checks the configuration file and probes the configured
source to catch problems before an export.

Checks performed:
  - Configuration syntax and required fields
  - Source reachability (file, URL, or database)
  - CSV dialect detection against the configured delimiter
  - Row shape consistency on a sample of the data

Example:
  docsmith validate --config docsmith.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Fprintln(outputWriter, color.Cyan.Sprint("=== Configuration ==="))
	fmt.Fprintf(outputWriter, "Config file: %s\n", GetConfigFile())

	if err := cfg.Validate(); err != nil {
		var verrs config.ValidationErrors
		if errors.As(err, &verrs) {
			for _, ve := range verrs {
				fmt.Fprintln(outputWriter, color.Red.Sprintf("❌ %s: %s", ve.Field, ve.Message))
			}
		} else {
			fmt.Fprintln(outputWriter, color.Red.Sprintf("❌ %v", err))
		}
		return fmt.Errorf("configuration validation failed")
	}
	fmt.Fprintln(outputWriter, color.Green.Sprint("✅ Configuration valid"))

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

	fmt.Fprintln(outputWriter)
	fmt.Fprintln(outputWriter, color.Cyan.Sprintf("=== Source (%s) ===", ing.Kind()))

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

	if n, ok := ing.EstimateSize(ctx); ok {
		fmt.Fprintf(outputWriter, "Estimated records: %d\n", n)
	}
	fmt.Fprintln(outputWriter, color.Green.Sprint("✅ Source reachable and well-formed"))
	return nil
}
