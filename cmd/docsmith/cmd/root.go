package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/docsmith/internal/config"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile    string
	logLevel   string
	logFormat  string
	srcKind    string
	srcLoc     string
	outputDir  string
	keyMode    string
	keys       []string
	normalize  string
	batchSize  int
	maxRecords int
)

// outputWriter is used for printing output, can be overridden in tests
var outputWriter io.Writer = os.Stdout

// setOutputWriter sets the output writer (used for testing)
func setOutputWriter(w io.Writer) {
	outputWriter = w
}

// resetOutputWriter resets output to stdout (used for testing)
func resetOutputWriter() {
	outputWriter = os.Stdout
}

var rootCmd = &cobra.Command{
	Use:   "docsmith",
	Short: "Structured Data to Document Generator",
	Long: `A CLI tool that turns tabular and structured data sources into
per-record documents with metadata front matter.

Features:
  - CSV, JSON, REST API, and MySQL sources behind one interface
  - Flat column names converted to nested fields with type inference
  - Configurable key selection: inline simple fields, render the rest
  - Streaming batch processing for large sources
  - Per-record Markdown output with a YAML metadata block`,
	Version: Version,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Config file flag
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "docsmith.yaml",
		"Path to configuration file")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	// Source overrides
	rootCmd.PersistentFlags().StringVarP(&srcLoc, "source", "s", "",
		"Override source location (file path, URL, or DSN)")
	rootCmd.PersistentFlags().StringVar(&srcKind, "kind", "",
		"Override source kind (csv, json, api, mysql)")

	// Export overrides
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "",
		"Override output directory")
	rootCmd.PersistentFlags().StringVar(&keyMode, "key-mode", "",
		"Override key selection mode (all, select, flatten, none)")
	rootCmd.PersistentFlags().StringSliceVar(&keys, "keys", nil,
		"Keys to inline when key-mode is select")
	rootCmd.PersistentFlags().StringVar(&normalize, "normalize", "",
		"Normalize field names (snake_case, camelCase, PascalCase, kebab-case)")

	// Processing overrides
	rootCmd.PersistentFlags().IntVar(&batchSize, "batch-size", 0,
		"Override batch size (records per processing batch)")
	rootCmd.PersistentFlags().IntVar(&maxRecords, "max-records", 0,
		"Override maximum number of records to load (0 = unlimited)")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() config.CLIOverrides {
	return config.CLIOverrides{
		LogLevel:   logLevel,
		LogFormat:  logFormat,
		Kind:       srcKind,
		Source:     srcLoc,
		OutputDir:  outputDir,
		KeyMode:    keyMode,
		Keys:       keys,
		Normalize:  normalize,
		BatchSize:  batchSize,
		MaxRecords: maxRecords,
	}
}

// loadConfig loads the config file and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return nil, err
	}
	cfg.ApplyOverrides(GetCLIOverrides())
	return cfg, nil
}
