// Package config provides configuration structures and loading for docsmith.
package config

// Config represents the complete application configuration.
type Config struct {
	Source     SourceConfig     `yaml:"source" mapstructure:"source"`
	Export     ExportConfig     `yaml:"export" mapstructure:"export"`
	Processing ProcessingConfig `yaml:"processing" mapstructure:"processing"`
	Logging    LoggingConfig    `yaml:"logging" mapstructure:"logging"`
}

// SourceConfig describes where records come from and how to parse them.
type SourceConfig struct {
	// Kind selects the ingestor: csv, json, api, or mysql. Empty means
	// detect from the location.
	Kind     string      `yaml:"kind" mapstructure:"kind"`
	Location string      `yaml:"location" mapstructure:"location"` // file path, URL, or DSN
	CSV      CSVConfig   `yaml:"csv" mapstructure:"csv"`
	API      APIConfig   `yaml:"api" mapstructure:"api"`
	MySQL    MySQLConfig `yaml:"mysql" mapstructure:"mysql"`
}

// CSVConfig holds CSV parsing options.
type CSVConfig struct {
	Delimiter      string   `yaml:"delimiter" mapstructure:"delimiter"`
	HeaderRow      bool     `yaml:"header_row" mapstructure:"header_row"`
	FieldSeparator string   `yaml:"field_separator" mapstructure:"field_separator"` // nesting separator in column names
	DetectTypes    bool     `yaml:"detect_types" mapstructure:"detect_types"`
	NullValues     []string `yaml:"null_values" mapstructure:"null_values"`
	OnError        string   `yaml:"on_error" mapstructure:"on_error"` // ignore, warn, error
}

// APIConfig holds HTTP request options for API sources.
type APIConfig struct {
	Method         string            `yaml:"method" mapstructure:"method"`
	Headers        map[string]string `yaml:"headers" mapstructure:"headers"`
	Query          map[string]string `yaml:"query" mapstructure:"query"`
	Body           string            `yaml:"body" mapstructure:"body"`
	TimeoutSeconds int               `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// MySQLConfig holds options for loading records from a MySQL query.
type MySQLConfig struct {
	DSN            string `yaml:"dsn" mapstructure:"dsn"`
	Table          string `yaml:"table" mapstructure:"table"` // convenience: SELECT * FROM table
	Query          string `yaml:"query" mapstructure:"query"` // overrides Table when set
	FieldSeparator string `yaml:"field_separator" mapstructure:"field_separator"`
	DetectTypes    bool   `yaml:"detect_types" mapstructure:"detect_types"`
}

// ExportConfig controls document generation.
type ExportConfig struct {
	OutputDir     string   `yaml:"output_dir" mapstructure:"output_dir"`
	Format        string   `yaml:"format" mapstructure:"format"` // markdown, pdf, word
	KeyMode       string   `yaml:"key_mode" mapstructure:"key_mode"`
	SelectedKeys  []string `yaml:"selected_keys" mapstructure:"selected_keys"`
	FlattenNested bool     `yaml:"flatten_nested" mapstructure:"flatten_nested"`
	FilenameKey   string   `yaml:"filename_key" mapstructure:"filename_key"`
	Normalize     string   `yaml:"normalize" mapstructure:"normalize"` // field-name style, empty disables
	JSONFallback  bool     `yaml:"json_fallback" mapstructure:"json_fallback"`
	Summary       bool     `yaml:"summary" mapstructure:"summary"`
}

// ProcessingConfig represents batch processing settings.
type ProcessingConfig struct {
	BatchSize  int `yaml:"batch_size" mapstructure:"batch_size"`
	MaxRecords int `yaml:"max_records" mapstructure:"max_records"` // 0 means unlimited
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			CSV: CSVConfig{
				Delimiter:      ",",
				HeaderRow:      true,
				FieldSeparator: "_",
				DetectTypes:    true,
				OnError:        "warn",
			},
			API: APIConfig{
				Method:         "GET",
				TimeoutSeconds: 30,
			},
			MySQL: MySQLConfig{
				FieldSeparator: "_",
				DetectTypes:    true,
			},
		},
		Export: ExportConfig{
			OutputDir: "out",
			Format:    "markdown",
			KeyMode:   "all",
			Summary:   true,
		},
		Processing: ProcessingConfig{
			BatchSize: 100,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
	}
}
