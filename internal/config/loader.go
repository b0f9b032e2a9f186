package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from the specified file path.
// It supports YAML files and performs environment variable substitution.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	substituteEnvVars(cfg)

	return cfg, nil
}

// LoadFromViper creates a Config from an existing Viper instance.
// Useful for testing or when Viper is configured externally.
func LoadFromViper(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	substituteEnvVars(cfg)

	return cfg, nil
}

// envVarPattern matches ${VAR_NAME} or $VAR_NAME patterns
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// substituteEnvVars replaces ${VAR_NAME} patterns with environment variable
// values in the fields that commonly carry credentials or machine-specific
// paths.
func substituteEnvVars(cfg *Config) {
	cfg.Source.Location = expandEnvVar(cfg.Source.Location)
	cfg.Source.MySQL.DSN = expandEnvVar(cfg.Source.MySQL.DSN)
	for k, v := range cfg.Source.API.Headers {
		cfg.Source.API.Headers[k] = expandEnvVar(v)
	}
	cfg.Export.OutputDir = expandEnvVar(cfg.Export.OutputDir)
	cfg.Logging.Output = expandEnvVar(cfg.Logging.Output)
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}

		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		// Return original if env var not found
		return match
	})
}

// CLIOverrides contains flag values that override config file settings.
type CLIOverrides struct {
	LogLevel   string
	LogFormat  string
	Kind       string
	Source     string
	OutputDir  string
	KeyMode    string
	Keys       []string
	Normalize  string
	BatchSize  int
	MaxRecords int
}

// ApplyOverrides applies CLI flag overrides to the configuration.
// Only non-zero/non-empty values are applied.
func (c *Config) ApplyOverrides(o CLIOverrides) {
	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		c.Logging.Format = o.LogFormat
	}
	if o.Kind != "" {
		c.Source.Kind = o.Kind
	}
	if o.Source != "" {
		c.Source.Location = o.Source
	}
	if o.OutputDir != "" {
		c.Export.OutputDir = o.OutputDir
	}
	if o.KeyMode != "" {
		c.Export.KeyMode = o.KeyMode
	}
	if len(o.Keys) > 0 {
		c.Export.SelectedKeys = o.Keys
	}
	if o.Normalize != "" {
		c.Export.Normalize = o.Normalize
	}
	if o.BatchSize > 0 {
		c.Processing.BatchSize = o.BatchSize
	}
	if o.MaxRecords > 0 {
		c.Processing.MaxRecords = o.MaxRecords
	}
}
