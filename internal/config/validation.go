package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errors ValidationErrors

	if err := c.validateSource(); err != nil {
		errors = append(errors, err...)
	}
	if err := c.validateExport(); err != nil {
		errors = append(errors, err...)
	}
	if err := c.validateProcessing(); err != nil {
		errors = append(errors, err...)
	}
	if err := c.validateLogging(); err != nil {
		errors = append(errors, err...)
	}

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateSource() ValidationErrors {
	var errors ValidationErrors

	validKind := map[string]bool{"": true, "csv": true, "json": true, "api": true, "mysql": true}
	if !validKind[c.Source.Kind] {
		errors = append(errors, ValidationError{
			Field:   "source.kind",
			Message: "kind must be 'csv', 'json', 'api', or 'mysql'",
		})
	}

	if c.Source.Kind == "mysql" {
		if c.Source.MySQL.DSN == "" && c.Source.Location == "" {
			errors = append(errors, ValidationError{
				Field:   "source.mysql.dsn",
				Message: "dsn is required for mysql sources",
			})
		}
		if c.Source.MySQL.Table == "" && c.Source.MySQL.Query == "" {
			errors = append(errors, ValidationError{
				Field:   "source.mysql.table",
				Message: "either table or query is required for mysql sources",
			})
		}
	} else if c.Source.Location == "" {
		errors = append(errors, ValidationError{
			Field:   "source.location",
			Message: "location is required",
		})
	}

	if len(c.Source.CSV.Delimiter) > 1 {
		errors = append(errors, ValidationError{
			Field:   "source.csv.delimiter",
			Message: "delimiter must be a single character",
		})
	}

	validPolicy := map[string]bool{"": true, "ignore": true, "warn": true, "error": true}
	if !validPolicy[c.Source.CSV.OnError] {
		errors = append(errors, ValidationError{
			Field:   "source.csv.on_error",
			Message: "on_error must be 'ignore', 'warn', or 'error'",
		})
	}

	if c.Source.API.TimeoutSeconds < 0 {
		errors = append(errors, ValidationError{
			Field:   "source.api.timeout_seconds",
			Message: "timeout_seconds cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateExport() ValidationErrors {
	var errors ValidationErrors

	validFormat := map[string]bool{"": true, "markdown": true, "pdf": true, "word": true}
	if !validFormat[c.Export.Format] {
		errors = append(errors, ValidationError{
			Field:   "export.format",
			Message: "format must be 'markdown', 'pdf', or 'word'",
		})
	}

	validMode := map[string]bool{"": true, "all": true, "select": true, "flatten": true, "none": true}
	if !validMode[c.Export.KeyMode] {
		errors = append(errors, ValidationError{
			Field:   "export.key_mode",
			Message: "key_mode must be 'all', 'select', 'flatten', or 'none'",
		})
	}

	validStyle := map[string]bool{"": true, "snake_case": true, "camelCase": true, "PascalCase": true, "kebab-case": true}
	if !validStyle[c.Export.Normalize] {
		errors = append(errors, ValidationError{
			Field:   "export.normalize",
			Message: "normalize must be 'snake_case', 'camelCase', 'PascalCase', or 'kebab-case'",
		})
	}

	if c.Export.OutputDir == "" {
		errors = append(errors, ValidationError{
			Field:   "export.output_dir",
			Message: "output_dir is required",
		})
	}

	return errors
}

func (c *Config) validateProcessing() ValidationErrors {
	var errors ValidationErrors

	if c.Processing.BatchSize <= 0 {
		errors = append(errors, ValidationError{
			Field:   "processing.batch_size",
			Message: "batch_size must be positive",
		})
	}

	if c.Processing.MaxRecords < 0 {
		errors = append(errors, ValidationError{
			Field:   "processing.max_records",
			Message: "max_records cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	validLevel := map[string]bool{"": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevel[c.Logging.Level] {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: "level must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	validFormat := map[string]bool{"": true, "json": true, "text": true}
	if !validFormat[c.Logging.Format] {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: "format must be 'json' or 'text'",
		})
	}

	return errors
}
