// Package config holds the settings of the pdf417scan command.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/ericlevine/pdf417go/binarizer"
	"github.com/ericlevine/pdf417go/charset"
)

// Config is the complete configuration of pdf417scan. It is loaded from a
// configuration file, PDF417SCAN_* environment variables and command-line
// flags, in increasing order of precedence.
type Config struct {
	LogLevel  string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format" json:"log_format"`

	// Workers is the number of images decoded at the same time.
	Workers int `mapstructure:"workers" yaml:"workers" json:"workers"`

	Decode  DecodeConfig  `mapstructure:"decode" yaml:"decode" json:"decode"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output" json:"output"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics" json:"metrics"`
}

// DecodeConfig configures the decoder.
type DecodeConfig struct {
	// Binarizers are tried in order until one finds a barcode.
	Binarizers  []string `mapstructure:"binarizers" yaml:"binarizers" json:"binarizers"`
	Parallel    bool     `mapstructure:"parallel" yaml:"parallel" json:"parallel"`
	MaxParallel int      `mapstructure:"max_parallel" yaml:"max_parallel" json:"max_parallel"`
}

// OutputConfig configures how results are printed.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" json:"format"`
	// Charset decodes payloads of symbols without a GLI character set.
	Charset string `mapstructure:"charset" yaml:"charset" json:"charset"`
}

// MetricsConfig configures the Prometheus text file export.
type MetricsConfig struct {
	// File is written after the run when not empty.
	File string `mapstructure:"file" yaml:"file" json:"file"`
}

var (
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"text", "json"}
	validFormats    = []string{"text", "json", "yaml"}
)

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "text",
		Workers:   4,
		Decode: DecodeConfig{
			Binarizers: []string{binarizer.Default},
		},
		Output: OutputConfig{
			Format:  "text",
			Charset: charset.Default,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if !slices.Contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}
	if !slices.Contains(validLogFormats, c.LogFormat) {
		return fmt.Errorf("invalid log format: %s (must be one of: %s)", c.LogFormat, strings.Join(validLogFormats, ", "))
	}
	if !slices.Contains(validFormats, c.Output.Format) {
		return fmt.Errorf("invalid output format: %s (must be one of: %s)", c.Output.Format, strings.Join(validFormats, ", "))
	}
	if c.Workers <= 0 {
		return fmt.Errorf("invalid workers: %d (must be positive)", c.Workers)
	}
	if c.Decode.MaxParallel < 0 {
		return fmt.Errorf("invalid decode.max_parallel: %d (must not be negative)", c.Decode.MaxParallel)
	}
	if len(c.Decode.Binarizers) == 0 {
		return errors.New("decode.binarizers must name at least one binarizer")
	}
	for _, name := range c.Decode.Binarizers {
		if _, err := binarizer.Lookup(name); err != nil {
			return fmt.Errorf("invalid decode.binarizers: %w", err)
		}
	}
	if _, err := charset.Lookup(c.Output.Charset); err != nil {
		return fmt.Errorf("invalid output.charset: %w", err)
	}
	return nil
}

// BinarizerFactories resolves the configured binarizer names.
func (c *Config) BinarizerFactories() ([]binarizer.Factory, error) {
	factories := make([]binarizer.Factory, 0, len(c.Decode.Binarizers))
	for _, name := range c.Decode.Binarizers {
		f, err := binarizer.Lookup(name)
		if err != nil {
			return nil, err
		}
		factories = append(factories, f)
	}
	return factories, nil
}
