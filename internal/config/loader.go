package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name for configuration files (without extension).
	ConfigFileName = "pdf417scan"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "PDF417SCAN"
)

// Loader loads a Config through viper.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader over v. A nil v selects the global viper
// instance, which is where cobra flags are bound.
func NewLoader(v *viper.Viper) *Loader {
	if v == nil {
		v = viper.GetViper()
	}
	return &Loader{v: v}
}

// Load reads configFile, or searches the standard locations when it is
// empty, applies environment variables and defaults, and validates the
// result. A missing file in the standard locations is not an error.
func (l *Loader) Load(configFile string) (*Config, error) {
	l.setupEnvironmentVariables()
	l.setDefaults()

	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		l.v.SetConfigFile(configFile)
	} else {
		l.v.SetConfigName(ConfigFileName)
		l.v.SetConfigType("yaml")
		l.addConfigPaths()
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

// ConfigFileUsed returns the path of the file read by Load, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

func (l *Loader) addConfigPaths() {
	l.v.AddConfigPath(".")
	if configDir, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		l.v.AddConfigPath(filepath.Join(configDir, "pdf417scan"))
	} else if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(filepath.Join(home, ".config", "pdf417scan"))
	}
	l.v.AddConfigPath("/etc/pdf417scan")
}

func (l *Loader) setupEnvironmentVariables() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.AutomaticEnv()
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

func (l *Loader) setDefaults() {
	defaults := DefaultConfig()

	l.v.SetDefault("log_level", defaults.LogLevel)
	l.v.SetDefault("log_format", defaults.LogFormat)
	l.v.SetDefault("workers", defaults.Workers)

	l.v.SetDefault("decode.binarizers", defaults.Decode.Binarizers)
	l.v.SetDefault("decode.parallel", defaults.Decode.Parallel)
	l.v.SetDefault("decode.max_parallel", defaults.Decode.MaxParallel)

	l.v.SetDefault("output.format", defaults.Output.Format)
	l.v.SetDefault("output.charset", defaults.Output.Charset)

	l.v.SetDefault("metrics.file", defaults.Metrics.File)
}
