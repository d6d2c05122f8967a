// Package config discovers the optional codedoc configuration file and
// resolves it into filter settings and run defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"codedoc/pkg/filter"
)

// configName is the configuration file base name (codedoc.yaml).
const configName = "codedoc"

// Config holds the recognized configuration options. Flags override these
// values; these values override the built-in defaults.
type Config struct {
	IncludePatterns   []string `mapstructure:"include_patterns"`
	ExcludePatterns   []string `mapstructure:"exclude_patterns"`
	MaxFileSizeKB     int      `mapstructure:"max_file_size_kb"`
	ShowExcluded      bool     `mapstructure:"show_excluded"`
	RespectIgnoreFile *bool    `mapstructure:"respect_ignore_file"`
	Template          string   `mapstructure:"template"`
	TemplatesDir      string   `mapstructure:"templates_dir"`
	HistoryPath       string   `mapstructure:"history_path"`
	Workers           int      `mapstructure:"workers"`
}

// Load reads the configuration file. An explicit path must exist; otherwise
// codedoc.yaml is searched in the working directory and the user config
// directory, and absence simply yields the zero Config.
func Load(workingDir, explicitPath string, logger *zap.Logger) (Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	v := viper.New()
	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		if workingDir != "" {
			v.AddConfigPath(workingDir)
		}
		if userDir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(userDir, configName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// Absence is fine; a file that was found but does not parse is not.
		var notFound viper.ConfigFileNotFoundError
		if explicitPath == "" && errors.As(err, &notFound) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("failed to read configuration: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode configuration: %w", err)
	}

	logger.Debug("Loaded configuration", zap.String("file", v.ConfigFileUsed()))
	return cfg, nil
}

// Settings resolves the configured values into filter settings, applying the
// built-in defaults for anything unset.
func (c Config) Settings() (filter.Settings, error) {
	settings := filter.DefaultSettings()
	settings.IncludePatterns = c.IncludePatterns
	settings.ExcludePatterns = c.ExcludePatterns
	settings.ShowExcluded = c.ShowExcluded
	if c.RespectIgnoreFile != nil {
		settings.RespectIgnoreFile = *c.RespectIgnoreFile
	}
	if c.MaxFileSizeKB != 0 {
		limit, err := filter.FromKilobytes(c.MaxFileSizeKB)
		if err != nil {
			return filter.Settings{}, err
		}
		settings.MaxFileSize = limit
	}
	return settings, nil
}

// HistoryFile returns the configured history location, or the default under
// the user config directory.
func (c Config) HistoryFile() string {
	if c.HistoryPath != "" {
		return c.HistoryPath
	}
	userDir, err := os.UserConfigDir()
	if err != nil {
		return "codedoc_history.jsonl"
	}
	return filepath.Join(userDir, configName, "history.jsonl")
}
