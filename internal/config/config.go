// Package config loads tool configuration from file, environment and flags.
package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config is the resolved tool configuration
type Config struct {
	// IndexURL is the package index queried for metadata
	IndexURL string `mapstructure:"index-url"`
	// Timeout bounds each metadata request
	Timeout time.Duration `mapstructure:"timeout"`
	// RetryAttempts bounds transient-failure retries
	RetryAttempts uint `mapstructure:"retry-attempts"`
	// ScoringFile optionally overrides the built-in scoring weights
	ScoringFile string `mapstructure:"scoring-file"`
	// Projects are the ticket prefixes accepted by validate-commit
	Projects []string `mapstructure:"projects"`
	// RawBaseURL serves requirements files by release tag
	RawBaseURL string `mapstructure:"raw-base-url"`
}

// Load resolves configuration: defaults, then an optional config file
// (--config or ~/.pipscout.yaml), then PIPSCOUT_* environment variables.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("index-url", "https://pypi.org")
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("retry-attempts", 3)
	v.SetDefault("raw-base-url", "https://raw.githubusercontent.com/vllm-project/vllm")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".pipscout")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("PIPSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "failed to read config file")
		}
		logrus.Debug("No config file found, using defaults")
	} else {
		logrus.Debugf("Using config file: %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse configuration")
	}
	return &cfg, nil
}
