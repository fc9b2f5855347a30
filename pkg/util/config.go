package util

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	LogLevel             string  `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	EqualityTolerance    float64 `mapstructure:"equality_tolerance" validate:"gt=0,lt=1"`
	WayIndexWarnDistance float64 `mapstructure:"way_index_warn_distance" validate:"gte=0"`
	Bidirectional        bool    `mapstructure:"bidirectional"`
	Workers              int     `mapstructure:"workers" validate:"gte=1,lte=256"`
	GraphPath            string  `mapstructure:"graph_path"`
	MetricsAddr          string  `mapstructure:"metrics_addr" validate:"omitempty,hostname_port"`
	MetricsRateLimit     float64 `mapstructure:"metrics_rate_limit" validate:"gte=0"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("equality_tolerance", 1e-6)
	v.SetDefault("way_index_warn_distance", 1.0)
	v.SetDefault("bidirectional", true)
	v.SetDefault("workers", 4)
	v.SetDefault("graph_path", "./data/graph.graph")
	v.SetDefault("metrics_addr", "")
	v.SetDefault("metrics_rate_limit", 0.0)
}

// ReadConfig loads the overlay builder settings. An empty configPath looks for
// config.yaml under ./data/ and falls back to the defaults when none exists.
// Every key can be overridden with a NAVX_ prefixed environment variable.
func ReadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("navx")
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./data/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, WrapErrorf(err, ErrBadParamInput, "fatal error config file")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, WrapErrorf(err, ErrBadParamInput, "failed to decode config")
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, WrapErrorf(err, ErrBadParamInput, "invalid config")
	}
	return cfg, nil
}
