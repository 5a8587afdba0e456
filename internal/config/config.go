// Package config loads process configuration from the environment.
package config

import (
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Config holds the runtime settings, populated from YOUSCAN_* environment
// variables.
type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	MaxUploadMB int    `envconfig:"MAX_UPLOAD_MB" default:"32"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogJSON     bool   `envconfig:"LOG_JSON" default:"false"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("youscan", &cfg); err != nil {
		return Config{}, errors.Wrap(err, "load configuration")
	}
	return cfg, nil
}

// Logger builds the process logger per the configured level and format.
func (c Config) Logger() *logrus.Logger {
	log := logrus.New()
	if c.LogJSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}
