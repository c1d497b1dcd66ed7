// Package config loads meshtri command settings.
package config

import (
	meshtri "github.com/flywave/go-meshtri"
)

type Config struct {
	Triangulate meshtri.Options `yaml:"triangulate"`
	Output      OutputConfig    `yaml:"output"`
	Logging     LoggingConfig   `yaml:"logging"`
}

// OutputConfig.Format names the default output extension and the writer used
// when the output path has no known extension.
type OutputConfig struct {
	Format string `yaml:"format"`
}

type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

func Default() *Config {
	return &Config{
		Triangulate: meshtri.DefaultOptions(),
		Output: OutputConfig{
			Format: meshtri.MST,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
