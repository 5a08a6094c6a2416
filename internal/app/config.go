package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	PagePath string // html document to realize
	DefsPath string // hcl definition manifests (file or directory)

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.PagePath == "" {
		return nil, errors.New("PagePath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
