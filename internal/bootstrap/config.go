// Package bootstrap wires configuration into the callguard components.
package bootstrap

import (
	"errors"
	"fmt"
	"os"

	"github.com/hyunhan-cho/LT-GDG/internal/config"
	"github.com/hyunhan-cho/LT-GDG/internal/logger"
)

// DefaultConfigPath is used when neither a flag nor CONFIG_PATH names a file.
const DefaultConfigPath = "config.yml"

// LoadConfig loads and validates configuration. A missing file at the
// default path falls back to defaults and environment.
func LoadConfig(path string) (*config.Config, error) {
	explicit := path != ""
	if !explicit {
		path = config.GetConfigPath(DefaultConfigPath)
	}

	cfg, err := config.Load(path)
	if err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		if cfg, err = config.FromEnv(); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// CreateLogger creates the service logger from configuration.
func CreateLogger(cfg *config.Config) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(logger.String("service", cfg.Service.Name)), nil
}
