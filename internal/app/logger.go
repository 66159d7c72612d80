// Package app provides logger initialization.
package app

import (
	"github.com/guttosm/truckload/config"
	"github.com/guttosm/truckload/internal/logger"
)

// InitializeLogger initializes the global logger from the loaded configuration.
func InitializeLogger(cfg config.LogConfig) {
	logger.Init(cfg.Level, cfg.Pretty)
}
