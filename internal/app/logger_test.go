//go:build !integration

package app

import (
	"testing"

	"github.com/guttosm/truckload/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestInitializeLogger(t *testing.T) {
	tests := []struct {
		name  string
		cfg   config.LogConfig
		level zerolog.Level
	}{
		{name: "initializes with info level", cfg: config.LogConfig{Level: "info"}, level: zerolog.InfoLevel},
		{name: "initializes with debug level", cfg: config.LogConfig{Level: "debug"}, level: zerolog.DebugLevel},
		{name: "initializes with pretty output", cfg: config.LogConfig{Level: "warn", Pretty: true}, level: zerolog.WarnLevel},
		{name: "falls back to info", cfg: config.LogConfig{Level: ""}, level: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				InitializeLogger(tt.cfg)
			})
			assert.Equal(t, tt.level, zerolog.GlobalLevel())
		})
	}
}
