// Package app provides application initialization and dependency injection.
package app

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/guttosm/truckload/config"
	"github.com/guttosm/truckload/internal/itemset"
	"github.com/guttosm/truckload/internal/logger"
	"github.com/guttosm/truckload/internal/restriction"
	"github.com/guttosm/truckload/internal/service"
	"github.com/rs/zerolog"
)

// App holds the components of one command invocation.
type App struct {
	cfg      config.Config
	runID    string
	command  string
	set      *itemset.ItemSet
	options  *restriction.Options
	services *ServiceComponents
	log      zerolog.Logger
}

// InitializeApp resolves the configured item set and wires all dependencies.
func InitializeApp(cfg config.Config, command string) (*App, error) {
	opt, err := itemset.ParseOption(cfg.ItemSet)
	if err != nil {
		return nil, err
	}
	set, err := itemset.Load(opt)
	if err != nil {
		return nil, err
	}
	return NewWithItemSet(cfg, command, set)
}

// NewWithItemSet wires an App around an already validated item set.
func NewWithItemSet(cfg config.Config, command string, set *itemset.ItemSet) (*App, error) {
	var opts *restriction.Options
	if cfg.OptionsPath != "" {
		loaded, err := restriction.Load(cfg.OptionsPath)
		if err != nil {
			return nil, err
		}
		if err := loaded.Validate(set); err != nil {
			return nil, fmt.Errorf("options %s: %w", cfg.OptionsPath, err)
		}
		opts = loaded
	}

	runID := uuid.NewString()
	return &App{
		cfg:      cfg,
		runID:    runID,
		command:  command,
		set:      set,
		options:  opts,
		services: InitializeServices(set, cfg.Search),
		log:      logger.WithRun(runID, command),
	}, nil
}

// RunID returns the identifier attached to every log line and record of this run.
func (a *App) RunID() string {
	return a.runID
}

// ItemSet returns the item set the App searches over.
func (a *App) ItemSet() *itemset.ItemSet {
	return a.set
}

// Config returns the loaded configuration.
func (a *App) Config() config.Config {
	return a.cfg
}

// plans returns the generator input for the loaded options, or nil for defaults.
func (a *App) plans() []service.CategoryPlan {
	if a.options == nil {
		return nil
	}
	return a.options.Plan(a.set)
}
