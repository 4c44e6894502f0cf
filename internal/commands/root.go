package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/klabast/wb-services/holiday-planner/internal/app"
	"github.com/klabast/wb-services/holiday-planner/internal/calendar"
	"github.com/klabast/wb-services/holiday-planner/internal/storage"
)

// configFilePath is the persistent --config flag
var configFilePath string

// Execute builds the command tree and executes commands.
func Execute() error {
	c := &cobra.Command{
		Use:   "holiday-planner",
		Short: "Holiday registry and day schedule planner",
		Long: "Keeps the built-in Russian public holidays, user holidays and " +
			"per-day schedules. Without a subcommand the console menu is started.",
		SilenceUsage: true,
		RunE:         executeConsole,
	}

	c.PersistentFlags().StringVarP(&configFilePath, "config", "c", app.DefaultConfigFile,
		"set the path for the YAML configuration file")

	c.AddCommand(newConsoleCmd())
	c.AddCommand(newServeCmd())
	c.AddCommand(newHashPasswordCmd())

	return c.Execute()
}

// environment is what every runtime command needs
type environment struct {
	cfg   *app.Config
	log   *zap.SugaredLogger
	gw    storage.Gateway
	store *calendar.Store
}

// bootstrap loads the configuration, builds the logger and opens the store.
// interactive selects the quieter console logger.
func bootstrap(interactive bool) (*environment, error) {
	cfg, err := app.LoadConfig(configFilePath)
	if err != nil {
		return nil, err
	}

	logCfg := cfg.Log
	if interactive {
		logCfg = cfg.Log.ForConsole()
	}
	logger, err := app.NewLogger(logCfg)
	if err != nil {
		return nil, err
	}
	log := logger.Sugar()

	gw, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Path, log)
	if err != nil {
		return nil, err
	}

	store, err := calendar.NewStore(gw, calendar.WithLogger(log))
	if err != nil {
		gw.Close()
		return nil, fmt.Errorf("failed to load calendar data: %w", err)
	}

	log.Infow("Calendar loaded", "backend", cfg.Storage.Backend, "path", cfg.Storage.Path)
	return &environment{cfg: cfg, log: log, gw: gw, store: store}, nil
}

// Close releases the gateway and flushes the logger
func (e *environment) Close() {
	if err := e.gw.Close(); err != nil {
		e.log.Errorw("Failed to close storage", "error", err)
	}
	_ = e.log.Sync()
}
