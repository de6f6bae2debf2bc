package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"keep/internal/config"
	"keep/internal/logging"
	"keep/internal/storage"
	"keep/internal/task"
	"keep/internal/ui"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "keep",
		Short:         "Keep - scheduled tasks and free-form notes in the terminal",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			defer a.close()
			if err := ui.Run(a.store, a.backend, a.cfg, a.log); err != nil {
				return fmt.Errorf("error running program: %w", err)
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $KEEP_CONFIG or the user config dir)")

	rootCmd.AddCommand(listCmd(&configPath))
	rootCmd.AddCommand(overdueCmd(&configPath))
	rootCmd.AddCommand(addCmd(&configPath))
	rootCmd.AddCommand(doneCmd(&configPath))
	rootCmd.AddCommand(notesCmd(&configPath))
	return rootCmd
}

type app struct {
	cfg     config.Config
	backend storage.Backend
	store   *task.Store
	log     *zap.Logger
}

// openApp loads config, logger, backend and store. A store that fails to
// load is replaced by an empty one; only config and backend errors are fatal.
func openApp(configPath string) (*app, error) {
	if configPath == "" {
		configPath = config.ResolveConfigPath()
	}
	firstLaunch := false
	if _, err := os.Stat(configPath); err != nil {
		firstLaunch = errors.Is(err, os.ErrNotExist)
	}
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}
	if firstLaunch {
		log.Info("wrote default config", zap.String("path", configPath))
	}

	backend, err := storage.Open(cfg.Backend, cfg.StorePath())
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	store, err := backend.Load()
	if err != nil {
		log.Warn("load failed, starting empty", zap.String("path", cfg.StorePath()), zap.Error(err))
	}
	log.Debug("store loaded", zap.String("backend", cfg.Backend), zap.Int("tasks", len(store.Tasks)))

	return &app{cfg: cfg, backend: backend, store: store, log: log}, nil
}

func (a *app) save() error {
	if err := a.backend.Save(a.store); err != nil {
		a.log.Warn("save failed", zap.Error(err))
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

func (a *app) close() {
	if err := a.backend.Close(); err != nil {
		a.log.Warn("close storage", zap.Error(err))
	}
	_ = a.log.Sync()
}
