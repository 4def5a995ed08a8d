package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/amonks/flowstate/entity"
	"github.com/amonks/flowstate/internal/config"
	"github.com/amonks/flowstate/internal/metrics"
	"github.com/amonks/flowstate/internal/state"
	"github.com/amonks/flowstate/internal/state/sqlite"
	"github.com/amonks/flowstate/todo"
	"github.com/amonks/flowstate/user"
)

// app holds the process-wide resources shared by commands.
type app struct {
	cfg      *config.Config
	backend  config.Backend
	medium   state.Medium
	logger   entity.Logger
	recorder *metrics.Recorder

	todos *todo.Store
	users *user.Store
}

var current *app

func setupApp(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		return err
	}

	backend := cfg.Store.Backend
	if cmd.Flags().Changed("backend") {
		backend = config.Backend(rootBackend)
		if !backend.IsValid() {
			return fmt.Errorf("%w: %q", config.ErrInvalidBackend, rootBackend)
		}
	}

	loggers := []entity.Logger{}
	if rootVerbose {
		loggers = append(loggers, entity.NewConsoleLogger(cmd.ErrOrStderr()))
	}
	var recorder *metrics.Recorder
	if rootMetricsFile != "" {
		recorder = metrics.NewRecorder()
		loggers = append(loggers, recorder)
	}

	current = &app{
		cfg:      cfg,
		backend:  backend,
		logger:   entity.MultiLogger(loggers...),
		recorder: recorder,
	}
	return nil
}

func (a *app) openMedium() (state.Medium, error) {
	if a.medium != nil {
		return a.medium, nil
	}
	if a.backend == config.BackendMemory {
		a.medium = state.NewMemoryMedium()
		return a.medium, nil
	}

	dir, err := a.cfg.StateDir()
	if err != nil {
		return nil, err
	}
	switch a.backend {
	case config.BackendSQLite:
		medium, err := sqlite.Open(filepath.Join(dir, sqlite.DefaultFile))
		if err != nil {
			return nil, err
		}
		a.medium = medium
	default:
		a.medium = state.NewFileMedium(dir)
	}
	return a.medium, nil
}

func (a *app) storeOptions() []entity.Option {
	return []entity.Option{entity.WithLogger(a.logger)}
}

func openTodoStore() (*todo.Store, error) {
	if current == nil {
		return nil, errors.New("flow is not initialized")
	}
	if current.todos != nil {
		return current.todos, nil
	}
	medium, err := current.openMedium()
	if err != nil {
		return nil, err
	}
	store, err := todo.Open(state.NewAdapter[todo.Todo](medium, todo.Kind), current.storeOptions()...)
	if err != nil {
		return nil, fmt.Errorf("open todo store: %w", err)
	}
	current.todos = store
	return store, nil
}

func openUserStore() (*user.Store, error) {
	if current == nil {
		return nil, errors.New("flow is not initialized")
	}
	if current.users != nil {
		return current.users, nil
	}
	medium, err := current.openMedium()
	if err != nil {
		return nil, err
	}
	store, err := user.Open(state.NewAdapter[user.User](medium, user.Kind), current.storeOptions()...)
	if err != nil {
		return nil, fmt.Errorf("open user store: %w", err)
	}
	current.users = store
	return store, nil
}

// closeApp releases stores and the medium, then writes metrics.
func closeApp() error {
	if current == nil {
		return nil
	}
	a := current
	current = nil

	var errs []error
	if a.todos != nil {
		errs = append(errs, a.todos.Close())
	}
	if a.users != nil {
		errs = append(errs, a.users.Close())
	}
	if a.medium != nil {
		errs = append(errs, a.medium.Close())
	}
	if a.recorder != nil && rootMetricsFile != "" {
		if err := a.recorder.WriteTextfile(rootMetricsFile); err != nil {
			errs = append(errs, fmt.Errorf("write metrics: %w", err))
		}
	}
	return errors.Join(errs...)
}
