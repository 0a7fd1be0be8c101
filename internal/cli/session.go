package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"task-timer/internal/api"
	"task-timer/internal/config"
	"task-timer/internal/idle"
	"task-timer/internal/logging"
	"task-timer/internal/services"
	"task-timer/internal/validation"
)

// Session is a running tracker plus the resources it holds open.
type Session struct {
	API    api.API
	Logger *slog.Logger

	closers []io.Closer
	cancel  context.CancelFunc
	done    chan error

	closeOnce sync.Once
	closeErr  error
}

// SessionFactory opens a session for cfg. configPath is where changed idle
// settings are written back.
type SessionFactory func(cfg *config.Config, configPath string) (*Session, error)

// OpenSession wires the logger, the ledger database, the services and the
// tracker, and starts the tracker loop.
func OpenSession(cfg *config.Config, configPath string) (*Session, error) {
	logger, logCloser, err := logging.Setup(logging.Options{
		File:    cfg.Application.LogFile,
		Verbose: cfg.Application.Verbose,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	repo, err := config.CreateRepository(cfg)
	if err != nil {
		logCloser.Close()
		return nil, err
	}

	opts := api.OptionsFromConfig(cfg)
	opts.Logger = logger
	opts.Validator = validation.NewValidatorWithConfig(cfg)
	opts.Source = idle.NewPointerSource(cfg.Idle.PollInterval)
	if configPath != "" {
		opts.OnIdleSettingsChanged = func(enabled bool, minutes int) error {
			return config.SaveIdleSettings(configPath, enabled, minutes)
		}
	}

	tracker := api.New(services.NewServiceContainer(repo, logger), opts)
	logger.Debug("session opened", "database", cfg.GetDatabasePath())

	// The repository closes before the log file.
	return StartSession(tracker, logger, repo, logCloser), nil
}

// StartSession runs tracker in the background until Close is called.
// closers are released in order after the loop has exited.
func StartSession(tracker api.API, logger *slog.Logger, closers ...io.Closer) *Session {
	if logger == nil {
		logger = logging.Discard()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		API:     tracker,
		Logger:  logger,
		closers: closers,
		cancel:  cancel,
		done:    make(chan error, 1),
	}
	go func() {
		s.done <- tracker.Run(ctx)
	}()
	return s
}

// Close stops the tracker, which pauses and saves every running task, and
// then releases the session's resources.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		err := <-s.done
		if err != nil {
			s.Logger.Error("tracker stopped with error", "error", err)
		}
		for _, c := range s.closers {
			if c == nil {
				continue
			}
			err = errors.Join(err, c.Close())
		}
		s.closeErr = err
	})
	return s.closeErr
}
