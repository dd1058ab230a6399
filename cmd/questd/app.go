package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sandeepkv93/questd/internal/calendar"
	"github.com/sandeepkv93/questd/internal/calendar/google"
	"github.com/sandeepkv93/questd/internal/calsync"
	"github.com/sandeepkv93/questd/internal/config"
	"github.com/sandeepkv93/questd/internal/scheduler"
	"github.com/sandeepkv93/questd/internal/storage"
	"github.com/sandeepkv93/questd/internal/store"
)

// app holds the wired runtime shared by the subcommands.
type app struct {
	cfg     config.RuntimeConfig
	logger  *slog.Logger
	logFile *os.File
	repo    *storage.SQLiteRepository
	engine  *scheduler.Engine
	store   *store.Store
	syncer  *calsync.Syncer
}

func loadEnv(files ...string) error {
	if err := config.LoadDotEnv(files...); err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	return nil
}

func newLogger(cfg config.RuntimeConfig) (*slog.Logger, *os.File, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o700); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.LogLevel})), f, nil
}

// openApp opens the database, restores the store and wires reminders and
// calendar sync. The reminder engine is started; Close stops it.
func openApp(ctx context.Context) (*app, error) {
	cfg := config.FromEnv(config.Default())
	logger, logFile, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o700); err != nil {
		logFile.Close()
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	repo, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}

	engine := scheduler.NewEngine(cfg.SchedulerBuffer)
	engine.Start()

	a := &app{cfg: cfg, logger: logger, logFile: logFile, repo: repo, engine: engine}
	a.store = store.New(
		store.WithRepository(repo),
		store.WithReminders(scheduler.NewReminders(engine, logger)),
		store.WithLogger(logger),
	)
	if err := a.store.Restore(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("restore tasks: %w", err)
	}

	source, err := newSource(ctx, cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.syncer = calsync.NewSyncer(source, repo, a.store, calsync.Options{
		Interval:   cfg.SyncInterval,
		ShiftDays:  cfg.AllDayShiftDays,
		FetchLimit: cfg.FetchLimit,
		Logger:     logger,
	})
	logger.Info("questd started", "db", cfg.DBPath, "source", cfg.CalendarSource, "tasks", len(a.store.Tasks()))
	return a, nil
}

// newSource picks the calendar backend. A Google source without a granted
// token syncs as permission denied until `questd auth` is run.
func newSource(ctx context.Context, cfg config.RuntimeConfig, logger *slog.Logger) (calendar.Source, error) {
	switch cfg.CalendarSource {
	case "google":
		auth := google.Auth{Dir: cfg.CredentialsDir, Port: cfg.AuthPort, Logger: logger}
		srv, err := auth.Service(ctx)
		if errors.Is(err, calendar.ErrPermissionDenied) {
			logger.Warn("calendar access not granted", "error", err)
			return &calendar.StaticSource{Denied: true}, nil
		}
		if err != nil {
			return nil, err
		}
		return google.NewSource(srv, google.WithLogger(logger)), nil
	case "none", "static":
		return &calendar.StaticSource{}, nil
	default:
		return nil, fmt.Errorf("unknown calendar source %q", cfg.CalendarSource)
	}
}

func (a *app) Close() {
	if a.engine != nil {
		a.engine.Stop()
	}
	if a.repo != nil {
		if err := a.repo.Close(); err != nil {
			a.logger.Warn("close database", "error", err)
		}
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
}
