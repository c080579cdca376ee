package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/goliatone/go-formbuilder/internal/config"
	"github.com/goliatone/go-formbuilder/internal/logging"
	"github.com/goliatone/go-formbuilder/internal/service"
	"github.com/goliatone/go-formbuilder/internal/store"
	"github.com/goliatone/go-formbuilder/pkg/branding"
	"github.com/goliatone/go-formbuilder/pkg/submission"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// app is what serve and fill share: configuration, logger, store and
// submission gate.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	store  *store.Store
	repo   store.Repository
	gate   *submission.Gate
}

// loadConfig reads the config file and environment, then applies the flag
// overrides.
func loadConfig(opts *RootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath, nil)
	if err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "load config", err)
	}
	if opts.Addr != "" {
		cfg.Server.Addr = opts.Addr
	}
	if opts.DSN != "" {
		cfg.Database.DSN = opts.DSN
	}
	if opts.Verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "invalid config", err)
	}
	return cfg, nil
}

// openApp loads configuration, builds the logger writing to logOut and opens
// the store.
func openApp(ctx context.Context, opts *RootOptions, logOut io.Writer) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logOut, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "configure logging", err)
	}

	st, err := store.Open(ctx, cfg.Database.Driver, cfg.Database.DSN,
		store.WithLogger(logger),
		store.WithMaxOpenConns(cfg.Database.MaxOpenConns),
	)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open database", err)
	}
	var repo store.Repository = st
	if cfg.Cache.Enabled {
		repo = store.NewCached(st)
	}

	logger.Debug("store opened", "driver", cfg.Database.Driver, "cache", cfg.Cache.Enabled)
	return &app{
		cfg:    cfg,
		logger: logger,
		store:  st,
		repo:   repo,
		gate: submission.NewGate(
			submission.WithEngine(validation.New(validation.WithLocale(cfg.Locale))),
			submission.WithLogger(logger),
		),
	}, nil
}

// newService builds the application service. extra options apply after the
// defaults.
func (a *app) newService(extra ...service.Option) *service.Service {
	options := append([]service.Option{
		service.WithGate(a.gate),
		service.WithThemes(branding.NewSelector(a.cfg.Server.AssetPrefix)),
		service.WithLogger(a.logger),
	}, extra...)
	return service.New(a.repo, options...)
}

func (a *app) Close() error {
	return a.store.Close()
}
