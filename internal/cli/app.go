// Package cli provides the dependencies shared by the berkelium commands.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/rs/zerolog"

	"github.com/bnema/berkelium-go/assets"
	"github.com/bnema/berkelium-go/internal/cli/styles"
	"github.com/bnema/berkelium-go/internal/config"
	"github.com/bnema/berkelium-go/internal/domain/build"
	"github.com/bnema/berkelium-go/internal/domain/repository"
	"github.com/bnema/berkelium-go/internal/host"
	"github.com/bnema/berkelium-go/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/berkelium-go/internal/logging"
)

// Options tunes NewApp for the command being run.
type Options struct {
	// Quiet keeps logs off the terminal; they still reach the log file
	// when file logging is enabled.
	Quiet bool
	// LogLevel overrides the configured level when non-empty.
	LogLevel string
}

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	Manager   *config.Manager
	Theme     *styles.Theme
	BuildInfo build.Info

	db      *sql.DB
	history repository.HistoryRepository

	// Context with logger
	ctx        context.Context
	logCleanup func()
}

// NewApp loads the configuration and sets up logging.
func NewApp(opts Options) (*App, error) {
	mgr, err := config.NewManager()
	if err != nil {
		return nil, err
	}
	if err := mgr.Load(); err != nil {
		return nil, err
	}
	cfg := mgr.Get()

	level := cfg.Logging.Level
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	logger, logCleanup, err := logging.NewWithFile(
		logging.Config{Level: logging.ParseLevel(level), Format: cfg.Logging.Format, TimeFormat: "15:04:05"},
		logging.FileConfig{
			Enabled:       cfg.Logging.EnableFileLog,
			Dir:           cfg.Logging.LogDir,
			MaxSizeMB:     cfg.Logging.MaxSize,
			MaxBackups:    cfg.Logging.MaxBackups,
			MaxAgeDays:    cfg.Logging.MaxAge,
			Compress:      cfg.Logging.Compress,
			WriteToStderr: !opts.Quiet,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	if opts.Quiet && !cfg.Logging.EnableFileLog {
		logger = zerolog.Nop()
	}

	ctx := logging.WithContext(context.Background(), logger)
	logger.Debug().Str("config", mgr.GetConfigFile()).Str("backend", string(cfg.Engine.Backend)).Msg("configuration loaded")

	return &App{
		Config:     cfg,
		Manager:    mgr,
		Theme:      styles.NewTheme(),
		ctx:        ctx,
		logCleanup: logCleanup,
	}, nil
}

// History opens the history database on first use.
func (a *App) History() (repository.HistoryRepository, error) {
	if a.history != nil {
		return a.history, nil
	}
	db, err := sqlite.NewConnection(a.ctx, a.Config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a.db = db
	a.history = sqlite.NewHistoryRepository(db)
	return a.history, nil
}

// Resources returns the engine files bundled into this binary, or nil.
func (a *App) Resources() fs.FS {
	return assets.Native()
}

// OpenSession opens a host session with the app configuration. Visits are
// recorded when record is set.
func (a *App) OpenSession(ctx context.Context, cfg *config.Config, record bool, onEvent func(host.Event)) (*host.Session, error) {
	opts := host.Options{
		Config:    cfg,
		Resources: a.Resources(),
		OnEvent:   onEvent,
	}
	if record {
		repo, err := a.History()
		if err != nil {
			return nil, err
		}
		opts.History = repo
	}
	return host.Open(ctx, opts)
}

// Close releases all resources.
func (a *App) Close() error {
	var err error
	if a.db != nil {
		err = sqlite.Close(a.db)
	}
	if a.logCleanup != nil {
		a.logCleanup()
	}
	return err
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}
