// Package app wires configuration, logging, storage, and the practice
// engine together for the CLI commands.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hypandra/spellbetternow/internal/config"
	"github.com/hypandra/spellbetternow/internal/logger"
	"github.com/hypandra/spellbetternow/internal/selector"
	"github.com/hypandra/spellbetternow/internal/session"
	"github.com/hypandra/spellbetternow/internal/store/sqlite"
)

// App holds the assembled engine dependencies for one process.
type App struct {
	Config config.Config
	Log    *slog.Logger
	Store  *sqlite.Store
	Picker *selector.Selector
}

// New loads configuration, opens the store at dbPath (empty means the
// configured or default path), and builds the word selector. The process
// default logger is replaced with the configured one.
func New(dbPath string) (*App, error) {
	cfg := config.Load()

	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	if dbPath == "" {
		dbPath = cfg.DBPath
	}
	if dbPath == "" {
		var err error
		dbPath, err = sqlite.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
	} else if err := sqlite.EnsureDir(dbPath); err != nil {
		return nil, fmt.Errorf("create DB dir: %w", err)
	}

	st, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	selCfg := selector.DefaultConfig()
	selCfg.RecencyWindow = cfg.RecencyWindow
	selCfg.MasteryRecencyDays = cfg.MasteryRecencyDays
	picker := selector.New(st.Words(), st.Attempts(), st.Mastery(), st.Lists(),
		selector.WithConfig(selCfg))

	return &App{
		Config: cfg,
		Log:    log,
		Store:  st,
		Picker: picker,
	}, nil
}

// Close releases the store.
func (a *App) Close() error {
	return a.Store.Close()
}

// Stores bundles the repositories the session runner needs.
func (a *App) Stores() session.Stores {
	return session.Stores{
		Words:    a.Store.Words(),
		Learners: a.Store.Learners(),
		Attempts: a.Store.Attempts(),
		Sessions: a.Store.Sessions(),
		Mastery:  a.Store.Mastery(),
	}
}

// NewRunner builds a session runner over the app's stores and selector.
func (a *App) NewRunner() *session.Runner {
	return session.NewRunner(a.Stores(), a.Picker, session.WithLogger(a.Log))
}

// Resume rebuilds a runner for a suspended session.
func (a *App) Resume(ctx context.Context, sessionID string) (*session.Runner, error) {
	return session.Resume(ctx, a.Stores(), a.Picker, sessionID, session.WithLogger(a.Log))
}
