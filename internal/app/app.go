package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/promofinder/internal/catalog"
	"github.com/five82/promofinder/internal/config"
	"github.com/five82/promofinder/internal/logging"
	"github.com/five82/promofinder/internal/prefs"
	"github.com/five82/promofinder/internal/state"
	"github.com/five82/promofinder/internal/ui"
)

// Options configure the promofinder application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/promofinder/prefs.toml
}

// env is everything a command needs once configuration is loaded.
type env struct {
	cfg    config.Config
	logger zerolog.Logger
	closer io.Closer
	store  *state.Store
}

func (e *env) Close() error {
	if e.closer == nil {
		return nil
	}
	return e.closer.Close()
}

// setup loads configuration, opens the log and builds the catalog source and
// the state store. The caller must Close the returned env.
func setup(opts Options) (*env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, closer, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	source, err := catalog.NewMockSource(
		catalog.WithLatency(cfg.Latency()),
		catalog.WithFailures(cfg.FailingEndpoints()...),
		catalog.WithLogger(logger.With().Str("component", "source").Logger()),
	)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("init catalog source: %w", err)
	}

	store := state.New(source,
		state.WithViewer(cfg.Location.Latitude, cfg.Location.Longitude),
		state.WithLogger(logger.With().Str("component", "store").Logger()),
	)

	return &env{cfg: cfg, logger: logger, closer: closer, store: store}, nil
}

// Run boots the promofinder TUI until the user quits or the context is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	e, err := setup(opts)
	if err != nil {
		return err
	}
	defer e.Close()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		e.logger.Warn().Err(err).Msg("preferences unreadable, using defaults")
	}

	e.logger.Info().
		Float64("lat", e.cfg.Location.Latitude).
		Float64("lon", e.cfg.Location.Longitude).
		Dur("latency", e.cfg.Latency()).
		Msg("promofinder starting")

	err = ui.Run(ui.Options{
		Context:   ctx,
		Store:     e.store,
		Config:    e.cfg,
		Logger:    e.logger.With().Str("component", "ui").Logger(),
		LogPath:   e.cfg.Log.File,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
	})
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
