package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/config"
	"github.com/five82/shelf/internal/local"
	"github.com/five82/shelf/internal/logging"
	"github.com/five82/shelf/internal/prefs"
	"github.com/five82/shelf/internal/state"
	"github.com/five82/shelf/internal/storage"
	"github.com/five82/shelf/internal/ui"
)

// Options configure the shelf application.
type Options struct {
	Config    config.Config
	PrefsPath string // empty uses default ~/.config/shelf/prefs.toml
}

// Env is the set of long-lived components shared by the TUI and the CLI
// subcommands.
type Env struct {
	Config  config.Config
	Log     *zap.SugaredLogger
	Storage *storage.Store
	Writer  *storage.WriteBehind
	Session *local.Session
	Client  *catalog.Client
	Store   *state.Store
	Fetcher *Fetcher
}

// Bootstrap wires storage, the local session and the catalog client for cfg.
func Bootstrap(cfg config.Config, log *zap.SugaredLogger) (*Env, error) {
	if log == nil {
		log = logging.Nop()
	}

	client, err := catalog.NewClient(cfg.APIURL, catalog.WithCacheTTL(cfg.CacheTTL))
	if err != nil {
		return nil, fmt.Errorf("init catalog client: %w", err)
	}

	store := storage.Open(cfg.StorageDir(), log.Named("storage"))
	writer := storage.NewWriteBehind(store, cfg.PersistDebounce)
	remote := &state.Store{}

	env := &Env{
		Config:  cfg,
		Log:     log,
		Storage: store,
		Writer:  writer,
		Session: local.NewSession(store, writer),
		Client:  client,
		Store:   remote,
		Fetcher: NewFetcher(client, remote, log.Named("fetch")),
	}
	overlay := env.Session.Overlay()
	log.Infow("local data loaded",
		"dir", cfg.StorageDir(),
		"available", store.Available(),
		"overlay", overlay.Len(),
		"removed", overlay.RemovedCount(),
		"favorites", env.Session.Favorites().Len(),
	)
	return env, nil
}

// Close flushes pending local writes and the log.
func (e *Env) Close() {
	if e == nil {
		return
	}
	if e.Writer != nil {
		e.Writer.Close()
	}
	if e.Log != nil {
		_ = e.Log.Sync()
	}
}

// Run boots the shelf TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg := opts.Config

	log, err := logging.New(cfg.LogLevel, cfg.LogPath())
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}

	env, err := Bootstrap(cfg, log)
	if err != nil {
		return err
	}
	defer env.Close()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		log.Warnw("prefs unavailable", "error", err)
	}
	pageSize := cfg.PageSize
	if userPrefs.PageSize > 0 {
		pageSize = userPrefs.PageSize
	}

	StartPoller(ctx, env.Fetcher, cfg.RefreshInterval)

	uiOpts := ui.Options{
		Context:   ctx,
		Store:     env.Store,
		Session:   env.Session,
		Fetcher:   env.Fetcher,
		Log:       log.Named("ui"),
		APIURL:    cfg.APIURL,
		LogPath:   cfg.LogPath(),
		PageSize:  pageSize,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
	}
	log.Infow("starting ui", "api", cfg.APIURL, "page_size", pageSize, "refresh", cfg.RefreshInterval)
	return ui.Run(uiOpts)
}
