// Package cli provides the Cobra-based command line for shelf.
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/five82/shelf/internal/app"
	"github.com/five82/shelf/internal/config"
	"github.com/five82/shelf/internal/logging"
)

// RunFunc starts the interactive UI.
type RunFunc func(ctx context.Context, opts app.Options) error

// Execute runs the shelf command line with the process arguments.
func Execute(ctx context.Context) error {
	return NewRootCommand(app.Run).ExecuteContext(ctx)
}

// NewRootCommand builds the command tree. Without a subcommand the root
// starts the UI through run. Flags can also be supplied as SHELF_*
// environment variables (SHELF_API_URL, SHELF_PAGE_SIZE, ...).
func NewRootCommand(run RunFunc) *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:           "shelf",
		Short:         "Browse a product catalog with local edits and favorites",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			return run(cmd.Context(), app.Options{Config: cfg, PrefsPath: v.GetString("prefs")})
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", config.DefaultPath(), "config file")
	flags.String("prefs", "", "prefs file (default ~/.config/shelf/prefs.toml)")
	flags.String("api-url", "", "products API base URL")
	flags.String("data-dir", "", "directory for local data and logs")
	flags.Int("page-size", 0, "initial page size")
	flags.String("log-level", "", "log level: debug|info|warn|error")
	flags.Duration("refresh", 0, "background refresh interval, e.g. 5m (0 disables)")

	_ = v.BindPFlags(flags)
	v.SetEnvPrefix("SHELF")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root.AddCommand(
		newListCommand(v),
		newGetCommand(v),
		newFavoriteCommand(v),
		newResetCommand(v),
		newLogCommand(v),
	)
	return root
}

// loadConfig reads the config file and applies flag and environment
// overrides on top of it.
func loadConfig(v *viper.Viper) (config.Config, error) {
	cfg, err := config.Load(v.GetString("config"))
	if err != nil {
		return config.Config{}, err
	}

	if v.IsSet("api-url") {
		if u := strings.TrimSpace(v.GetString("api-url")); u != "" {
			cfg.APIURL = strings.TrimRight(u, "/")
		}
	}
	if v.IsSet("data-dir") {
		if dir := strings.TrimSpace(v.GetString("data-dir")); dir != "" {
			expanded, err := config.ExpandPath(dir)
			if err != nil {
				return config.Config{}, fmt.Errorf("data-dir: %w", err)
			}
			cfg.DataDir = expanded
		}
	}
	if v.IsSet("page-size") {
		if n := v.GetInt("page-size"); n > 0 {
			cfg.PageSize = n
		} else if n < 0 {
			return config.Config{}, fmt.Errorf("page-size must be positive, got %d", n)
		}
	}
	if v.IsSet("log-level") {
		if lvl := strings.ToLower(strings.TrimSpace(v.GetString("log-level"))); lvl != "" {
			if !logging.ValidLevel(lvl) {
				return config.Config{}, fmt.Errorf("invalid log-level %q", lvl)
			}
			cfg.LogLevel = lvl
		}
	}
	if v.IsSet("refresh") {
		d := v.GetDuration("refresh")
		if d < 0 {
			return config.Config{}, fmt.Errorf("refresh must not be negative")
		}
		cfg.RefreshInterval = d
	}
	return cfg, nil
}

// openEnv boots logging and the shared components for a subcommand. Callers
// must Close the env to flush local writes.
func openEnv(v *viper.Viper) (*app.Env, error) {
	cfg, err := loadConfig(v)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogPath())
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	env, err := app.Bootstrap(cfg, log.Named("cli"))
	if err != nil {
		_ = log.Sync()
		return nil, err
	}
	return env, nil
}
