// Package app is shelf's composition root.
//
// # Overview
//
// Bootstrap turns a config.Config into the long-lived components every
// entry point needs; Run adds the zap log file, user prefs and the optional
// background poller, then hands control to the TUI.
//
//	Bootstrap(cfg, log)
//	       ├─────> catalog.NewClient()   HTTP client + tagged response cache
//	       ├─────> storage.Open()        JSON files under <data_dir>/store
//	       ├─────> storage.NewWriteBehind() debounced persistence
//	       ├─────> local.NewSession()    hydrate overlay and favorites
//	       └─────> NewFetcher()          client → state.Store
//
//	Run(ctx, opts)
//	       ├─────> logging.New()         <data_dir>/shelf.log
//	       ├─────> Bootstrap()
//	       ├─────> prefs.Load()          theme, page size
//	       ├─────> StartPoller()         only when refresh_interval_seconds > 0
//	       ├─────> ui.Run()              blocks until quit
//	       └─────> Env.Close()           flush pending local writes
//
// # Components
//
//   - app.go: Options, Env, Bootstrap and Run
//   - fetcher.go: Fetcher, which records each request in the state store
//     under a fresh generation so that only the newest response is applied
//   - poller.go: optional periodic refresh with exponential backoff
//
// # Error Handling
//
// Run returns errors only for startup failures (log file, malformed
// api_url). Fetch failures are recorded in the state store, logged, and
// shown by the UI, which offers a manual retry. Storage failures never
// leave the storage package.
//
// # Shutdown
//
// Env.Close flushes the write-behind cache, so quitting the UI or
// receiving SIGINT/SIGTERM persists the most recent local change.
package app
