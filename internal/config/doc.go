// Package config loads shelf's TOML configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/shelf/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing or empty, use defaults
//
// Command-line flags and SHELF_* environment variables are layered on top
// of the loaded Config by the cli package.
//
// # Default Values
//
//   - Config file: ~/.config/shelf/config.toml
//   - API endpoint: https://fakestoreapi.com
//   - Data directory: ~/.local/share/shelf
//   - Persisted local data: <data_dir>/store
//   - Log file: <data_dir>/shelf.log
//   - Page size: 10
//   - Persist debounce: 300ms
//   - Response cache TTL: 5m
//   - Background refresh: off
//
// # TOML Format
//
//	api_url = "https://fakestoreapi.com"
//	data_dir = "~/.local/share/shelf"
//	page_size = 10
//	persist_debounce_ms = 300
//	refresh_interval_seconds = 0
//	cache_ttl_seconds = 300
//	log_level = "info"
//
// All fields are optional. A cache_ttl_seconds of 0 disables the response
// cache; persist_debounce_ms of 0 makes every local change write through on
// the next tick.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors and unknown log levels
//
// Missing config files are NOT an error.
package config
