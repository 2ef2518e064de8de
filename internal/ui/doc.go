// Package ui provides the terminal user interface for shelf.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model holds presentation state only: the
// remote snapshot is read from state.Store on every tick, local edits and
// favorites live in local.Session, and the visible page is recomputed by
// pipeline.Build whenever any input changes.
//
// # Package Structure
//
//   - app.go: Model, Update loop, key handling and commands
//   - header.go: status header, command bar and pager footer
//   - products.go: product table, empty states and pane frames
//   - detail.go: detail pane and id lookup
//   - modal.go, filter_modal.go, form.go, log_modal.go: search, lookup, confirm,
//     filter, product form and activity log dialogs
//   - theme.go, style_helpers.go: color themes and background-safe styling
//
// # Event Flow
//
//  1. Run() builds the Model and starts the program
//  2. Init() requests a list fetch and starts the snapshot tick
//  3. Snapshots and key presses update state, then rebuild() recomputes the page
//  4. rebuild() writes back a corrected page number when the page count shrinks
//  5. Modals report results as messages handled by Update
//
// # Key Bindings
//
//   - j/k, g/G: Move selection
//   - [/], h/l: Previous/next page
//   - +/-: Change page size
//   - /: Search, c: Filters, x: Clear filters
//   - f: Toggle favorite, F: Favorites only
//   - n: New product, e: Edit, d: Remove
//   - R: Reset local data, r: Refetch
//   - :: Look up a product by id
//   - L: Activity log, T: Cycle theme, ?: Help, q: Quit
package ui
