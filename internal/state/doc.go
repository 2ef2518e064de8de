// Package state holds the remote product list shared between the fetcher
// and the UI.
//
// # Overview
//
// The fetcher runs requests off the UI goroutine and records their outcome
// in a Store; the UI reads a Snapshot whenever it renders. The Store is the
// only place the two meet.
//
//	Fetcher:                        UI:
//	gen := store.Begin()            snap := store.Snapshot()
//	products, err := client.Fetch   pipeline.Build(snap.Products, ...)
//	store.Complete(gen, products, err)
//
// # Generations
//
// Every Begin increments a generation counter. Complete only applies the
// result of the most recent generation, so a slow response that arrives
// after a newer request was issued is discarded. Loading stays set until
// the latest request completes.
//
// # Update Semantics
//
//	// Success: replace the product list
//	store.Complete(gen, products, nil)
//	→ snapshot.Products = products
//	→ snapshot.Present = true
//	→ snapshot.LastError = nil
//
//	// Failure: keep the old list, record the error
//	store.Complete(gen, nil, err)
//	→ snapshot.Products = <unchanged>
//	→ snapshot.LastError = err
//	→ snapshot.ConsecutiveFailures++
//
// Present distinguishes "never received a list" from "received an empty
// list"; the pipeline uses it to pick between the error, loading and no-data
// empty states.
//
// # Defensive Copying
//
// Both Complete and Snapshot clone the product slice and Snapshot wraps the
// error, so neither side can observe the other's mutations.
//
// # Testing Considerations
//
// The zero Store is ready to use:
//
//	var store state.Store
//	store.Update(products, nil)
package state
