package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/state"
)

// Fetcher runs product requests and records their outcome in a state.Store.
// Results of superseded requests are discarded by the store.
type Fetcher struct {
	source catalog.Source
	store  *state.Store
	log    *zap.SugaredLogger
}

// NewFetcher returns a Fetcher reading from source.
func NewFetcher(source catalog.Source, store *state.Store, log *zap.SugaredLogger) *Fetcher {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Fetcher{source: source, store: store, log: log}
}

// Refresh fetches the product list.
func (f *Fetcher) Refresh(ctx context.Context) error {
	gen := f.store.Begin()
	products, err := f.source.FetchProducts(ctx)
	if err != nil {
		f.log.Warnw("product fetch failed", "generation", gen, "error", err)
	}
	if !f.store.Complete(gen, products, err) {
		f.log.Debugw("discarded superseded response", "generation", gen)
		return err
	}
	if err == nil {
		f.log.Debugw("products fetched", "generation", gen, "count", len(products))
	}
	return err
}

// Invalidate drops every cached product response and fetches the list again.
func (f *Fetcher) Invalidate(ctx context.Context) error {
	f.source.InvalidateTag(catalog.TagProducts)
	return f.Refresh(ctx)
}

// Product fetches a single product by id.
func (f *Fetcher) Product(ctx context.Context, id catalog.ID) (catalog.Product, error) {
	p, err := f.source.FetchProduct(ctx, id)
	if err != nil {
		f.log.Debugw("product lookup failed", "id", id, "error", err)
	}
	return p, err
}
