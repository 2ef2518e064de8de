package app

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/state"
)

type fakeSource struct {
	mu          sync.Mutex
	products    []catalog.Product
	err         error
	lists       int
	invalidated []string
}

func (f *fakeSource) FetchProducts(context.Context) ([]catalog.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.err != nil {
		return nil, f.err
	}
	return catalog.Clone(f.products), nil
}

func (f *fakeSource) FetchProduct(_ context.Context, id catalog.ID) (catalog.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return catalog.Product{}, catalog.ErrNotFound
}

func (f *fakeSource) InvalidateTag(tag string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = append(f.invalidated, tag)
}

func (f *fakeSource) listCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists
}

func TestFetcher_RefreshPopulatesStore(t *testing.T) {
	src := &fakeSource{products: []catalog.Product{{ID: "1", Title: "Bag"}}}
	store := &state.Store{}
	f := NewFetcher(src, store, nil)

	if err := f.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	snap := store.Snapshot()
	if !snap.Present || snap.Loading || len(snap.Products) != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestFetcher_RefreshRecordsFailure(t *testing.T) {
	src := &fakeSource{err: errors.New("connection refused")}
	store := &state.Store{}
	f := NewFetcher(src, store, nil)

	if err := f.Refresh(context.Background()); err == nil {
		t.Fatal("Refresh returned nil error")
	}
	snap := store.Snapshot()
	if snap.Present || snap.LastError == nil || snap.ConsecutiveFailures != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestFetcher_InvalidateDropsProductsTag(t *testing.T) {
	src := &fakeSource{}
	f := NewFetcher(src, &state.Store{}, nil)

	if err := f.Invalidate(context.Background()); err != nil {
		t.Fatalf("Invalidate returned error: %v", err)
	}
	if len(src.invalidated) != 1 || src.invalidated[0] != catalog.TagProducts {
		t.Fatalf("invalidated = %v, want [%s]", src.invalidated, catalog.TagProducts)
	}
	if src.listCalls() != 1 {
		t.Fatalf("Invalidate should refetch; lists = %d", src.listCalls())
	}
}

func TestFetcher_ProductNotFound(t *testing.T) {
	f := NewFetcher(&fakeSource{}, &state.Store{}, nil)
	if _, err := f.Product(context.Background(), "42"); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("Product error = %v, want ErrNotFound", err)
	}
}
