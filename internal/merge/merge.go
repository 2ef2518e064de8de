// Package merge reconciles the remote product list with the local overlay.
package merge

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/local"
)

// Result is the canonical product list. NoData is set when there was no
// remote list and nothing was created locally, which callers must treat
// differently from a list that is merely empty.
type Result struct {
	Products []catalog.Product
	NoData   bool
}

// Merge combines remote products with the overlay. present reports whether a
// remote list has been received at all. The steps run in a fixed order:
//
//  1. patches replace the remote product with the same id
//  2. creations are appended, replacing any remote product sharing their id
//  3. removed ids are dropped, whatever their origin
//  4. the list is sorted by title, case-insensitively and stably
//
// Neither input is modified.
func Merge(remote []catalog.Product, present bool, o local.Overlay) Result {
	creations := o.Creations()
	if !present && len(creations) == 0 {
		return Result{NoData: true}
	}

	out := make([]catalog.Product, 0, len(remote)+len(creations))
	index := make(map[catalog.ID]int, len(remote)+len(creations))

	for _, p := range remote {
		if _, dup := index[p.ID]; dup {
			continue
		}
		if e, ok := o.Entry(p.ID); ok && e.Kind == local.KindPatch {
			p = e.Product
		}
		index[p.ID] = len(out)
		out = append(out, p)
	}

	for _, e := range creations {
		if i, ok := index[e.Product.ID]; ok {
			out[i] = e.Product
			continue
		}
		index[e.Product.ID] = len(out)
		out = append(out, e.Product)
	}

	kept := out[:0]
	for _, p := range out {
		if !o.IsRemoved(p.ID) {
			kept = append(kept, p)
		}
	}

	SortByTitle(kept)
	return Result{Products: kept}
}

// SortByTitle sorts products in place by title using a case-insensitive,
// locale-aware collation. Products with equal titles keep their order.
func SortByTitle(products []catalog.Product) {
	col := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(products, func(i, j int) bool {
		return col.CompareString(products[i].Title, products[j].Title) < 0
	})
}

// Sorted returns a sorted copy of products.
func Sorted(products []catalog.Product) []catalog.Product {
	dup := catalog.Clone(products)
	SortByTitle(dup)
	return dup
}
