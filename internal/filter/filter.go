// Package filter narrows product lists and derives the options shown by
// filter controls. Every function is pure: inputs are never modified and an
// empty Criteria returns its input unchanged.
package filter

import (
	"slices"
	"sort"
	"strings"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/local"
)

// Criteria combines all filter fields with logical AND. Nil bounds are
// unbounded. Categories is a set: order is ignored and an empty list means
// "all".
type Criteria struct {
	Search     string
	Categories []string
	MinPrice   *float64
	MaxPrice   *float64
	MinRating  *float64
}

// IsZero reports whether c filters nothing.
func (c Criteria) IsZero() bool {
	return strings.TrimSpace(c.Search) == "" &&
		len(c.Categories) == 0 &&
		c.MinPrice == nil &&
		c.MaxPrice == nil &&
		c.MinRating == nil
}

// Active returns the number of filter fields in effect.
func (c Criteria) Active() int {
	n := 0
	if strings.TrimSpace(c.Search) != "" {
		n++
	}
	if len(c.Categories) > 0 {
		n++
	}
	if c.MinPrice != nil || c.MaxPrice != nil {
		n++
	}
	if c.MinRating != nil {
		n++
	}
	return n
}

// HasCategory reports whether category is selected.
func (c Criteria) HasCategory(category string) bool {
	return slices.Contains(c.Categories, category)
}

// WithSearch returns c with the search text replaced.
func (c Criteria) WithSearch(text string) Criteria {
	c.Search = text
	return c
}

// WithCategories returns c selecting exactly categories, deduplicated and
// sorted. Categories match exactly, so the empty category is selectable.
func (c Criteria) WithCategories(categories ...string) Criteria {
	set := make(map[string]struct{}, len(categories))
	for _, cat := range categories {
		set[cat] = struct{}{}
	}
	c.Categories = nil
	for cat := range set {
		c.Categories = append(c.Categories, cat)
	}
	sort.Strings(c.Categories)
	return c
}

// ToggleCategory returns c with category added or removed.
func (c Criteria) ToggleCategory(category string) Criteria {
	if c.HasCategory(category) {
		next := make([]string, 0, len(c.Categories))
		for _, cat := range c.Categories {
			if cat != category {
				next = append(next, cat)
			}
		}
		c.Categories = next
		return c
	}
	return c.WithCategories(append(append([]string(nil), c.Categories...), category)...)
}

// WithMinPrice returns c with the lower price bound set (nil clears it).
func (c Criteria) WithMinPrice(v *float64) Criteria {
	c.MinPrice = copyFloat(v)
	return c
}

// WithMaxPrice returns c with the upper price bound set (nil clears it).
func (c Criteria) WithMaxPrice(v *float64) Criteria {
	c.MaxPrice = copyFloat(v)
	return c
}

// WithMinRating returns c with the rating bound set (nil clears it).
func (c Criteria) WithMinRating(v *float64) Criteria {
	c.MinRating = copyFloat(v)
	return c
}

// Clear returns an empty Criteria.
func (c Criteria) Clear() Criteria {
	return Criteria{}
}

// Float returns a pointer to v, for building bounds.
func Float(v float64) *float64 {
	return &v
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return Float(*v)
}

// Apply returns the products matching every field of c, in input order.
func Apply(products []catalog.Product, c Criteria) []catalog.Product {
	if c.IsZero() {
		return products
	}

	out := products
	if q := strings.ToLower(strings.TrimSpace(c.Search)); q != "" {
		out = keep(out, func(p catalog.Product) bool {
			return strings.Contains(strings.ToLower(p.Title), q) ||
				strings.Contains(strings.ToLower(p.Description), q)
		})
	}
	if len(c.Categories) > 0 {
		out = keep(out, func(p catalog.Product) bool { return c.HasCategory(p.Category) })
	}
	if c.MinPrice != nil {
		lo := *c.MinPrice
		out = keep(out, func(p catalog.Product) bool { return p.Price >= lo })
	}
	if c.MaxPrice != nil {
		hi := *c.MaxPrice
		out = keep(out, func(p catalog.Product) bool { return p.Price <= hi })
	}
	if c.MinRating != nil {
		lo := *c.MinRating
		out = keep(out, func(p catalog.Product) bool { return p.Rating.Rate >= lo })
	}
	return out
}

// Favorites returns only favorited products when showOnly is set and the
// input unchanged otherwise.
func Favorites(products []catalog.Product, favorites local.Favorites, showOnly bool) []catalog.Product {
	if !showOnly {
		return products
	}
	return keep(products, func(p catalog.Product) bool { return favorites.Has(p.ID) })
}

func keep(products []catalog.Product, pred func(catalog.Product) bool) []catalog.Product {
	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if pred(p) {
			out = append(out, p)
		}
	}
	return out
}
