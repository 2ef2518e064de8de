package filter

import (
	"math"
	"sort"

	"github.com/five82/shelf/internal/catalog"
)

// Range is an inclusive price range.
type Range struct {
	Min float64
	Max float64
}

// Categories returns the distinct categories in products, sorted. The empty
// category is included when a product carries one.
func Categories(products []catalog.Product) []string {
	set := make(map[string]struct{})
	for _, p := range products {
		set[p.Category] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// PriceRange returns the span of valid prices in products. NaN, infinite
// and negative prices are ignored. ok is false when no valid price exists or
// every valid price is the same, since a range control would be useless.
func PriceRange(products []catalog.Product) (r Range, ok bool) {
	first := true
	for _, p := range products {
		v := p.Price
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			continue
		}
		if first {
			r = Range{Min: v, Max: v}
			first = false
			continue
		}
		r.Min = math.Min(r.Min, v)
		r.Max = math.Max(r.Max, v)
	}
	if first || r.Min == r.Max {
		return Range{}, false
	}
	return r, true
}
