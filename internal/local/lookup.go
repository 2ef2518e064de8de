package local

import "github.com/five82/shelf/internal/catalog"

// LookupStatus classifies the outcome of resolving a product id.
type LookupStatus int

const (
	LookupNotFound LookupStatus = iota
	LookupFound
	LookupRemoved
)

// String implements fmt.Stringer.
func (s LookupStatus) String() string {
	switch s {
	case LookupFound:
		return "found"
	case LookupRemoved:
		return "removed"
	default:
		return "not found"
	}
}

// Lookup resolves id against remote data and the overlay. Soft-deleted ids
// report LookupRemoved so callers can tell them apart from unknown ids.
func Lookup(remote []catalog.Product, o Overlay, id catalog.ID) (catalog.Product, LookupStatus) {
	if o.IsRemoved(id) {
		return catalog.Product{}, LookupRemoved
	}
	if e, ok := o.Entry(id); ok {
		return e.Product, LookupFound
	}
	for _, p := range remote {
		if p.ID == id {
			return p, LookupFound
		}
	}
	return catalog.Product{}, LookupNotFound
}
