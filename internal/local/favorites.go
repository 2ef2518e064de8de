package local

import (
	"sort"

	"github.com/five82/shelf/internal/catalog"
)

// Favorites is an immutable set of favorited product ids.
type Favorites struct {
	ids map[catalog.ID]struct{}
}

// NewFavorites builds a set from ids, dropping blanks and duplicates.
func NewFavorites(ids ...catalog.ID) Favorites {
	set := make(map[catalog.ID]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		set[id] = struct{}{}
	}
	return Favorites{ids: set}
}

// Toggle adds id when absent and removes it when present.
func (f Favorites) Toggle(id catalog.ID) Favorites {
	next := cloneSet(f.ids, 1)
	if _, ok := next[id]; ok {
		delete(next, id)
	} else {
		next[id] = struct{}{}
	}
	return Favorites{ids: next}
}

// Has reports whether id is favorited.
func (f Favorites) Has(id catalog.ID) bool {
	_, ok := f.ids[id]
	return ok
}

// Len returns the number of favorites.
func (f Favorites) Len() int {
	return len(f.ids)
}

// IDs returns the favorites in sorted order.
func (f Favorites) IDs() []catalog.ID {
	ids := make([]catalog.ID, 0, len(f.ids))
	for id := range f.ids {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Equal reports whether both sets hold the same ids.
func (f Favorites) Equal(other Favorites) bool {
	if len(f.ids) != len(other.ids) {
		return false
	}
	for id := range f.ids {
		if _, ok := other.ids[id]; !ok {
			return false
		}
	}
	return true
}
