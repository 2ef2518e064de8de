package local

import (
	"encoding/json"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/storage"
)

// Storage keys. The overlay moved to tagged entries in v2; v1 documents
// (a bare id->product map) are left untouched under their old key.
var (
	OverlayKey   = storage.Key("shelf", "overlay", 2)
	FavoritesKey = storage.Key("shelf", "favorites", 1)
)

type overlayDoc struct {
	Entries []Entry      `json:"entries"`
	Removed []catalog.ID `json:"removed"`
}

// storedOverlay defers entry decoding so one unreadable entry does not
// discard the rest of the document.
type storedOverlay struct {
	Entries []json.RawMessage `json:"entries"`
	Removed []catalog.ID      `json:"removed"`
}

type favoritesDoc struct {
	IDs []catalog.ID `json:"ids"`
}

// DehydrateOverlay returns the persisted form of o.
func DehydrateOverlay(o Overlay) any {
	entries := append(o.Patches(), o.Creations()...)
	return overlayDoc{Entries: entries, Removed: o.Removed()}
}

// HydrateOverlay loads the overlay from s, falling back to an empty overlay.
// Entries that fail to decode, or carry a missing id or kind, are dropped
// individually.
func HydrateOverlay(s *storage.Store) Overlay {
	doc := storage.Load(s, OverlayKey, storedOverlay{})
	o := Overlay{
		entries: make(map[catalog.ID]Entry, len(doc.Entries)),
		removed: make(map[catalog.ID]struct{}, len(doc.Removed)),
	}
	for _, id := range doc.Removed {
		if id != "" {
			o.removed[id] = struct{}{}
		}
	}
	for _, raw := range doc.Entries {
		var e Entry
		if err := json.Unmarshal(raw, &e); err != nil {
			continue
		}
		id := e.Product.ID
		if id == "" || (e.Kind != KindPatch && e.Kind != KindCreation) {
			continue
		}
		if _, gone := o.removed[id]; gone {
			continue
		}
		o.entries[id] = e
	}
	return o
}

// DehydrateFavorites returns the persisted form of f.
func DehydrateFavorites(f Favorites) any {
	return favoritesDoc{IDs: f.IDs()}
}

// HydrateFavorites loads favorites from s, falling back to an empty set.
func HydrateFavorites(s *storage.Store) Favorites {
	doc := storage.Load(s, FavoritesKey, favoritesDoc{})
	return NewFavorites(doc.IDs...)
}
