package local

import (
	"fmt"
	"sort"

	"github.com/five82/shelf/internal/catalog"
)

// Kind tags an overlay entry as an edit of a remote product or a product
// that exists only locally.
type Kind int

const (
	KindPatch Kind = iota + 1
	KindCreation
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindPatch:
		return "patch"
	case KindCreation:
		return "creation"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k != KindPatch && k != KindCreation {
		return nil, fmt.Errorf("invalid overlay kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "patch":
		*k = KindPatch
	case "creation":
		*k = KindCreation
	default:
		return fmt.Errorf("invalid overlay kind %q", string(text))
	}
	return nil
}

// Entry is one local overlay record.
type Entry struct {
	Kind    Kind            `json:"kind"`
	Product catalog.Product `json:"product"`
}

// Overlay holds local edits, local creations and soft deletions. The zero
// value is an empty overlay. Overlay values are immutable: every transition
// returns a new Overlay and leaves the receiver untouched.
type Overlay struct {
	entries map[catalog.ID]Entry
	removed map[catalog.ID]struct{}
}

// Upsert inserts or replaces p. An empty id allocates a fresh local id and
// records a creation. A supplied id keeps the kind of an existing entry;
// otherwise local-namespace ids become creations and remote ids patches.
// The returned ID is the key p was stored under.
func (o Overlay) Upsert(id catalog.ID, p catalog.Product) (Overlay, catalog.ID) {
	kind := KindPatch
	if id == "" {
		id = o.allocate()
		kind = KindCreation
	} else if existing, ok := o.entries[id]; ok {
		kind = existing.Kind
	} else if id.IsLocal() {
		kind = KindCreation
	}

	next := Overlay{entries: cloneEntries(o.entries, 1), removed: o.removed}
	next.entries[id] = Entry{Kind: kind, Product: p.WithID(id)}
	return next, id
}

// Remove discards any overlay data for id and marks it removed. Removing an
// id twice is a no-op.
func (o Overlay) Remove(id catalog.ID) Overlay {
	_, hasEntry := o.entries[id]
	_, gone := o.removed[id]
	if !hasEntry && gone {
		return o
	}

	next := Overlay{entries: o.entries, removed: o.removed}
	if hasEntry {
		next.entries = cloneEntries(o.entries, 0)
		delete(next.entries, id)
	}
	if !gone {
		next.removed = cloneSet(o.removed, 1)
		next.removed[id] = struct{}{}
	}
	return next
}

// Reset returns an empty overlay.
func (o Overlay) Reset() Overlay {
	return Overlay{}
}

// Entry returns the overlay record for id.
func (o Overlay) Entry(id catalog.ID) (Entry, bool) {
	e, ok := o.entries[id]
	return e, ok
}

// IsRemoved reports whether id has been soft-deleted.
func (o Overlay) IsRemoved(id catalog.ID) bool {
	_, ok := o.removed[id]
	return ok
}

// Len returns the number of overlay entries.
func (o Overlay) Len() int {
	return len(o.entries)
}

// RemovedCount returns the number of soft-deleted ids.
func (o Overlay) RemovedCount() int {
	return len(o.removed)
}

// IsEmpty reports whether the overlay carries no local data at all.
func (o Overlay) IsEmpty() bool {
	return len(o.entries) == 0 && len(o.removed) == 0
}

// Patches returns patch entries ordered by id.
func (o Overlay) Patches() []Entry {
	return o.byKind(KindPatch)
}

// Creations returns creation entries ordered by id.
func (o Overlay) Creations() []Entry {
	return o.byKind(KindCreation)
}

// Removed returns the soft-deleted ids in sorted order.
func (o Overlay) Removed() []catalog.ID {
	ids := make([]catalog.ID, 0, len(o.removed))
	for id := range o.removed {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (o Overlay) byKind(kind Kind) []Entry {
	var out []Entry
	for _, e := range o.entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Product.ID < out[j].Product.ID })
	return out
}

// allocate returns a local id not used by any entry or removal.
func (o Overlay) allocate() catalog.ID {
	for {
		id := catalog.NewLocalID()
		if _, taken := o.entries[id]; taken {
			continue
		}
		if _, taken := o.removed[id]; taken {
			continue
		}
		return id
	}
}

func cloneEntries(src map[catalog.ID]Entry, extra int) map[catalog.ID]Entry {
	dst := make(map[catalog.ID]Entry, len(src)+extra)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func cloneSet(src map[catalog.ID]struct{}, extra int) map[catalog.ID]struct{} {
	dst := make(map[catalog.ID]struct{}, len(src)+extra)
	for k := range src {
		dst[k] = struct{}{}
	}
	return dst
}
