package local

import (
	"encoding/json"
	"testing"

	"github.com/five82/shelf/internal/catalog"
)

func TestOverlay_UpsertWithoutIDCreatesLocalProduct(t *testing.T) {
	var o Overlay
	next, id := o.Upsert("", catalog.Product{Title: "Local X"})

	if !id.IsLocal() {
		t.Fatalf("allocated id %q is not local", id)
	}
	if o.Len() != 0 {
		t.Fatalf("receiver mutated: Len = %d", o.Len())
	}
	e, ok := next.Entry(id)
	if !ok || e.Kind != KindCreation {
		t.Fatalf("Entry(%q) = %#v, %v; want creation", id, e, ok)
	}
	if e.Product.ID != id || e.Product.Title != "Local X" {
		t.Fatalf("stored product = %#v", e.Product)
	}
}

func TestOverlay_UpsertAllocatesDistinctIDs(t *testing.T) {
	var o Overlay
	seen := make(map[catalog.ID]bool)
	for i := 0; i < 50; i++ {
		var id catalog.ID
		o, id = o.Upsert("", catalog.Product{Title: "p"})
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
	if o.Len() != 50 {
		t.Fatalf("Len = %d, want 50", o.Len())
	}
}

func TestOverlay_UpsertKinds(t *testing.T) {
	var o Overlay
	o, _ = o.Upsert("1", catalog.Product{Title: "Edited"})
	if e, _ := o.Entry("1"); e.Kind != KindPatch {
		t.Fatalf("remote id kind = %v, want patch", e.Kind)
	}

	o, created := o.Upsert("", catalog.Product{Title: "New"})
	o, _ = o.Upsert(created, catalog.Product{Title: "New v2"})
	e, _ := o.Entry(created)
	if e.Kind != KindCreation || e.Product.Title != "New v2" {
		t.Fatalf("updated creation = %#v, want creation titled New v2", e)
	}
	if len(o.Creations()) != 1 || len(o.Patches()) != 1 {
		t.Fatalf("creations=%d patches=%d, want 1 and 1", len(o.Creations()), len(o.Patches()))
	}

	o, _ = o.Upsert("local-explicit", catalog.Product{Title: "Explicit"})
	if e, _ := o.Entry("local-explicit"); e.Kind != KindCreation {
		t.Fatalf("explicit local id kind = %v, want creation", e.Kind)
	}
}

func TestOverlay_RemoveIsIdempotentAndEvictsData(t *testing.T) {
	var o Overlay
	o, id := o.Upsert("", catalog.Product{Title: "Local X"})
	o, _ = o.Upsert("1", catalog.Product{Title: "Edited"})

	once := o.Remove(id)
	if _, ok := once.Entry(id); ok {
		t.Fatalf("creation data survived removal")
	}
	if !once.IsRemoved(id) {
		t.Fatalf("IsRemoved(%q) = false", id)
	}
	if _, ok := o.Entry(id); !ok {
		t.Fatalf("Remove mutated the receiver")
	}

	twice := once.Remove(id)
	if twice.RemovedCount() != 1 || twice.Len() != once.Len() {
		t.Fatalf("second removal changed state: removed=%d len=%d", twice.RemovedCount(), twice.Len())
	}

	patched := twice.Remove("1")
	if _, ok := patched.Entry("1"); ok {
		t.Fatalf("patch survived removal")
	}
	if patched.RemovedCount() != 2 {
		t.Fatalf("RemovedCount = %d, want 2", patched.RemovedCount())
	}
}

func TestOverlay_Reset(t *testing.T) {
	var o Overlay
	o, _ = o.Upsert("1", catalog.Product{Title: "Edited"})
	o = o.Remove("2")
	if o.IsEmpty() {
		t.Fatalf("IsEmpty = true before reset")
	}
	if r := o.Reset(); !r.IsEmpty() {
		t.Fatalf("Reset left data behind: len=%d removed=%d", r.Len(), r.RemovedCount())
	}
}

func TestKind_TextRoundTrip(t *testing.T) {
	data, err := json.Marshal(Entry{Kind: KindCreation})
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if e.Kind != KindCreation {
		t.Fatalf("Kind = %v, want creation", e.Kind)
	}

	if _, err := json.Marshal(Entry{}); err == nil {
		t.Fatalf("Marshal of zero kind returned nil error")
	}
	if err := json.Unmarshal([]byte(`{"kind":"api"}`), &e); err == nil {
		t.Fatalf("Unmarshal of unknown kind returned nil error")
	}
}
