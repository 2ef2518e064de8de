package local

import (
	"testing"

	"github.com/five82/shelf/internal/catalog"
)

func TestLookup(t *testing.T) {
	remote := []catalog.Product{{ID: "1", Title: "Backpack"}, {ID: "2", Title: "Shirt"}}
	var o Overlay
	o, _ = o.Upsert("1", catalog.Product{Title: "Edited"})
	o, local := o.Upsert("", catalog.Product{Title: "Local X"})
	o = o.Remove("2")

	cases := []struct {
		id        catalog.ID
		status    LookupStatus
		wantTitle string
	}{
		{"1", LookupFound, "Edited"},
		{local, LookupFound, "Local X"},
		{"2", LookupRemoved, ""},
		{"99", LookupNotFound, ""},
	}
	for _, tc := range cases {
		p, status := Lookup(remote, o, tc.id)
		if status != tc.status || p.Title != tc.wantTitle {
			t.Fatalf("Lookup(%q) = %q, %v; want %q, %v", tc.id, p.Title, status, tc.wantTitle, tc.status)
		}
	}

	o = o.Remove(local)
	if _, status := Lookup(remote, o, local); status != LookupRemoved {
		t.Fatalf("removed creation status = %v, want removed", status)
	}
}
