package paging

import (
	"fmt"
	"testing"

	"github.com/five82/shelf/internal/catalog"
)

func products(n int) []catalog.Product {
	out := make([]catalog.Product, n)
	for i := range out {
		out[i] = catalog.Product{ID: catalog.ID(fmt.Sprint(i + 1)), Title: fmt.Sprintf("P%02d", i+1)}
	}
	return out
}

func TestPaginate(t *testing.T) {
	list := products(25)
	cases := []struct {
		name              string
		page, size        int
		wantPage, wantLen int
		wantStart, wantEnd int
	}{
		{"first", 1, 10, 1, 10, 1, 10},
		{"last partial", 3, 10, 3, 5, 21, 25},
		{"overflow clamps", 999, 10, 3, 5, 21, 25},
		{"zero clamps", 0, 10, 1, 10, 1, 10},
		{"negative clamps", -4, 10, 1, 10, 1, 10},
		{"default size", 2, 0, 2, 10, 11, 20},
		{"exact fit", 5, 5, 5, 5, 21, 25},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Paginate(list, tc.page, tc.size)
			if got.Page != tc.wantPage || len(got.Items) != tc.wantLen {
				t.Fatalf("Paginate(%d,%d) = page %d len %d; want page %d len %d", tc.page, tc.size, got.Page, len(got.Items), tc.wantPage, tc.wantLen)
			}
			if got.RangeStart != tc.wantStart || got.RangeEnd != tc.wantEnd {
				t.Fatalf("range = %d-%d, want %d-%d", got.RangeStart, got.RangeEnd, tc.wantStart, tc.wantEnd)
			}
			if got.Total != 25 {
				t.Fatalf("Total = %d, want 25", got.Total)
			}
		})
	}
	if got := Paginate(list, 1, 10); got.TotalPages != 3 {
		t.Fatalf("TotalPages = %d, want 3", got.TotalPages)
	}
}

func TestPaginate_Empty(t *testing.T) {
	got := Paginate(nil, 4, 10)
	if got.Page != 1 || got.TotalPages != 0 || len(got.Items) != 0 || got.RangeStart != 0 || got.RangeEnd != 0 {
		t.Fatalf("Paginate(empty) = %+v", got)
	}
}

func TestPaginate_PagesPartitionTheList(t *testing.T) {
	list := products(23)
	for _, size := range Sizes {
		seen := 0
		pages := TotalPages(len(list), size)
		for p := 1; p <= pages; p++ {
			page := Paginate(list, p, size)
			for i, item := range page.Items {
				if item.ID != list[seen+i].ID {
					t.Fatalf("size %d page %d: item %d = %s, want %s", size, p, i, item.ID, list[seen+i].ID)
				}
			}
			seen += len(page.Items)
		}
		if seen != len(list) {
			t.Fatalf("size %d: pages covered %d items, want %d", size, seen, len(list))
		}
	}
}

func TestNextSize(t *testing.T) {
	if got := NextSize(10, 1); got != 20 {
		t.Fatalf("NextSize(10, 1) = %d, want 20", got)
	}
	if got := NextSize(50, 1); got != 5 {
		t.Fatalf("NextSize(50, 1) = %d, want 5", got)
	}
	if got := NextSize(5, -1); got != 50 {
		t.Fatalf("NextSize(5, -1) = %d, want 50", got)
	}
	if got := NextSize(7, 1); got != DefaultSize {
		t.Fatalf("NextSize(unknown) = %d, want %d", got, DefaultSize)
	}
}
