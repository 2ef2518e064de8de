package pipeline

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/filter"
	"github.com/five82/shelf/internal/local"
)

func remote(n int) []catalog.Product {
	cats := []string{"electronics", "jewelery", "men's clothing"}
	out := make([]catalog.Product, n)
	for i := range out {
		out[i] = catalog.Product{
			ID:       catalog.ID(fmt.Sprint(i + 1)),
			Title:    fmt.Sprintf("Item %02d", i+1),
			Category: cats[i%len(cats)],
			Price:    float64(10 * (i + 1)),
		}
	}
	return out
}

func TestBuild_FavoritesOnlyWithEmptyFavorites(t *testing.T) {
	v := Build(Input{
		Remote:            remote(3),
		Present:           true,
		ShowOnlyFavorites: true,
		PageSize:          10,
	})
	if v.Empty != EmptyNoFavorites {
		t.Fatalf("Empty = %v, want %v", v.Empty, EmptyNoFavorites)
	}
	if len(v.Items) != 0 || v.Favored != 0 || v.Merged != 3 {
		t.Fatalf("unexpected view: %+v", v)
	}
}

func TestBuild_Classification(t *testing.T) {
	var o local.Overlay
	removedAll := o
	for _, p := range remote(2) {
		removedAll = removedAll.Remove(p.ID)
	}
	withCreation, _ := o.Upsert("", catalog.Product{Title: "Local", Category: "misc"})
	boom := errors.New("boom")

	cases := []struct {
		name string
		in   Input
		want EmptyState
	}{
		{"error without data", Input{Err: boom, Loading: true}, EmptyError},
		{"error with stale data", Input{Err: boom, Remote: remote(2), Present: true}, EmptyNone},
		{"loading", Input{Loading: true}, EmptyLoading},
		{"refetch keeps data", Input{Loading: true, Remote: remote(2), Present: true}, EmptyNone},
		{"absent", Input{}, EmptyNoRemote},
		{"empty remote", Input{Present: true}, EmptyNoRemote},
		{"empty remote with creation", Input{Present: true, Overlay: withCreation}, EmptyNone},
		{"absent remote with creation", Input{Overlay: withCreation}, EmptyNone},
		{"all removed", Input{Remote: remote(2), Present: true, Overlay: removedAll}, EmptyAfterOverlay},
		{"no matches", Input{Remote: remote(2), Present: true, Criteria: filter.Criteria{}.WithSearch("zzz")}, EmptyNoMatches},
		{"present", Input{Remote: remote(2), Present: true}, EmptyNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Build(tc.in).Empty; got != tc.want {
				t.Fatalf("Empty = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBuild_StaleFlag(t *testing.T) {
	v := Build(Input{Err: errors.New("offline"), Remote: remote(1), Present: true})
	if !v.Stale || v.Err == nil {
		t.Fatalf("expected stale view with error, got %+v", v)
	}
	if v := Build(Input{Remote: remote(1), Present: true}); v.Stale {
		t.Fatalf("unexpected stale flag")
	}
}

func TestBuild_OptionsComeFromFavoritesBeforeFilter(t *testing.T) {
	favs := local.NewFavorites("1", "2")
	v := Build(Input{
		Remote:            remote(6),
		Present:           true,
		Favorites:         favs,
		ShowOnlyFavorites: true,
		Criteria:          filter.Criteria{}.WithCategories("electronics"),
		PageSize:          10,
	})
	want := []string{"electronics", "jewelery"}
	if !reflect.DeepEqual(v.Categories, want) {
		t.Fatalf("Categories = %v, want %v", v.Categories, want)
	}
	if !v.HasPriceRange || v.PriceRange.Min != 10 || v.PriceRange.Max != 20 {
		t.Fatalf("PriceRange = %+v (%v), want {10 20}", v.PriceRange, v.HasPriceRange)
	}
	if v.Filtered != 1 || len(v.Items) != 1 || v.Items[0].ID != "1" {
		t.Fatalf("filtered items = %+v", v.Items)
	}
}

func TestBuild_Paginates(t *testing.T) {
	v := Build(Input{Remote: remote(25), Present: true, Page: 3, PageSize: 10})
	if v.TotalPages != 3 || v.Page.Page != 3 || len(v.Items) != 5 {
		t.Fatalf("page = %d/%d with %d items", v.Page.Page, v.TotalPages, len(v.Items))
	}
	if v.RangeStart != 21 || v.RangeEnd != 25 {
		t.Fatalf("range = %d-%d", v.RangeStart, v.RangeEnd)
	}
}

func TestBuild_DoesNotModifyRemote(t *testing.T) {
	in := remote(5)
	in[0].Title = "zzz"
	snapshot := catalog.Clone(in)
	_ = Build(Input{Remote: in, Present: true, PageSize: 2})
	if !reflect.DeepEqual(in, snapshot) {
		t.Fatalf("Build reordered or modified the remote slice")
	}
}

func TestEmptyStateString(t *testing.T) {
	if EmptyNoFavorites.String() != "no favorites" || EmptyState(99).String() != "unknown" {
		t.Fatalf("unexpected String output")
	}
}
