// Package pipeline composes merge, favorites, filter and paging into the
// single view the presentation layer renders.
package pipeline

import (
	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/filter"
	"github.com/five82/shelf/internal/local"
	"github.com/five82/shelf/internal/merge"
	"github.com/five82/shelf/internal/paging"
)

// EmptyState explains why the visible list is empty.
type EmptyState int

const (
	EmptyNone EmptyState = iota
	EmptyError
	EmptyLoading
	EmptyNoRemote
	EmptyAfterOverlay
	EmptyNoFavorites
	EmptyNoMatches
)

// String implements fmt.Stringer.
func (e EmptyState) String() string {
	switch e {
	case EmptyNone:
		return "none"
	case EmptyError:
		return "error"
	case EmptyLoading:
		return "loading"
	case EmptyNoRemote:
		return "no remote data"
	case EmptyAfterOverlay:
		return "no data after local overlay"
	case EmptyNoFavorites:
		return "no favorites"
	case EmptyNoMatches:
		return "no filter matches"
	default:
		return "unknown"
	}
}

// Input is everything one render depends on.
type Input struct {
	Remote  []catalog.Product
	Present bool
	Loading bool
	Err     error

	Overlay           local.Overlay
	Favorites         local.Favorites
	ShowOnlyFavorites bool
	Criteria          filter.Criteria

	Page     int
	PageSize int
}

// View is the derived state handed to the UI.
type View struct {
	paging.Page

	Empty EmptyState
	Err   error
	// Stale is set when the last fetch failed but an earlier list is still
	// being shown.
	Stale bool

	Merged   int
	Favored  int
	Filtered int

	Categories    []string
	PriceRange    filter.Range
	HasPriceRange bool
}

// Build runs the full pipeline. No input is modified.
func Build(in Input) View {
	merged := merge.Merge(in.Remote, in.Present, in.Overlay)
	favored := filter.Favorites(merged.Products, in.Favorites, in.ShowOnlyFavorites)
	filtered := filter.Apply(favored, in.Criteria)

	v := View{
		Page:       paging.Paginate(filtered, in.Page, in.PageSize),
		Err:        in.Err,
		Stale:      in.Err != nil && in.Present,
		Merged:     len(merged.Products),
		Favored:    len(favored),
		Filtered:   len(filtered),
		Categories: filter.Categories(favored),
	}
	v.PriceRange, v.HasPriceRange = filter.PriceRange(favored)
	v.Empty = classify(in, merged, len(favored), len(filtered))
	return v
}

// classify picks the first matching empty state. A fetch error only yields
// EmptyError when no remote list has ever loaded; with a list present the
// last good data stays on screen and View.Stale is set instead.
func classify(in Input, merged merge.Result, favored, filtered int) EmptyState {
	switch {
	case in.Err != nil && !in.Present:
		return EmptyError
	case in.Loading && !in.Present:
		return EmptyLoading
	case (!in.Present || len(in.Remote) == 0) && len(in.Overlay.Creations()) == 0:
		return EmptyNoRemote
	case merged.NoData || len(merged.Products) == 0:
		return EmptyAfterOverlay
	case in.ShowOnlyFavorites && favored == 0:
		return EmptyNoFavorites
	case filtered == 0:
		return EmptyNoMatches
	default:
		return EmptyNone
	}
}
