// Package paging slices a product list into fixed-size pages.
package paging

import "github.com/five82/shelf/internal/catalog"

// DefaultSize is used when a non-positive page size is requested.
const DefaultSize = 10

// Sizes lists the page sizes offered to the user.
var Sizes = []int{5, 10, 20, 50}

// Page is one window of a product list. Page is the 1-based page actually
// used after clamping; RangeStart and RangeEnd are 1-based and inclusive, or
// both zero for an empty list.
type Page struct {
	Items      []catalog.Product
	Page       int
	TotalPages int
	Total      int
	RangeStart int
	RangeEnd   int
}

// Paginate returns page number page of products using size items per page.
// Out-of-range pages are clamped into [1, TotalPages]; an empty list yields
// page 1 of 0.
func Paginate(products []catalog.Product, page, size int) Page {
	if size <= 0 {
		size = DefaultSize
	}
	total := len(products)
	pages := TotalPages(total, size)

	used := page
	if used > pages {
		used = pages
	}
	if used < 1 {
		used = 1
	}

	out := Page{Page: used, TotalPages: pages, Total: total}
	if total == 0 {
		return out
	}
	start := (used - 1) * size
	end := start + size
	if end > total {
		end = total
	}
	out.Items = products[start:end]
	out.RangeStart = start + 1
	out.RangeEnd = end
	return out
}

// TotalPages returns ceil(total/size), or 0 for an empty list.
func TotalPages(total, size int) int {
	if total <= 0 {
		return 0
	}
	if size <= 0 {
		size = DefaultSize
	}
	return (total + size - 1) / size
}

// NextSize returns the next entry in Sizes after size, wrapping around. A
// negative step walks backwards.
func NextSize(size, step int) int {
	idx := -1
	for i, s := range Sizes {
		if s == size {
			idx = i
			break
		}
	}
	if idx < 0 {
		return DefaultSize
	}
	n := len(Sizes)
	return Sizes[((idx+step)%n+n)%n]
}
