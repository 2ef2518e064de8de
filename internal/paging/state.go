package paging

// State is the user's paging position. MaxPage is the total page count
// last observed for the current list; zero means nothing observed yet.
type State struct {
	Page    int
	Size    int
	MaxPage int
}

// New returns page 1 with the given size.
func New(size int) State {
	if size <= 0 {
		size = DefaultSize
	}
	return State{Page: 1, Size: size}
}

// SetPage moves to page p, clamped to 1 and to MaxPage when known.
func (s State) SetPage(p int) State {
	if s.MaxPage > 0 && p > s.MaxPage {
		p = s.MaxPage
	}
	if p < 1 {
		p = 1
	}
	s.Page = p
	return s
}

// Next advances one page.
func (s State) Next() State { return s.SetPage(s.Page + 1) }

// Prev goes back one page.
func (s State) Prev() State { return s.SetPage(s.Page - 1) }

// SetSize changes the page size and returns to the first page.
func (s State) SetSize(size int) State {
	if size <= 0 {
		size = DefaultSize
	}
	s.Size = size
	s.Page = 1
	return s
}

// Observe records the total page count of the list being shown and pulls
// the page back into range. seenData reports whether any list has ever been
// displayed; while it is false an empty list leaves the state alone so a
// restored position survives the initial load.
func (s State) Observe(totalPages int, seenData bool) State {
	switch {
	case totalPages > 0:
		s.MaxPage = totalPages
		if s.Page > totalPages {
			s.Page = totalPages
		}
		if s.Page < 1 {
			s.Page = 1
		}
	case seenData:
		s.MaxPage = 1
		s.Page = 1
	}
	return s
}
