package paging

import "testing"

func TestState_SetSizeResetsPage(t *testing.T) {
	s := New(10).SetPage(3)
	if s.Page != 3 {
		t.Fatalf("Page = %d, want 3", s.Page)
	}
	s = s.SetSize(20)
	if s.Page != 1 || s.Size != 20 {
		t.Fatalf("after SetSize: %+v", s)
	}
}

func TestState_SetPageClamps(t *testing.T) {
	s := State{Page: 1, Size: 10, MaxPage: 3}
	if got := s.SetPage(9).Page; got != 3 {
		t.Fatalf("SetPage(9) = %d, want 3", got)
	}
	if got := s.SetPage(-1).Page; got != 1 {
		t.Fatalf("SetPage(-1) = %d, want 1", got)
	}
	if got := s.Prev().Page; got != 1 {
		t.Fatalf("Prev on page 1 = %d", got)
	}
	if got := (State{Page: 7, Size: 10}).Next().Page; got != 8 {
		t.Fatalf("Next without MaxPage = %d, want 8", got)
	}
}

func TestState_Observe(t *testing.T) {
	cases := []struct {
		name     string
		in       State
		total    int
		seen     bool
		wantPage int
		wantMax  int
	}{
		{"in range", State{Page: 2, Size: 10}, 3, true, 2, 3},
		{"shrunk list pulls back", State{Page: 5, Size: 10, MaxPage: 5}, 3, true, 3, 3},
		{"empty after data", State{Page: 4, Size: 10, MaxPage: 4}, 0, true, 1, 1},
		{"empty before data keeps position", State{Page: 4, Size: 10}, 0, false, 4, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in.Observe(tc.total, tc.seen)
			if got.Page != tc.wantPage || got.MaxPage != tc.wantMax {
				t.Fatalf("Observe = page %d max %d; want page %d max %d", got.Page, got.MaxPage, tc.wantPage, tc.wantMax)
			}
		})
	}
}
