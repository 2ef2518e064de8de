package catalog

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestID_UnmarshalAcceptsNumbersAndStrings(t *testing.T) {
	cases := []struct {
		in   string
		want ID
	}{
		{`7`, "7"},
		{`"7"`, "7"},
		{`" local-abc "`, "local-abc"},
		{`null`, ""},
	}
	for _, tc := range cases {
		var id ID
		if err := json.Unmarshal([]byte(tc.in), &id); err != nil {
			t.Fatalf("Unmarshal(%s) returned error: %v", tc.in, err)
		}
		if id != tc.want {
			t.Fatalf("Unmarshal(%s) = %q, want %q", tc.in, id, tc.want)
		}
	}

	var id ID
	if err := json.Unmarshal([]byte(`{}`), &id); err == nil {
		t.Fatalf("Unmarshal object returned nil error")
	}
}

func TestNewLocalID(t *testing.T) {
	a, b := NewLocalID(), NewLocalID()
	if a == b {
		t.Fatalf("NewLocalID returned duplicate %q", a)
	}
	if !a.IsLocal() {
		t.Fatalf("IsLocal(%q) = false", a)
	}
	if ID("12").IsLocal() {
		t.Fatalf("remote id reported as local")
	}
	if short := a.Short(); !strings.HasPrefix(short, "L") || len(short) != 9 {
		t.Fatalf("Short() = %q, want L + 8 hex chars", short)
	}
	if ID("12").Short() != "12" {
		t.Fatalf("Short() of remote id should be unchanged")
	}
}

func TestProductRoundTripKeepsStringID(t *testing.T) {
	p := Product{ID: "3", Title: "Jacket", Rating: Rating{Rate: 4.7, Count: 500}}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	var back Product
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if back != p {
		t.Fatalf("round trip = %#v, want %#v", back, p)
	}
}

func TestClone(t *testing.T) {
	if Clone(nil) != nil {
		t.Fatalf("Clone(nil) should stay nil")
	}
	src := []Product{{ID: "1"}}
	dup := Clone(src)
	dup[0].ID = "2"
	if src[0].ID != "1" {
		t.Fatalf("Clone shares backing array")
	}
}
