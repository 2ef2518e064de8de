package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/shelf/internal/catalog"
)

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	var s Store

	products := []catalog.Product{{ID: "1", Title: "a"}, {ID: "2", Title: "b"}}

	before := time.Now()
	s.Update(products, nil)

	snap := s.Snapshot()
	if !snap.Present || snap.Loading {
		t.Fatalf("snapshot = Present %v Loading %v, want true/false", snap.Present, snap.Loading)
	}
	if len(snap.Products) != 2 || snap.Products[0].ID != "1" {
		t.Fatalf("snapshot products = %#v, want 2 items", snap.Products)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Products[0].ID = "999"
	products[1].ID = "888"
	snap2 := s.Snapshot()
	if snap2.Products[0].ID != "1" || snap2.Products[1].ID != "2" {
		t.Fatalf("Snapshot should clone products; got %#v", snap2.Products)
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.Update([]catalog.Product{{ID: "1"}}, nil)

	before := time.Now()
	origErr := errors.New("boom")
	s.Update(nil, origErr)

	snap := s.Snapshot()
	if !snap.Present || len(snap.Products) != 1 || snap.Products[0].ID != "1" {
		t.Fatalf("products changed on error: got %#v", snap.Products)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_ErrorBeforeAnyData(t *testing.T) {
	var s Store
	s.Update(nil, errors.New("down"))

	snap := s.Snapshot()
	if snap.Present || snap.Loading || snap.LastError == nil {
		t.Fatalf("snapshot = %+v, want absent with error", snap)
	}
}

func TestStore_LastRequestWins(t *testing.T) {
	var s Store

	slow := s.Begin()
	fast := s.Begin()
	if !s.Snapshot().Loading {
		t.Fatal("Loading = false while requests are in flight")
	}

	if !s.Complete(fast, []catalog.Product{{ID: "new"}}, nil) {
		t.Fatal("Complete(latest) = false, want true")
	}
	if s.Complete(slow, []catalog.Product{{ID: "old"}}, nil) {
		t.Fatal("Complete(stale) = true, want false")
	}

	snap := s.Snapshot()
	if len(snap.Products) != 1 || snap.Products[0].ID != "new" {
		t.Fatalf("products = %#v, want the latest response", snap.Products)
	}
	if snap.Generation != fast {
		t.Fatalf("Generation = %d, want %d", snap.Generation, fast)
	}
}

func TestStore_StaleCompletionKeepsLoading(t *testing.T) {
	var s Store

	first := s.Begin()
	s.Begin()
	s.Complete(first, nil, errors.New("late failure"))

	snap := s.Snapshot()
	if !snap.Loading || snap.LastError != nil || snap.ConsecutiveFailures != 0 {
		t.Fatalf("stale completion leaked into snapshot: %+v", snap)
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	// Initially zero failures
	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 {
		t.Fatalf("ConsecutiveFailures = %d, want 0", snap.ConsecutiveFailures)
	}
	if snap.IsOffline() {
		t.Fatal("IsOffline() = true, want false with 0 failures")
	}

	s.Update(nil, errors.New("fail 1"))
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 1 || snap.IsOffline() {
		t.Fatalf("after 1 failure: failures=%d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}

	// Second failure - now offline
	s.Update(nil, errors.New("fail 2"))
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 2 || !snap.IsOffline() {
		t.Fatalf("after 2 failures: failures=%d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}

	// Success resets counter
	s.Update([]catalog.Product{}, nil)
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 0 {
		t.Fatalf("ConsecutiveFailures = %d, want 0 after success", snap.ConsecutiveFailures)
	}
	if snap.IsOffline() {
		t.Fatal("IsOffline() = true, want false after success")
	}
}
