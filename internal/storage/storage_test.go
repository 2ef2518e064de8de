package storage

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedStore(t *testing.T) (*Store, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.WarnLevel)
	return Open(t.TempDir(), zap.New(core).Sugar()), logs
}

func TestKey(t *testing.T) {
	if got := Key("shelf", "overlay", 2); got != "shelf:overlay:v2" {
		t.Fatalf("Key = %q, want shelf:overlay:v2", got)
	}
}

func TestStore_SetGetRemove(t *testing.T) {
	s, _ := newObservedStore(t)

	type doc struct {
		Names []string `json:"names"`
	}
	s.Set("shelf:test:v1", doc{Names: []string{"a", "b"}})

	var got doc
	if !s.Get("shelf:test:v1", &got) {
		t.Fatalf("Get returned false after Set")
	}
	if len(got.Names) != 2 || got.Names[1] != "b" {
		t.Fatalf("Get = %#v, want names [a b]", got)
	}

	s.Remove("shelf:test:v1")
	if s.Get("shelf:test:v1", &got) {
		t.Fatalf("Get returned true after Remove")
	}
	s.Remove("shelf:test:v1") // removing twice is fine
}

func TestStore_KeysMapToSafeFileNames(t *testing.T) {
	dir := t.TempDir()
	s := Open(dir, nil)
	s.Set("shelf:overlay:v2", []int{1})

	if _, err := os.Stat(filepath.Join(dir, "shelf.overlay.v2.json")); err != nil {
		t.Fatalf("expected shelf.overlay.v2.json: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("dir has %d entries, want 1 (no temp files left)", len(entries))
	}
}

func TestLoad_FallbacksOnMissingCorruptAndShapeMismatch(t *testing.T) {
	s, logs := newObservedStore(t)
	fallback := map[string]int{"fallback": 1}

	if got := Load(s, "missing", fallback); got["fallback"] != 1 {
		t.Fatalf("Load missing = %v, want fallback", got)
	}

	if err := os.WriteFile(s.path("corrupt"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if got := Load(s, "corrupt", fallback); got["fallback"] != 1 {
		t.Fatalf("Load corrupt = %v, want fallback", got)
	}

	s.Set("array", []string{"x"})
	if got := Load(s, "array", fallback); got["fallback"] != 1 {
		t.Fatalf("Load array-into-map = %v, want fallback", got)
	}

	s.Set("object", map[string]int{"a": 2})
	if got := Load(s, "object", []string{"fb"}); len(got) != 1 || got[0] != "fb" {
		t.Fatalf("Load object-into-slice = %v, want fallback", got)
	}
	if got := Load(s, "object", fallback); got["a"] != 2 {
		t.Fatalf("Load object = %v, want a=2", got)
	}

	if logs.FilterMessage("storage value shape mismatch").Len() != 2 {
		t.Fatalf("expected two shape mismatch warnings, got %d", logs.FilterMessage("storage value shape mismatch").Len())
	}
}

func TestStore_LargeWriteWarns(t *testing.T) {
	s, logs := newObservedStore(t)
	s.SetWarnBytes(16)

	s.Set("small", "ok")
	if logs.FilterMessage("large storage write").Len() != 0 {
		t.Fatalf("small write should not warn")
	}
	s.Set("big", "this value is definitely longer than sixteen bytes")
	if logs.FilterMessage("large storage write").Len() != 1 {
		t.Fatalf("large write should warn once")
	}
	var got string
	if !s.Get("big", &got) {
		t.Fatalf("large write should still be stored")
	}
}

func TestStore_UnavailableDegradesToNoop(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	// A directory below a regular file can never be created.
	s := Open(filepath.Join(blocker, "storage"), nil)
	if s.Available() {
		t.Fatalf("Available() = true, want false")
	}
	s.Set("k", 1)
	s.Remove("k")
	var v int
	if s.Get("k", &v) {
		t.Fatalf("Get on unavailable store returned true")
	}
	if got := Load(s, "k", 42); got != 42 {
		t.Fatalf("Load on unavailable store = %d, want fallback 42", got)
	}

	var nilStore *Store
	if nilStore.Available() {
		t.Fatalf("nil store reported available")
	}
}
