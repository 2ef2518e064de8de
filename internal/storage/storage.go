// Package storage is shelf's durable key-value store. Values are JSON
// documents kept one file per key under a directory. Every operation
// degrades to a no-op or a caller-supplied fallback when the directory is
// unusable; nothing here returns an error to callers.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"go.uber.org/zap"
)

// DefaultWarnBytes is the write size above which a warning is logged.
const DefaultWarnBytes = 512 * 1024

// Key builds a versioned storage key such as "shelf:overlay:v2". Bumping the
// version moves data to a new key so old-shaped documents are never decoded
// as new-shaped ones.
func Key(namespace, feature string, version int) string {
	return fmt.Sprintf("%s:%s:v%d", namespace, feature, version)
}

// Store reads and writes JSON values under a directory.
type Store struct {
	dir       string
	log       *zap.SugaredLogger
	warnBytes int
	available bool
}

// Open prepares a Store rooted at dir. When the directory cannot be created
// the store stays usable but every read misses and every write is dropped.
func Open(dir string, log *zap.SugaredLogger) *Store {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s := &Store{dir: dir, log: log, warnBytes: DefaultWarnBytes}
	if strings.TrimSpace(dir) == "" {
		log.Warnw("storage unavailable", "reason", "empty directory")
		return s
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Warnw("storage unavailable", "dir", dir, "error", err)
		return s
	}
	s.available = true
	return s
}

// SetWarnBytes overrides the large-write warning threshold.
func (s *Store) SetWarnBytes(n int) {
	if n > 0 {
		s.warnBytes = n
	}
}

// Available reports whether the backing directory is usable.
func (s *Store) Available() bool {
	return s != nil && s.available
}

// Get decodes the value stored under key into dest and reports whether a
// value was found and decoded.
func (s *Store) Get(key string, dest any) bool {
	data, ok := s.read(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		s.log.Warnw("storage value unreadable", "key", key, "error", err)
		return false
	}
	return true
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key string, value any) {
	if !s.Available() {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		s.log.Warnw("storage encode failed", "key", key, "error", err)
		return
	}
	if len(data) > s.warnBytes {
		s.log.Warnw("large storage write", "key", key, "bytes", len(data), "threshold", s.warnBytes)
	}

	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		s.log.Warnw("storage write dropped", "key", key, "error", err)
		return
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		s.log.Warnw("storage write dropped", "key", key, "error", err)
	}
}

// Remove deletes the value stored under key.
func (s *Store) Remove(key string) {
	if !s.Available() {
		return
	}
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		s.log.Warnw("storage remove failed", "key", key, "error", err)
	}
}

// Load returns the value stored under key, or fallback when the key is
// missing, unreadable, or holds a document whose JSON shape does not match
// T (for example an array where an object is expected).
func Load[T any](s *Store, key string, fallback T) T {
	data, ok := s.read(key)
	if !ok {
		return fallback
	}
	if want := jsonKind(reflect.TypeOf((*T)(nil)).Elem()); want != 0 && leadingByte(data) != want {
		s.log.Warnw("storage value shape mismatch", "key", key, "want", string(want))
		return fallback
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		s.log.Warnw("storage value unreadable", "key", key, "error", err)
		return fallback
	}
	return out
}

func (s *Store) read(key string) ([]byte, bool) {
	if !s.Available() {
		return nil, false
	}
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warnw("storage read failed", "key", key, "error", err)
		}
		return nil, false
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, false
	}
	return data, true
}

func (s *Store) path(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('.')
		}
	}
	return filepath.Join(s.dir, b.String()+".json")
}

// jsonKind returns the first byte a JSON encoding of t starts with, or 0
// when it cannot be predicted.
func jsonKind(t reflect.Type) byte {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Map, reflect.Struct:
		return '{'
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return '"'
		}
		return '['
	case reflect.Array:
		return '['
	case reflect.String:
		return '"'
	default:
		return 0
	}
}

func leadingByte(data []byte) byte {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return 0
	}
	return data[0]
}
