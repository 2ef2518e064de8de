package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestRead(t *testing.T) {
	// Create a temporary log file
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	// Write 10 lines of content
	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{
			name:     "read all (0)",
			maxLines: 0,
			expected: expectedAll,
		},
		{
			name:     "read all (negative)",
			maxLines: -1,
			expected: expectedAll,
		},
		{
			name:     "read partial (5)",
			maxLines: 5,
			expected: expectedAll[5:],
		},
		{
			name:     "read exactly all (10)",
			maxLines: 10,
			expected: expectedAll,
		},
		{
			name:     "read more than exists (20)",
			maxLines: 20,
			expected: expectedAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	lines, err := Read(filepath.Join(t.TempDir(), "absent.log"), 10)
	if err != nil || lines != nil {
		t.Fatalf("Read(missing) = %v, %v; want nil, nil", lines, err)
	}
}

func TestParse(t *testing.T) {
	line := `{"level":"warn","ts":"2025-10-08T21:01:05.123Z","logger":"shelf.fetch","caller":"app/fetcher.go:33","msg":"product fetch failed","generation":3,"error":"timeout"}`
	e := Parse(line)

	if e.Level != "warn" || e.Logger != "shelf.fetch" || e.Message != "product fetch failed" {
		t.Fatalf("Parse() = %+v", e)
	}
	want := time.Date(2025, 10, 8, 21, 1, 5, 123000000, time.UTC)
	if !e.Time.Equal(want) {
		t.Fatalf("Time = %v, want %v", e.Time, want)
	}
	if _, ok := e.Fields["caller"]; ok {
		t.Fatalf("caller kept as a field")
	}
	if e.Fields["generation"] != float64(3) || e.Fields["error"] != "timeout" {
		t.Fatalf("Fields = %v", e.Fields)
	}
}

func TestParse_NotJSON(t *testing.T) {
	e := Parse("panic: something broke")
	if e.Message != "panic: something broke" || e.Level != "" || !e.Time.IsZero() {
		t.Fatalf("Parse(raw) = %+v", e)
	}
}

func TestEntryFormat(t *testing.T) {
	e := Entry{
		Level:   "info",
		Logger:  "ui",
		Message: "product removed locally",
		Fields:  map[string]any{"id": "3", "count": float64(2)},
	}
	got := e.Format()
	want := "INFO  [ui] product removed locally count=2 id=3"
	if got != want {
		t.Fatalf("Format() = %q, want %q", got, want)
	}
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local)
	if got := (Entry{Time: at, Message: "x"}).Format(); got != "03:04:05 x" {
		t.Fatalf("Format() = %q", got)
	}
}

func TestTail_SkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shelf.log")
	content := `{"level":"info","msg":"one"}` + "\n\n" + `{"level":"error","msg":"two"}` + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	entries, err := Tail(path, 10)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(entries) != 2 || entries[0].Message != "one" || entries[1].Level != "error" {
		t.Fatalf("Tail() = %+v", entries)
	}
}
