package cli

import (
	"encoding/json"
	"testing"

	"github.com/five82/shelf/internal/catalog"
)

func mustProduct(t *testing.T, raw string) catalog.Product {
	t.Helper()
	var p catalog.Product
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("decode product: %v", err)
	}
	return p
}
