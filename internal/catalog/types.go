package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// localPrefix marks identifiers issued on this machine. The remote API only
// issues numeric ids, so the prefix can never collide with them.
const localPrefix = "local-"

// ID identifies a product. Remote ids are kept in their decimal string form.
type ID string

// NewLocalID returns a fresh identifier in the local namespace.
func NewLocalID() ID {
	return ID(localPrefix + uuid.NewString())
}

// IsLocal reports whether the id belongs to the local namespace.
func (id ID) IsLocal() bool {
	return strings.HasPrefix(string(id), localPrefix)
}

// String implements fmt.Stringer.
func (id ID) String() string {
	return string(id)
}

// Short returns a display form of the id. Local ids are shortened to the
// first block of their token.
func (id ID) Short() string {
	if !id.IsLocal() {
		return string(id)
	}
	token := strings.TrimPrefix(string(id), localPrefix)
	if i := strings.IndexByte(token, '-'); i > 0 {
		token = token[:i]
	}
	return "L" + token
}

// UnmarshalJSON accepts both JSON numbers and strings.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("product id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Rating mirrors the aggregate review score returned by the API.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product is an immutable catalog entry. Edits produce a new value.
type Product struct {
	ID          ID      `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      Rating  `json:"rating"`
}

// WithID returns a copy of p carrying id.
func (p Product) WithID(id ID) Product {
	p.ID = id
	return p
}

// Clone returns a copy of products that shares no backing array.
func Clone(products []Product) []Product {
	if products == nil {
		return nil
	}
	dup := make([]Product, len(products))
	copy(dup, products)
	return dup
}
