package catalog

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotFound is matched by errors.Is for 404 responses.
var ErrNotFound = errors.New("product not found")

// StatusError reports a non-success HTTP response.
type StatusError struct {
	Path string
	Code int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Code)
}

// Is lets errors.Is match ErrNotFound for 404 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == http.StatusNotFound
}

// FieldError describes one rejected field of a product form.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError is returned by Validate when one or more fields are invalid.
type ValidationError struct {
	Fields []FieldError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid product: " + strings.Join(parts, "; ")
}

// Field returns the message for the named field, or "" when it passed.
func (e *ValidationError) Field(name string) string {
	if e == nil {
		return ""
	}
	for _, f := range e.Fields {
		if f.Field == name {
			return f.Message
		}
	}
	return ""
}

// IsValidationError reports whether err carries a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
