package catalog

import (
	"math"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Field names used in validation errors and product forms.
const (
	FieldTitle       = "title"
	FieldPrice       = "price"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldImage       = "image"
	FieldRate        = "rating.rate"
	FieldCount       = "rating.count"
)

const (
	maxTitleLen       = 120
	maxDescriptionLen = 2000
)

// Validate checks a product before it is written to the local overlay.
func Validate(p Product) error {
	var fields []FieldError
	add := func(field, msg string) {
		fields = append(fields, FieldError{Field: field, Message: msg})
	}

	title := strings.TrimSpace(p.Title)
	switch {
	case title == "":
		add(FieldTitle, "is required")
	case utf8.RuneCountInString(title) > maxTitleLen:
		add(FieldTitle, "must be at most 120 characters")
	}

	switch {
	case math.IsNaN(p.Price) || math.IsInf(p.Price, 0):
		add(FieldPrice, "must be a number")
	case p.Price < 0:
		add(FieldPrice, "must not be negative")
	}

	if utf8.RuneCountInString(p.Description) > maxDescriptionLen {
		add(FieldDescription, "must be at most 2000 characters")
	}

	if strings.TrimSpace(p.Category) == "" {
		add(FieldCategory, "is required")
	}

	if img := strings.TrimSpace(p.Image); img != "" {
		u, err := url.Parse(img)
		if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			add(FieldImage, "must be an http(s) URL")
		}
	}

	if math.IsNaN(p.Rating.Rate) || p.Rating.Rate < 0 || p.Rating.Rate > 5 {
		add(FieldRate, "must be between 0 and 5")
	}
	if p.Rating.Count < 0 {
		add(FieldCount, "must not be negative")
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
