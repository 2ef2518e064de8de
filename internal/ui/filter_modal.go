package ui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/filter"
)

type criteriaMsg struct{ criteria filter.Criteria }

// Filter modal sections, in tab order.
const (
	filterSectionCategories = iota
	filterSectionMinPrice
	filterSectionMaxPrice
	filterSectionMinRating
	filterSectionCount
)

// filterModal edits categories, the price window and the minimum rating.
// The search text is carried through unchanged.
type filterModal struct {
	base       filter.Criteria
	categories []string
	selected   map[string]bool
	cursor     int

	inputs  [filterSectionCount]textinput.Model
	section int

	priceRange    filter.Range
	hasPriceRange bool
	err           string
}

func newFilterModal(c filter.Criteria, categories []string, priceRange filter.Range, hasRange bool) *filterModal {
	f := &filterModal{
		base:          c,
		selected:      make(map[string]bool, len(c.Categories)),
		priceRange:    priceRange,
		hasPriceRange: hasRange,
	}

	// Keep selected categories that no longer appear in the options so they
	// can be deselected.
	seen := make(map[string]bool, len(categories))
	for _, cat := range categories {
		seen[cat] = true
		f.categories = append(f.categories, cat)
	}
	for _, cat := range c.Categories {
		f.selected[cat] = true
		if !seen[cat] {
			f.categories = append(f.categories, cat)
		}
	}

	minPH, maxPH := "any", "any"
	if hasRange {
		minPH = strconv.FormatFloat(priceRange.Min, 'f', 2, 64)
		maxPH = strconv.FormatFloat(priceRange.Max, 'f', 2, 64)
	}
	f.inputs[filterSectionMinPrice] = newInput(minPH, formatBound(c.MinPrice), 12)
	f.inputs[filterSectionMaxPrice] = newInput(maxPH, formatBound(c.MaxPrice), 12)
	f.inputs[filterSectionMinRating] = newInput("0-5", formatBound(c.MinRating), 4)

	if len(f.categories) == 0 {
		f.focus(filterSectionMinPrice)
	}
	return f
}

func (f *filterModal) focus(section int) {
	for i := filterSectionMinPrice; i < filterSectionCount; i++ {
		f.inputs[i].Blur()
	}
	f.section = section
	if section != filterSectionCategories {
		f.inputs[section].Focus()
	}
}

func (f *filterModal) step(delta int) {
	next := (f.section + delta + filterSectionCount) % filterSectionCount
	if next == filterSectionCategories && len(f.categories) == 0 {
		next = (next + delta + filterSectionCount) % filterSectionCount
	}
	f.focus(next)
}

func (f *filterModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, isKey := msg.(tea.KeyMsg)
	if isKey {
		switch {
		case key.Matches(km, keys.Escape):
			return f, nil, true
		case key.Matches(km, keys.Confirm):
			c, err := f.criteria()
			if err != nil {
				f.err = err.Error()
				return f, nil, false
			}
			return f, emit(criteriaMsg{criteria: c}), true
		case key.Matches(km, keys.Tab):
			f.step(1)
			return f, nil, false
		case key.Matches(km, keys.ShiftTab):
			f.step(-1)
			return f, nil, false
		}

		if f.section == filterSectionCategories {
			switch {
			case key.Matches(km, keys.Down):
				if f.cursor < len(f.categories)-1 {
					f.cursor++
				}
			case key.Matches(km, keys.Up):
				if f.cursor > 0 {
					f.cursor--
				}
			case key.Matches(km, keys.Toggle):
				if f.cursor < len(f.categories) {
					cat := f.categories[f.cursor]
					f.selected[cat] = !f.selected[cat]
				}
			case key.Matches(km, keys.ClearFilters):
				for cat := range f.selected {
					f.selected[cat] = false
				}
				for i := filterSectionMinPrice; i < filterSectionCount; i++ {
					f.inputs[i].SetValue("")
				}
				f.err = ""
			}
			return f, nil, false
		}
	}

	if f.section == filterSectionCategories {
		return f, nil, false
	}
	var cmd tea.Cmd
	f.inputs[f.section], cmd = f.inputs[f.section].Update(msg)
	if isKey {
		f.err = ""
	}
	return f, cmd, false
}

// criteria parses the form. Empty inputs are unbounded.
func (f *filterModal) criteria() (filter.Criteria, error) {
	minPrice, err := parseBound(f.inputs[filterSectionMinPrice].Value(), "min price")
	if err != nil {
		return filter.Criteria{}, err
	}
	maxPrice, err := parseBound(f.inputs[filterSectionMaxPrice].Value(), "max price")
	if err != nil {
		return filter.Criteria{}, err
	}
	minRating, err := parseBound(f.inputs[filterSectionMinRating].Value(), "min rating")
	if err != nil {
		return filter.Criteria{}, err
	}
	if minRating != nil && *minRating > 5 {
		return filter.Criteria{}, fmt.Errorf("min rating must be between 0 and 5")
	}

	var cats []string
	for _, cat := range f.categories {
		if f.selected[cat] {
			cats = append(cats, cat)
		}
	}

	return f.base.
		WithCategories(cats...).
		WithMinPrice(minPrice).
		WithMaxPrice(maxPrice).
		WithMinRating(minRating), nil
}

func (f *filterModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder

	b.WriteString(styles.AccentText.Bold(true).Render("Filters"))
	b.WriteString("\n\n")

	heading := func(section int, label string) {
		style := styles.MutedText
		if f.section == section {
			style = styles.AccentText
		}
		b.WriteString(style.Render(label))
		b.WriteString("\n")
	}

	heading(filterSectionCategories, "Categories")
	if len(f.categories) == 0 {
		b.WriteString(styles.FaintText.Render("  none loaded"))
		b.WriteString("\n")
	}
	for i, cat := range f.categories {
		box := "[ ]"
		if f.selected[cat] {
			box = "[x]"
		}
		label := cat
		if label == "" {
			label = "(uncategorized)"
		}
		line := fmt.Sprintf("%s %s", box, label)
		if f.section == filterSectionCategories && i == f.cursor {
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(theme.SelectionText)).
				Background(lipgloss.Color(theme.SelectionBg)).
				Render("> " + line))
		} else {
			b.WriteString(styles.Text.Render("  " + line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	heading(filterSectionMinPrice, "Min price")
	b.WriteString("  " + f.inputs[filterSectionMinPrice].View() + "\n")
	heading(filterSectionMaxPrice, "Max price")
	b.WriteString("  " + f.inputs[filterSectionMaxPrice].View() + "\n")
	if f.hasPriceRange {
		b.WriteString(styles.FaintText.Render(fmt.Sprintf("  listed prices %s to %s", formatPrice(f.priceRange.Min), formatPrice(f.priceRange.Max))))
		b.WriteString("\n")
	}
	heading(filterSectionMinRating, "Min rating")
	b.WriteString("  " + f.inputs[filterSectionMinRating].View() + "\n")

	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.DangerText.Render(f.err))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("tab next · space toggle · x clear · enter apply · esc cancel"))
	return placeModalBox(theme, width, height, b.String(), 60)
}

func parseBound(s, name string) (*float64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%s: %q is not a number", name, s)
	}
	if v < 0 {
		return nil, fmt.Errorf("%s must not be negative", name)
	}
	return &v, nil
}

func formatBound(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
