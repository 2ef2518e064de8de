package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shelf/internal/catalog"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// Modal results, delivered back to the Model as messages.

type searchMsg struct{ text string }

type lookupMsg struct{ id catalog.ID }

type saveProductMsg struct {
	id      catalog.ID
	product catalog.Product
}

type removeProductMsg struct {
	id    catalog.ID
	title string
}

type resetLocalMsg struct{}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func newInput(placeholder, value string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.SetValue(value)
	return in
}

// searchModal edits the search text live. Esc restores the text it opened with.
type searchModal struct {
	input    textinput.Model
	original string
}

func newSearchModal(current string) *searchModal {
	in := newInput("title, description or category", current, 200)
	in.Focus()
	in.CursorEnd()
	return &searchModal{input: in, original: current}
}

func (s *searchModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keys.Escape):
			if s.input.Value() == s.original {
				return s, nil, true
			}
			return s, emit(searchMsg{text: s.original}), true
		case key.Matches(km, keys.Confirm):
			return s, nil, true
		}
	}

	before := s.input.Value()
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if after := s.input.Value(); after != before {
		cmd = tea.Batch(cmd, emit(searchMsg{text: after}))
	}
	return s, cmd, false
}

func (s *searchModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("Search"))
	b.WriteString("\n\n")
	b.WriteString(s.input.View())
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("enter keep · esc restore"))
	return placeModalBox(theme, width, height, b.String(), 56)
}

// lookupModal asks for a product id.
type lookupModal struct {
	input textinput.Model
}

func newLookupModal() *lookupModal {
	in := newInput("product id, e.g. 7 or local-…", "", 64)
	in.Focus()
	return &lookupModal{input: in}
}

func (l *lookupModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keys.Escape):
			return l, nil, true
		case key.Matches(km, keys.Confirm):
			id := catalog.ID(strings.TrimSpace(l.input.Value()))
			if id == "" {
				return l, nil, true
			}
			return l, emit(lookupMsg{id: id}), true
		}
	}
	var cmd tea.Cmd
	l.input, cmd = l.input.Update(msg)
	return l, cmd, false
}

func (l *lookupModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("Look up product"))
	b.WriteString("\n\n")
	b.WriteString(l.input.View())
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("enter look up · esc cancel"))
	return placeModalBox(theme, width, height, b.String(), 56)
}

// confirmModal asks a yes/no question and emits onConfirm on yes.
type confirmModal struct {
	title     string
	body      string
	onConfirm tea.Msg
}

func newConfirmModal(title, body string, onConfirm tea.Msg) *confirmModal {
	return &confirmModal{title: title, body: body, onConfirm: onConfirm}
}

func (c *confirmModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case key.Matches(km, keys.Confirm), km.String() == "y", km.String() == "Y":
		return c, emit(c.onConfirm), true
	case key.Matches(km, keys.Escape), km.String() == "n", km.String() == "N", key.Matches(km, keys.Quit):
		return c, nil, true
	}
	return c, nil, false
}

func (c *confirmModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder
	b.WriteString(styles.WarningText.Bold(true).Render(c.title))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render(c.body))
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("y/enter confirm · n/esc cancel"))
	return placeModalBox(theme, width, height, b.String(), 60)
}
