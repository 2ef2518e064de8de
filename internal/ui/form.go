package ui

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shelf/internal/catalog"
)

type formField struct {
	name  string
	label string
	input textinput.Model
}

// formModal creates a product (empty id) or edits an existing one. Saving
// only touches the local overlay.
type formModal struct {
	id      catalog.ID
	base    catalog.Product
	fields  []formField
	focused int
	errs    map[string]string
}

func newFormModal(id catalog.ID, p catalog.Product) *formModal {
	f := &formModal{id: id, base: p}
	price, rate, count := "", "", ""
	if id != "" {
		price = strconv.FormatFloat(p.Price, 'f', -1, 64)
		rate = strconv.FormatFloat(p.Rating.Rate, 'f', -1, 64)
		count = strconv.Itoa(p.Rating.Count)
	}
	f.fields = []formField{
		{name: catalog.FieldTitle, label: "Title", input: newInput("required", p.Title, 120)},
		{name: catalog.FieldPrice, label: "Price", input: newInput("0.00", price, 16)},
		{name: catalog.FieldCategory, label: "Category", input: newInput("required", p.Category, 64)},
		{name: catalog.FieldDescription, label: "Description", input: newInput("", p.Description, 2000)},
		{name: catalog.FieldImage, label: "Image URL", input: newInput("https://…", p.Image, 512)},
		{name: catalog.FieldRate, label: "Rating", input: newInput("0-5", rate, 4)},
		{name: catalog.FieldCount, label: "Reviews", input: newInput("0", count, 9)},
	}
	f.focus(0)
	return f
}

func (f *formModal) focus(i int) {
	for j := range f.fields {
		f.fields[j].input.Blur()
	}
	f.focused = i
	f.fields[i].input.Focus()
}

func (f *formModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keys.Escape):
			return f, nil, true
		case key.Matches(km, keys.Tab), key.Matches(km, keys.Down) && km.Type != tea.KeyRunes:
			f.focus((f.focused + 1) % len(f.fields))
			return f, nil, false
		case key.Matches(km, keys.ShiftTab), key.Matches(km, keys.Up) && km.Type != tea.KeyRunes:
			f.focus((f.focused - 1 + len(f.fields)) % len(f.fields))
			return f, nil, false
		case key.Matches(km, keys.Confirm):
			p, errs := f.product()
			if len(errs) > 0 {
				f.errs = errs
				for i, field := range f.fields {
					if errs[field.name] != "" {
						f.focus(i)
						break
					}
				}
				return f, nil, false
			}
			return f, emit(saveProductMsg{id: f.id, product: p}), true
		}
	}

	var cmd tea.Cmd
	f.fields[f.focused].input, cmd = f.fields[f.focused].input.Update(msg)
	return f, cmd, false
}

func (f *formModal) value(name string) string {
	for _, field := range f.fields {
		if field.name == name {
			return strings.TrimSpace(field.input.Value())
		}
	}
	return ""
}

// product builds the product from the inputs and validates it. The returned
// map holds one message per rejected field.
func (f *formModal) product() (catalog.Product, map[string]string) {
	errs := make(map[string]string)
	p := f.base
	p.Title = f.value(catalog.FieldTitle)
	p.Category = f.value(catalog.FieldCategory)
	p.Description = f.value(catalog.FieldDescription)
	p.Image = f.value(catalog.FieldImage)

	p.Price = 0
	if s := strings.TrimPrefix(f.value(catalog.FieldPrice), "$"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			errs[catalog.FieldPrice] = "must be a number"
		}
		p.Price = v
	}
	p.Rating.Rate = 0
	if s := f.value(catalog.FieldRate); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			errs[catalog.FieldRate] = "must be a number"
		}
		p.Rating.Rate = v
	}
	p.Rating.Count = 0
	if s := f.value(catalog.FieldCount); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			errs[catalog.FieldCount] = "must be a whole number"
		}
		p.Rating.Count = v
	}

	var ve *catalog.ValidationError
	if err := catalog.Validate(p); errors.As(err, &ve) {
		for _, fe := range ve.Fields {
			if errs[fe.Field] == "" {
				errs[fe.Field] = fe.Message
			}
		}
	}
	return p, errs
}

func (f *formModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder

	title := "New product"
	if f.id != "" {
		title = "Edit " + truncate(f.base.Title, 40)
	}
	b.WriteString(styles.AccentText.Bold(true).Render(title))
	b.WriteString("\n\n")

	for i, field := range f.fields {
		style := styles.MutedText
		if i == f.focused {
			style = styles.AccentText
		}
		b.WriteString(style.Render(padRight(field.label, 12)))
		b.WriteString(field.input.View())
		b.WriteString("\n")
		if msg := f.errs[field.name]; msg != "" {
			b.WriteString(styles.DangerText.Render(strings.Repeat(" ", 12) + field.label + " " + msg))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("tab next field · enter save · esc cancel"))
	if f.id == "" || f.id.IsLocal() {
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render("Saved on this machine only."))
	} else {
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render("Changes stay on this machine; the remote product is untouched."))
	}
	return placeModalBox(theme, width, height, b.String(), 70)
}
