package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	k := m.keys

	sections := []helpSection{
		{title: "Navigation", items: helpItems(k.Up, k.Down, k.Top, k.Bottom, k.Tab, k.PrevPage, k.NextPage, k.SizeUp, k.SizeDown)},
		{title: "Filtering", items: helpItems(k.Search, k.Filters, k.ClearFilters, k.Favorite, k.FavoritesOnly, k.Lookup)},
		{title: "Local edits", items: helpItems(k.New, k.Edit, k.Delete, k.Reset)},
		{title: "General", items: helpItems(k.Refresh, k.Logs, k.CycleTheme, k.Help, k.Escape, k.Quit)},
	}

	var b strings.Builder

	// Title
	title := styles.Text.Bold(true).Render("Keyboard Shortcuts")
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Warning)).
		Width(12)

	for i, section := range sections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")

		for _, item := range section.items {
			b.WriteString(keyStyle.Render(item.key))
			b.WriteString(styles.Text.Render(item.desc))
			b.WriteString("\n")
		}

		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("Edits stay on this machine; the remote catalog is never changed."))

	return m.placeModal(b.String(), 44)
}

// placeModal wraps content in the modal frame and centers it.
func (m Model) placeModal(content string, width int) string {
	return placeModalBox(m.theme, m.width, m.height, content, width)
}

func placeModalBox(theme Theme, width, height int, content string, boxWidth int) string {
	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(min(boxWidth, max(width-4, 20)))

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(content),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}

func helpItems(bindings ...key.Binding) []helpItem {
	items := make([]helpItem, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		items = append(items, helpItem{key: h.Key, desc: h.Desc})
	}
	return items
}
