package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/catalog"
)

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	// Header uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth
	sep := bg.Spaces(2)

	parts := []string{bg.Render("shelf", styles.Logo)}
	parts = append(parts, m.connectionParts(styles, bg)...)

	if m.snapshot.Present || m.view.Merged > 0 {
		parts = append(parts, bg.Render(pluralize(m.view.Merged, "product"), styles.Text))
	}

	o := m.session.Overlay()
	if n := len(o.Patches()); n > 0 {
		parts = append(parts, bg.Render(fmt.Sprintf("%d edited", n), styles.WarningText))
	}
	if n := len(o.Creations()); n > 0 {
		parts = append(parts, bg.Render(fmt.Sprintf("%d local", n), styles.SuccessText))
	}
	if n := o.RemovedCount(); n > 0 && !compact {
		parts = append(parts, bg.Render(fmt.Sprintf("%d removed", n), styles.MutedText))
	}
	if n := m.session.Favorites().Len(); n > 0 {
		parts = append(parts, bg.Render(fmt.Sprintf("★ %d", n), styles.AccentText))
	}

	if m.session.ShowOnlyFavorites() {
		parts = append(parts, styles.BadgeStyle("favorite").Render("FAVORITES"))
	}
	if n := m.criteria.Active(); n > 0 {
		parts = append(parts, styles.BadgeStyle("filter").Render(fmt.Sprintf("FILTERS %d", n)))
	}

	if !compact && m.apiURL != "" {
		parts = append(parts, bg.Render(truncateMiddle(m.apiURL, 40), styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

// connectionParts describes the state of the remote list.
func (m Model) connectionParts(styles Styles, bg BgStyle) []string {
	snap := m.snapshot
	switch {
	case snap.IsOffline():
		parts := []string{styles.BadgeStyle("offline").Render(classifyConnectionError(snap.LastError))}
		if !snap.LastUpdated.IsZero() {
			parts = append(parts, bg.Render("retried "+snap.LastUpdated.Format("15:04:05"), styles.MutedText))
		}
		return parts
	case snap.LastError != nil && snap.Present:
		return []string{styles.BadgeStyle("stale").Render("STALE")}
	case snap.LastError != nil:
		return []string{bg.Render(classifyConnectionError(snap.LastError), styles.DangerText)}
	case snap.Loading:
		return []string{styles.BadgeStyle("loading").Render("LOADING")}
	case !snap.Present:
		return []string{bg.Render("Connecting...", styles.WarningText.Bold(true))}
	default:
		return nil
	}
}

// classifyConnectionError maps a fetch error to a short label.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	var statusErr *catalog.StatusError
	if errors.As(err, &statusErr) {
		return fmt.Sprintf("HTTP %d", statusErr.Code)
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	case strings.Contains(msg, "decode"):
		return "BAD RESPONSE"
	default:
		return "ERROR"
	}
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	// Command bar uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if text, isError := m.activeFlash(); text != "" {
		style := styles.SuccessText
		if isError {
			style = styles.DangerText
		}
		return styles.Header.Width(m.width).Render(bg.Render(text, style))
	}

	type cmd struct{ key, desc string }
	favLabel := "Favorites"
	if m.session.ShowOnlyFavorites() {
		favLabel = "All"
	}
	commands := []cmd{
		{"/", "Search"},
		{"c", "Filters"},
		{"f", "Fav"},
		{"F", favLabel},
		{"n", "New"},
		{"e", "Edit"},
		{"d", "Remove"},
		{"[/]", "Page"},
		{"?", "More"},
	}
	if m.width < LayoutCompactWidth {
		commands = []cmd{{"/", "Search"}, {"c", "Filters"}, {"[/]", "Page"}, {"?", "More"}}
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+2)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	// Show active search text
	if q := strings.TrimSpace(m.criteria.Search); q != "" {
		segments = append(segments, bg.Render("/"+truncate(q, 18), styles.AccentText))
	}

	// Add theme indicator
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}

// renderFooter renders the pager line under the content.
func (m Model) renderFooter() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	v := m.view
	if v.TotalPages == 0 {
		return styles.Footer.Width(m.width).Render(bg.Render(fmt.Sprintf("%d per page", m.paging.Size), styles.FaintText))
	}

	parts := []string{
		bg.Render(fmt.Sprintf("%d–%d of %d", v.RangeStart, v.RangeEnd, v.Filtered), styles.Text),
		bg.Render(fmt.Sprintf("page %d/%d", v.Page.Page, v.TotalPages), styles.MutedText),
		bg.Render(fmt.Sprintf("%d per page", m.paging.Size), styles.FaintText),
	}
	if v.TotalPages > 1 && v.TotalPages <= 30 && m.width >= LayoutCompactWidth {
		parts = append(parts, lipgloss.NewStyle().
			Background(lipgloss.Color(m.theme.Surface)).
			Foreground(lipgloss.Color(m.theme.Accent)).
			Render(m.pager.View()))
	}
	return styles.Footer.Width(m.width).Render(bg.Join(parts, "  "))
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
