package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/local"
	"github.com/five82/shelf/internal/pipeline"
)

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderProducts())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderProducts renders the split layout (table + detail), or the empty
// state message when there is nothing to list.
func (m Model) renderProducts() string {
	contentHeight := max(m.height-chromeHeight, 3)

	if len(m.view.Items) == 0 && m.lookup == nil {
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, m.renderEmptyState())
	}

	// Extra wide (>= 160): 30% table, 70% detail
	// Default: 45% table, 55% detail
	var tableWidth int
	if m.width >= LayoutExtraWideWidth {
		tableWidth = m.width * 30 / 100
	} else {
		tableWidth = m.width * 45 / 100
	}
	detailWidth := m.width - tableWidth

	// === Table Pane ===
	tableFocused := m.focusedPane == 0
	tableBg := m.theme.SurfaceAlt
	if tableFocused {
		tableBg = m.theme.FocusBg
	}
	tableContent := m.renderProductTable(tableWidth-2, tableBg) // -2 for borders
	tablePane := m.renderTitledBox(m.tableTitle(), tableContent, tableWidth, contentHeight, tableFocused)

	// === Detail Pane ===
	detailTitle := "Details"
	if m.lookup != nil {
		detailTitle = "Lookup " + truncate(string(m.lookup.id), 24)
	}
	detailPane := m.renderTitledBox(detailTitle, m.detailViewport.View(), detailWidth, contentHeight, m.focusedPane == 1)

	return lipgloss.JoinHorizontal(lipgloss.Top, tablePane, detailPane)
}

// renderEmptyState explains why there is nothing to show.
func (m Model) renderEmptyState() string {
	styles := m.theme.Styles()
	hint := func(s string) string { return styles.FaintText.Render(s) }

	switch m.view.Empty {
	case pipeline.EmptyError:
		return lipgloss.JoinVertical(lipgloss.Center,
			styles.DangerText.Render("Could not load products ("+classifyConnectionError(m.view.Err)+")"),
			styles.MutedText.Render(truncate(m.view.Err.Error(), max(m.width-8, 20))),
			hint("Press r to retry. Details in "+truncateMiddle(m.logPath, 50)),
		)
	case pipeline.EmptyLoading:
		return styles.WarningText.Render("Loading products...")
	case pipeline.EmptyNoRemote:
		return lipgloss.JoinVertical(lipgloss.Center,
			styles.MutedText.Render("The catalog is empty"),
			hint("Press n to add a product locally, or r to refetch"),
		)
	case pipeline.EmptyAfterOverlay:
		return lipgloss.JoinVertical(lipgloss.Center,
			styles.MutedText.Render("Every product has been removed locally"),
			hint("Press R to reset local data"),
		)
	case pipeline.EmptyNoFavorites:
		return lipgloss.JoinVertical(lipgloss.Center,
			styles.MutedText.Render("No favorites yet"),
			hint("Press F to show all products, then f to mark favorites"),
		)
	case pipeline.EmptyNoMatches:
		return lipgloss.JoinVertical(lipgloss.Center,
			styles.MutedText.Render("No products match the current filters"),
			hint("Press x to clear filters"),
		)
	default:
		return styles.MutedText.Render("Nothing to show")
	}
}

// renderProductTable renders the current page as styled rows.
func (m Model) renderProductTable(width int, bgColor string) string {
	items := m.view.Items
	if len(items) == 0 {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.Muted)).
			Background(lipgloss.Color(bgColor)).
			Render("No products on this page")
	}

	overlay := m.session.Overlay()
	favorites := m.session.Favorites()

	var lines []string
	for i, p := range items {
		rowBg := bgColor
		if i == m.selectedRow {
			rowBg = m.theme.SelectionBg
		}
		content := m.formatProductRow(p, overlay, favorites.Has(p.ID), width, rowBg, i == m.selectedRow)
		lines = append(lines, lipgloss.NewStyle().
			Background(lipgloss.Color(rowBg)).
			Width(width).
			Render(content))
	}
	return strings.Join(lines, "\n")
}

// formatProductRow formats one product row with inline colors.
// Format: "+ ★ Title · $Price"
// When selected is true, uses SelectionText color for all text to ensure contrast.
func (m Model) formatProductRow(p catalog.Product, o local.Overlay, favorite bool, width int, bgColor string, selected bool) string {
	bg := NewBgStyle(bgColor)

	marker := " "
	markerBadge := ""
	if e, ok := o.Entry(p.ID); ok {
		switch e.Kind {
		case local.KindCreation:
			marker, markerBadge = "+", "created"
		case local.KindPatch:
			marker, markerBadge = "~", "edited"
		}
	}
	star := " "
	if favorite {
		star = "★"
	}
	price := formatPrice(p.Price)

	separatorLen := 3 // " · "
	titleWidth := max(width-len(price)-separatorLen-5, 8)

	var markerStyle, starStyle, titleStyle, sepStyle, priceStyle lipgloss.Style
	if selected {
		selText := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		markerStyle, starStyle, titleStyle, sepStyle, priceStyle = selText, selText, selText, selText, selText
	} else {
		styles := m.theme.Styles()
		markerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.colorForBadge(markerBadge)))
		starStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.colorForBadge("favorite")))
		titleStyle = styles.Text
		sepStyle = styles.FaintText
		priceStyle = styles.MutedText
	}

	return bg.Render(marker, markerStyle) + bg.Space() +
		bg.Render(star, starStyle) + bg.Space() +
		bg.Render(truncate(p.Title, titleWidth), titleStyle) +
		bg.Render(" · ", sepStyle) +
		bg.Render(price, priceStyle)
}

// colorForBadge returns the theme color for a badge name.
func (m Model) colorForBadge(badge string) string {
	if color, ok := m.theme.BadgeColors[badge]; ok {
		return color
	}
	return m.theme.Text
}

// tableTitle returns the table pane title with the visible range.
func (m Model) tableTitle() string {
	v := m.view
	if v.Filtered == 0 {
		return "Products"
	}
	if v.Filtered == v.Merged {
		return fmt.Sprintf("Products (%d)", v.Merged)
	}
	return fmt.Sprintf("Products (%d/%d)", v.Filtered, v.Merged)
}

// renderTitledBox renders content in a box with the title embedded in the top border.
// Frame style: ┌─── Title ───┐
// When focused is true, uses BorderFocus color and FocusBg background.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	var borderColorStr, bgColorStr string
	if focused {
		borderColorStr = m.theme.BorderFocus
		bgColorStr = m.theme.FocusBg
	} else {
		borderColorStr = m.theme.Border
		bgColorStr = m.theme.SurfaceAlt
	}
	bg := NewBgStyle(bgColorStr)
	borderColor := lipgloss.Color(borderColorStr)
	bgColor := lipgloss.Color(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	// Build the top border with embedded title
	innerWidth := width - 2 // Account for left and right border chars
	title = truncate(title, max(innerWidth-4, 1))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0) // -2 for spaces around title
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", max(innerWidth, 0)), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).Background(bgColor)

	contentLines := strings.Split(content, "\n")
	boxHeight := height - 2 // -2 for top and bottom borders

	var paddedLines []string
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		paddedLines = append(paddedLines,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(paddedLines, "\n") + "\n" + bottomBorder
}

func formatPrice(p float64) string {
	return fmt.Sprintf("$%.2f", p)
}
