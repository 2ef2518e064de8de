package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/local"
)

// lookupResult is the outcome of an id lookup shown in the detail pane.
type lookupResult struct {
	id      catalog.ID
	status  local.LookupStatus
	product catalog.Product
	pending bool
	err     error
}

type productFetchedMsg struct {
	id      catalog.ID
	product catalog.Product
	err     error
}

func (m *Model) initDetailViewport() {
	m.detailViewport = viewport.New(0, 0)
}

func (m *Model) resizeDetailViewport() {
	tableWidth := m.width * 45 / 100
	if m.width >= LayoutExtraWideWidth {
		tableWidth = m.width * 30 / 100
	}
	m.detailViewport.Width = max(m.width-tableWidth-4, 10)
	m.detailViewport.Height = max(m.height-chromeHeight-2, 1)
}

// updateDetailViewport re-renders the detail pane for the selection or the
// active lookup.
func (m *Model) updateDetailViewport() {
	if !m.ready {
		return
	}
	width := m.detailViewport.Width
	bgColor := m.theme.SurfaceAlt
	if m.focusedPane == 1 {
		bgColor = m.theme.FocusBg
	}

	var content string
	switch {
	case m.lookup != nil:
		content = m.renderLookupContent(*m.lookup, width, bgColor)
	case m.selectedProduct() != nil:
		content = m.renderDetailContent(*m.selectedProduct(), width, bgColor)
	default:
		content = m.theme.Styles().MutedText.Render("Select a product")
	}
	m.detailViewport.SetContent(content)
}

// renderDetailContent renders every field of a product.
func (m Model) renderDetailContent(p catalog.Product, width int, bgColor string) string {
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)

	label := func(s string) string { return bg.Render(padRight(s, 12), styles.MutedText) }
	var lines []string

	lines = append(lines, lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(m.theme.Text)).
		Background(lipgloss.Color(bgColor)).
		Width(width).
		Render(p.Title))
	lines = append(lines, "")

	lines = append(lines, label("Price")+bg.Render(formatPrice(p.Price), styles.Text))
	lines = append(lines, label("Category")+bg.Render(orDash(p.Category), styles.Text))
	lines = append(lines, label("Rating")+bg.Render(formatRating(p.Rating), styles.WarningText))
	lines = append(lines, label("ID")+bg.Render(p.ID.Short(), styles.FaintText))
	lines = append(lines, label("Origin")+m.originBadge(p.ID, styles, bg))
	if m.session.Favorites().Has(p.ID) {
		lines = append(lines, label("Favorite")+bg.Render("★ yes", lipgloss.NewStyle().Foreground(lipgloss.Color(m.colorForBadge("favorite")))))
	}
	if p.Image != "" {
		lines = append(lines, label("Image")+bg.Render(truncateMiddle(p.Image, max(width-12, 10)), styles.InfoText))
	}

	if desc := strings.TrimSpace(p.Description); desc != "" {
		lines = append(lines, "")
		lines = append(lines, lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.Text)).
			Background(lipgloss.Color(bgColor)).
			Width(width).
			Render(desc))
	}

	return strings.Join(lines, "\n")
}

// originBadge says where the shown value comes from.
func (m Model) originBadge(id catalog.ID, styles Styles, bg BgStyle) string {
	e, ok := m.session.Overlay().Entry(id)
	switch {
	case ok && e.Kind == local.KindCreation:
		return bg.Render("created locally", lipgloss.NewStyle().Foreground(lipgloss.Color(m.colorForBadge("created"))))
	case ok:
		return bg.Render("edited locally", lipgloss.NewStyle().Foreground(lipgloss.Color(m.colorForBadge("edited"))))
	default:
		return bg.Render("remote", styles.MutedText)
	}
}

// renderLookupContent renders the outcome of an id lookup.
func (m Model) renderLookupContent(r lookupResult, width int, bgColor string) string {
	styles := m.theme.Styles().WithBackground(bgColor)
	switch {
	case r.pending:
		return styles.WarningText.Render("Looking up " + string(r.id) + "...")
	case r.err != nil:
		return styles.DangerText.Render("Lookup failed: "+classifyConnectionError(r.err)) + "\n" +
			styles.MutedText.Render(truncate(r.err.Error(), width))
	}
	switch r.status {
	case local.LookupFound:
		return m.renderDetailContent(r.product, width, bgColor)
	case local.LookupRemoved:
		return styles.WarningText.Render("Product "+string(r.id)+" was removed on this machine.") + "\n" +
			styles.FaintText.Render("Press R to reset local data and bring it back.")
	default:
		return styles.MutedText.Render("No product with id " + string(r.id) + ".")
	}
}

// startLookup classifies id against the loaded list and the overlay. Remote
// ids that are not loaded are fetched individually.
func (m Model) startLookup(id catalog.ID) (tea.Model, tea.Cmd) {
	p, status := local.Lookup(m.snapshot.Products, m.session.Overlay(), id)
	m.lookup = &lookupResult{id: id, status: status, product: p}
	m.focusedPane = 1

	if status == local.LookupNotFound && !id.IsLocal() && m.fetcher != nil {
		m.lookup.pending = true
		m.updateDetailViewport()
		return m, fetchProductCmd(m.ctx, m.fetcher, id)
	}
	m.updateDetailViewport()
	return m, nil
}

func (m *Model) handleProductFetched(msg productFetchedMsg) {
	if m.lookup == nil || m.lookup.id != msg.id {
		return
	}
	m.lookup.pending = false
	switch {
	case errors.Is(msg.err, catalog.ErrNotFound):
		m.lookup.status = local.LookupNotFound
	case msg.err != nil:
		m.lookup.err = msg.err
	default:
		// Removal and local edits still apply to an individually fetched product.
		p, status := local.Lookup([]catalog.Product{msg.product}, m.session.Overlay(), msg.id)
		m.lookup.product = p
		m.lookup.status = status
	}
	m.updateDetailViewport()
}

func fetchProductCmd(ctx context.Context, f Fetcher, id catalog.ID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, FetchTimeout)
		defer cancel()
		p, err := f.Product(ctx, id)
		return productFetchedMsg{id: id, product: p, err: err}
	}
}

func formatRating(r catalog.Rating) string {
	if r.Count == 0 && r.Rate == 0 {
		return "unrated"
	}
	return fmt.Sprintf("%.1f ★ (%s)", r.Rate, pluralize(r.Count, "review"))
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
