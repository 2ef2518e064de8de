package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/filter"
	"github.com/five82/shelf/internal/local"
	"github.com/five82/shelf/internal/paging"
	"github.com/five82/shelf/internal/pipeline"
	"github.com/five82/shelf/internal/prefs"
	"github.com/five82/shelf/internal/state"
)

// Fetcher issues remote requests on behalf of the UI. Results of list
// requests land in the state store; the UI picks them up on the next tick.
type Fetcher interface {
	Refresh(ctx context.Context) error
	Invalidate(ctx context.Context) error
	Product(ctx context.Context, id catalog.ID) (catalog.Product, error)
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	Session   *local.Session
	Fetcher   Fetcher
	Log       *zap.SugaredLogger
	APIURL    string
	LogPath   string
	PageSize  int
	PollTick  time.Duration
	ThemeName string
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     *state.Store
	session   *local.Session
	fetcher   Fetcher
	log       *zap.SugaredLogger
	apiURL    string
	logPath   string
	prefsPath string
	pollTick  time.Duration

	// UI state
	theme       Theme
	keys        keyMap
	width       int
	height      int
	ready       bool
	focusedPane int // 0 = table, 1 = detail

	// Data state
	snapshot state.Snapshot
	criteria filter.Criteria
	paging   paging.State
	seenData bool
	view     pipeline.View

	// Table state
	selectedRow int
	pager       paginator.Model

	// Detail state
	detailViewport viewport.Model
	lookup         *lookupResult

	// Overlays
	showHelp bool
	modal    Modal

	// Command bar message
	flash      string
	flashError bool
	flashUntil time.Time
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = DefaultUIInterval
	}

	log := opts.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	session := opts.Session
	if session == nil {
		session = local.NewSession(nil, nil)
	}

	store := opts.Store
	if store == nil {
		store = &state.Store{}
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	pager := paginator.New()
	pager.Type = paginator.Dots
	pager.ActiveDot = "●"
	pager.InactiveDot = "○"

	m := Model{
		ctx:       ctx,
		store:     store,
		session:   session,
		fetcher:   opts.Fetcher,
		log:       log,
		apiURL:    opts.APIURL,
		logPath:   opts.LogPath,
		prefsPath: prefsPath,
		pollTick:  pollTick,
		theme:     GetTheme(opts.ThemeName),
		keys:      DefaultKeyMap(),
		paging:    paging.New(opts.PageSize),
		pager:     pager,
		snapshot:  store.Snapshot(),
	}
	m.rebuild()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
	}
	if m.fetcher != nil {
		cmds = append(cmds, refreshCmd(m.ctx, m.fetcher, false))
	}
	cmds = append(cmds, fetchSnapshotCmd(m.store))
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.initDetailViewport()
		}
		m.ready = true
		m.resizeDetailViewport()
		m.updateDetailViewport()
		return m, nil

	case tickMsg:
		return m, tea.Batch(fetchSnapshotCmd(m.store), tickCmd(m.pollTick))

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.rebuild()
		return m, nil

	case refreshDoneMsg:
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			m.setFlash("Fetch failed: "+classifyConnectionError(msg.err), true)
		} else if msg.manual {
			m.setFlash("Products refetched", false)
		}
		return m, fetchSnapshotCmd(m.store)

	case productFetchedMsg:
		m.handleProductFetched(msg)
		return m, nil

	// Modal results
	case searchMsg:
		m.applyCriteria(m.criteria.WithSearch(msg.text))
		return m, nil

	case criteriaMsg:
		m.applyCriteria(msg.criteria)
		return m, nil

	case saveProductMsg:
		m.saveProduct(msg)
		return m, nil

	case removeProductMsg:
		m.session.Remove(msg.id)
		m.log.Infow("product removed locally", "id", msg.id)
		m.setFlash("Removed "+truncate(msg.title, 40), false)
		m.rebuild()
		return m, nil

	case resetLocalMsg:
		m.session.ResetLocal()
		m.session.SetShowOnlyFavorites(false)
		m.criteria = m.criteria.Clear()
		m.paging = m.paging.SetPage(1)
		m.lookup = nil
		m.log.Infow("local data reset")
		m.setFlash("Local edits cleared", false)
		m.rebuild()
		if m.fetcher == nil {
			return m, nil
		}
		return m, refreshCmd(m.ctx, m.fetcher, true)

	case lookupMsg:
		return m.startLookup(msg.id)
	}

	// Let an open modal see non-key messages (cursor blink etc.)
	if m.modal != nil {
		var cmd tea.Cmd
		var closed bool
		m.modal, cmd, closed = m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		}
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle help overlay
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	// Modals own the keyboard while open
	if m.modal != nil {
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		var closed bool
		m.modal, cmd, closed = m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.updateDetailViewport()
		return m, nil

	case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.ShiftTab):
		m.focusedPane = 1 - m.focusedPane
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		switch {
		case m.lookup != nil:
			m.lookup = nil
			m.updateDetailViewport()
		case m.focusedPane == 1:
			m.focusedPane = 0
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.fetcher == nil {
			return m, nil
		}
		m.setFlash("Refetching...", false)
		return m, refreshCmd(m.ctx, m.fetcher, true)

	case key.Matches(msg, m.keys.PrevPage):
		m.paging = m.paging.Prev()
		m.selectedRow = 0
		m.rebuild()
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		m.paging = m.paging.Next()
		m.selectedRow = 0
		m.rebuild()
		return m, nil

	case key.Matches(msg, m.keys.SizeUp), key.Matches(msg, m.keys.SizeDown):
		step := 1
		if key.Matches(msg, m.keys.SizeDown) {
			step = -1
		}
		m.paging = m.paging.SetSize(paging.NextSize(m.paging.Size, step))
		m.selectedRow = 0
		m.savePrefs()
		m.rebuild()
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.modal = newSearchModal(m.criteria.Search)
		return m, nil

	case key.Matches(msg, m.keys.Filters):
		m.modal = newFilterModal(m.criteria, m.view.Categories, m.view.PriceRange, m.view.HasPriceRange)
		return m, nil

	case key.Matches(msg, m.keys.ClearFilters):
		if m.criteria.IsZero() && !m.session.ShowOnlyFavorites() {
			return m, nil
		}
		m.session.SetShowOnlyFavorites(false)
		m.applyCriteria(m.criteria.Clear())
		m.setFlash("Filters cleared", false)
		return m, nil

	case key.Matches(msg, m.keys.FavoritesOnly):
		m.session.ToggleShowOnlyFavorites()
		m.paging = m.paging.SetPage(1)
		m.selectedRow = 0
		m.rebuild()
		return m, nil

	case key.Matches(msg, m.keys.Lookup):
		m.modal = newLookupModal()
		return m, nil

	case key.Matches(msg, m.keys.Logs):
		modal := newLogModal(m.logPath, m.width, m.height)
		m.modal = modal
		return m, modal.load()

	case key.Matches(msg, m.keys.New):
		m.modal = newFormModal("", catalog.Product{})
		return m, nil

	case key.Matches(msg, m.keys.Reset):
		o := m.session.Overlay()
		m.modal = newConfirmModal(
			"Reset local data",
			resetPrompt(o.Len(), o.RemovedCount()),
			resetLocalMsg{},
		)
		return m, nil
	}

	if m.focusedPane == 1 {
		return m.handleDetailKey(msg)
	}
	return m.handleTableKey(msg)
}

// handleTableKey processes keys that act on the selected row.
func (m Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.view.Items
	itemCount := len(items)
	if itemCount == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < itemCount-1 {
			m.selectedRow++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = itemCount - 1

	case key.Matches(msg, m.keys.Favorite):
		p := items[m.selectedRow]
		m.session.ToggleFavorite(p.ID)
		m.rebuild()
		return m, nil

	case key.Matches(msg, m.keys.Edit), key.Matches(msg, m.keys.Confirm):
		p := items[m.selectedRow]
		m.modal = newFormModal(p.ID, p)
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		p := items[m.selectedRow]
		m.modal = newConfirmModal(
			"Remove product",
			"Hide \""+truncate(p.Title, 60)+"\" from this machine? Reset local data brings it back.",
			removeProductMsg{id: p.ID, title: p.Title},
		)
		return m, nil

	default:
		return m, nil
	}

	m.lookup = nil
	m.updateDetailViewport()
	return m, nil
}

// handleDetailKey scrolls the detail pane.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		m.detailViewport.LineDown(1)
	case key.Matches(msg, m.keys.Up):
		m.detailViewport.LineUp(1)
	case key.Matches(msg, m.keys.Top):
		m.detailViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.detailViewport.GotoBottom()
	default:
		// Row actions still apply to the selection.
		return m.handleTableKey(msg)
	}
	return m, nil
}

// rebuild recomputes the visible page from the snapshot and local state and
// keeps the stored page inside the current page count.
func (m *Model) rebuild() {
	var selectedID catalog.ID
	if p := m.selectedProduct(); p != nil {
		selectedID = p.ID
	}

	in := pipeline.Input{
		Remote:            m.snapshot.Products,
		Present:           m.snapshot.Present,
		Loading:           m.snapshot.Loading,
		Err:               m.snapshot.LastError,
		Overlay:           m.session.Overlay(),
		Favorites:         m.session.Favorites(),
		ShowOnlyFavorites: m.session.ShowOnlyFavorites(),
		Criteria:          m.criteria,
		Page:              m.paging.Page,
		PageSize:          m.paging.Size,
	}
	m.view = pipeline.Build(in)

	if m.view.Merged > 0 {
		m.seenData = true
	}
	m.paging = m.paging.Observe(m.view.TotalPages, m.seenData)

	m.pager.PerPage = m.paging.Size
	m.pager.SetTotalPages(m.view.Filtered)
	m.pager.Page = m.view.Page.Page - 1

	m.restoreSelection(selectedID)
	m.updateDetailViewport()
}

// restoreSelection keeps the cursor on the same product when it is still on
// the page, otherwise clamps it.
func (m *Model) restoreSelection(id catalog.ID) {
	items := m.view.Items
	if len(items) == 0 {
		m.selectedRow = 0
		return
	}
	if id != "" {
		for i, p := range items {
			if p.ID == id {
				m.selectedRow = i
				return
			}
		}
	}
	if m.selectedRow >= len(items) {
		m.selectedRow = len(items) - 1
	}
	if m.selectedRow < 0 {
		m.selectedRow = 0
	}
}

func (m Model) selectedProduct() *catalog.Product {
	if m.selectedRow < 0 || m.selectedRow >= len(m.view.Items) {
		return nil
	}
	p := m.view.Items[m.selectedRow]
	return &p
}

// applyCriteria replaces the filter criteria and returns to the first page.
func (m *Model) applyCriteria(c filter.Criteria) {
	m.criteria = c
	m.paging = m.paging.SetPage(1)
	m.selectedRow = 0
	m.rebuild()
}

func (m *Model) saveProduct(msg saveProductMsg) {
	id := m.session.Upsert(msg.id, msg.product)
	if msg.id == "" {
		m.log.Infow("product created locally", "id", id, "title", msg.product.Title)
		m.setFlash("Created "+truncate(msg.product.Title, 40), false)
	} else {
		m.log.Infow("product edited locally", "id", id)
		m.setFlash("Saved "+truncate(msg.product.Title, 40), false)
	}
	m.rebuild()
	m.selectByID(id)
}

// selectByID moves to the page containing id, if it is visible at all.
func (m *Model) selectByID(id catalog.ID) {
	in := pipeline.Input{
		Remote:            m.snapshot.Products,
		Present:           m.snapshot.Present,
		Overlay:           m.session.Overlay(),
		Favorites:         m.session.Favorites(),
		ShowOnlyFavorites: m.session.ShowOnlyFavorites(),
		Criteria:          m.criteria,
		Page:              1,
		PageSize:          m.view.Filtered + 1,
	}
	all := pipeline.Build(in).Items
	for i, p := range all {
		if p.ID == id {
			m.paging = m.paging.SetPage(i/m.paging.Size + 1)
			m.selectedRow = i % m.paging.Size
			m.rebuild()
			m.selectedRow = i % m.paging.Size
			m.updateDetailViewport()
			return
		}
	}
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, PageSize: m.paging.Size}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.log.Warnw("save prefs failed", "path", m.prefsPath, "error", err)
	}
}

func (m *Model) setFlash(text string, isError bool) {
	m.flash = text
	m.flashError = isError
	m.flashUntil = time.Now().Add(FlashDuration)
}

func (m Model) activeFlash() (string, bool) {
	if m.flash == "" || time.Now().After(m.flashUntil) {
		return "", false
	}
	return m.flash, m.flashError
}

func resetPrompt(entries, removed int) string {
	var b strings.Builder
	b.WriteString("Discard all local edits, local products and removals?")
	if entries > 0 || removed > 0 {
		b.WriteString("\n\n")
		b.WriteString(pluralize(entries, "edited or created product"))
		b.WriteString(", ")
		b.WriteString(pluralize(removed, "removed product"))
		b.WriteString(".")
	}
	b.WriteString("\nFavorites are kept.")
	return b.String()
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type refreshDoneMsg struct {
	err    error
	manual bool
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// refreshCmd runs a list fetch. manual requests bypass the response cache.
func refreshCmd(ctx context.Context, f Fetcher, manual bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, FetchTimeout)
		defer cancel()
		var err error
		if manual {
			err = f.Invalidate(ctx)
		} else {
			err = f.Refresh(ctx)
		}
		return refreshDoneMsg{err: err, manual: manual}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
