package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/logtail"
)

// logTailLines bounds how much of the log the activity view reads.
const logTailLines = 300

type logLoadedMsg struct {
	entries []logtail.Entry
	err     error
}

// logModal shows the most recent entries of shelf's own log file.
type logModal struct {
	path     string
	viewport viewport.Model
	entries  []logtail.Entry
	err      error
	loaded   bool
}

func newLogModal(path string, width, height int) *logModal {
	vp := viewport.New(max(width-12, 20), max(height-12, 5))
	return &logModal{path: path, viewport: vp}
}

func (l *logModal) load() tea.Cmd {
	path := l.path
	return func() tea.Msg {
		if path == "" {
			return logLoadedMsg{}
		}
		entries, err := logtail.Tail(path, logTailLines)
		return logLoadedMsg{entries: entries, err: err}
	}
}

func (l *logModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case logLoadedMsg:
		l.entries = msg.entries
		l.err = msg.err
		l.loaded = true
		l.viewport.GotoBottom()
		return l, nil, false

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Escape), key.Matches(msg, keys.Logs), key.Matches(msg, keys.Quit):
			return l, nil, true
		case key.Matches(msg, keys.Refresh):
			return l, l.load(), false
		case key.Matches(msg, keys.Down):
			l.viewport.LineDown(1)
		case key.Matches(msg, keys.Up):
			l.viewport.LineUp(1)
		case key.Matches(msg, keys.Top):
			l.viewport.GotoTop()
		case key.Matches(msg, keys.Bottom):
			l.viewport.GotoBottom()
		case key.Matches(msg, keys.NextPage):
			l.viewport.ViewDown()
		case key.Matches(msg, keys.PrevPage):
			l.viewport.ViewUp()
		}
	}
	return l, nil, false
}

func (l *logModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	l.viewport.Width = max(width-12, 20)
	l.viewport.Height = max(height-12, 5)

	var body string
	switch {
	case !l.loaded:
		body = styles.MutedText.Render("Reading log...")
	case l.err != nil:
		body = styles.DangerText.Render(l.err.Error())
	case len(l.entries) == 0:
		body = styles.MutedText.Render("Nothing logged yet")
	default:
		lines := make([]string, 0, len(l.entries))
		for _, e := range l.entries {
			lines = append(lines, logLevelStyle(styles, e.Level).Render(truncate(e.Format(), l.viewport.Width)))
		}
		body = strings.Join(lines, "\n")
	}
	atBottom := l.viewport.AtBottom()
	l.viewport.SetContent(body)
	if atBottom {
		l.viewport.GotoBottom()
	}

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("Activity log"))
	b.WriteString("  ")
	b.WriteString(styles.FaintText.Render(truncateMiddle(l.path, max(l.viewport.Width-16, 10))))
	b.WriteString("\n\n")
	b.WriteString(l.viewport.View())
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("j/k scroll · r reload · esc close"))
	return placeModalBox(theme, width, height, b.String(), width-4)
}

func logLevelStyle(styles Styles, level string) lipgloss.Style {
	switch strings.ToLower(level) {
	case "error", "dpanic", "panic", "fatal":
		return styles.DangerText
	case "warn":
		return styles.WarningText
	case "debug":
		return styles.FaintText
	default:
		return styles.Text
	}
}
