// Package tui renders the news view in a terminal with Bubble Tea
package tui

import (
	"fmt"
	"strings"

	"live-news/pkg/domain"
	"live-news/pkg/view"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Title is the heading of the screen
const Title = "📰 AI News Summarizer"

const (
	defaultWidth = 80
	maxCardWidth = 100
)

// Controller is the synchronizer surface driven by the UI
type Controller interface {
	Categories() []domain.Category
	Start() error
	Select(category domain.Category) error
	Refresh() error
	State() view.State
	Close()
}

// Notifier turns synchronizer change callbacks into Bubble Tea messages.
// Pass Notify to view.WithOnChange.
type Notifier struct {
	ch chan struct{}
}

// NewNotifier creates a notifier
func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan struct{}, 1)}
}

// Notify never blocks; pending changes coalesce into one message
func (n *Notifier) Notify(view.State) {
	select {
	case n.ch <- struct{}{}:
	default:
	}
}

func (n *Notifier) wait() tea.Cmd {
	return func() tea.Msg {
		<-n.ch
		return notifiedMsg{}
	}
}

// changedMsg reports a state change outside the notifier
type changedMsg struct{}

// notifiedMsg comes from the notifier, which must be waited on again
type notifiedMsg struct{}

type startErrMsg struct {
	err error
}

// Model is the Bubble Tea model of the news screen
type Model struct {
	ctl        Controller
	notifier   *Notifier
	categories []domain.Category

	state  view.State
	offset int
	width  int
	height int
	err    error
}

// New creates the model. notifier may be nil when no change callback is wired.
func New(ctl Controller, notifier *Notifier) Model {
	return Model{
		ctl:        ctl,
		notifier:   notifier,
		categories: ctl.Categories(),
		state:      ctl.State(),
		width:      defaultWidth,
	}
}

// Init starts the synchronizer
func (m Model) Init() tea.Cmd {
	ctl := m.ctl
	start := func() tea.Msg {
		if err := ctl.Start(); err != nil {
			return startErrMsg{err: err}
		}
		return changedMsg{}
	}
	if m.notifier == nil {
		return start
	}
	return tea.Batch(start, m.notifier.wait())
}

// Update handles keys, resizes and synchronizer changes
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changedMsg:
		m.state = m.ctl.State()
		m.clampOffset()
		return m, nil

	case notifiedMsg:
		m.state = m.ctl.State()
		m.clampOffset()
		if m.notifier != nil {
			return m, m.notifier.wait()
		}
		return m, nil

	case startErrMsg:
		m.err = msg.err
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q", "ctrl+c", "esc":
		m.ctl.Close()
		return m, tea.Quit

	case "right", "l", "tab":
		m.selectIndex(m.currentIndex() + 1)

	case "left", "h", "shift+tab":
		m.selectIndex(m.currentIndex() - 1)

	case "r":
		if err := m.ctl.Refresh(); err != nil {
			m.err = err
		}
		m.state = m.ctl.State()

	case "down", "j":
		m.offset++
		m.clampOffset()

	case "up", "k":
		m.offset--
		m.clampOffset()

	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(m.categories) {
				m.selectIndex(i)
			}
		}
	}
	return m, nil
}

func (m Model) currentIndex() int {
	for i, c := range m.categories {
		if c == m.state.Category {
			return i
		}
	}
	return 0
}

// selectIndex wraps around the category row
func (m *Model) selectIndex(i int) {
	n := len(m.categories)
	if n == 0 {
		return
	}
	i = ((i % n) + n) % n

	if err := m.ctl.Select(m.categories[i]); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.offset = 0
	m.state = m.ctl.State()
}

func (m *Model) clampOffset() {
	if last := len(m.state.Articles) - 1; m.offset > last {
		m.offset = last
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// View renders the screen
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(Title))
	b.WriteString("\n")
	b.WriteString(m.renderButtons())
	b.WriteString("\n")

	if status := m.renderStatus(); status != "" {
		b.WriteString(status)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.renderArticles())
	b.WriteString(helpStyle.Render("←/→ category • 1-9 jump • ↑/↓ scroll • r refresh • q quit"))

	return m.fit(b.String())
}

func (m Model) renderButtons() string {
	buttons := make([]string, 0, len(m.categories))
	for _, c := range m.categories {
		style := buttonStyle
		if c == m.state.Category {
			style = selectedButtonStyle
		}
		buttons = append(buttons, style.Render(c.Label()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
}

func (m Model) renderStatus() string {
	var lines []string
	if m.state.Loading {
		lines = append(lines, statusStyle.Render(fmt.Sprintf("Loading %s news…", m.state.Category)))
	}
	if m.state.Err != nil {
		lines = append(lines, errorStyle.Render("Error: "+m.state.Err.Error()))
	}
	if m.err != nil {
		lines = append(lines, errorStyle.Render("Error: "+m.err.Error()))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderArticles() string {
	if len(m.state.Articles) == 0 {
		if m.state.Loaded {
			return statusStyle.Render("No articles yet.") + "\n\n"
		}
		return ""
	}

	width := m.width - 2
	if width > maxCardWidth {
		width = maxCardWidth
	}

	var b strings.Builder
	for _, article := range m.state.Articles[m.offset:] {
		b.WriteString(renderCard(article, width))
		b.WriteString("\n")
	}
	return b.String()
}

func renderCard(article domain.Article, width int) string {
	lines := []string{cardTitleStyle.Render(article.Title)}
	if article.HasImage() {
		lines = append(lines, imageStyle.Render("🖼  "+article.Image))
	}
	if article.Summary != "" {
		lines = append(lines, article.Summary)
	}
	if article.URL != "" {
		lines = append(lines, linkStyle.Render("🔗 Read Full Article")+" "+article.URL)
	}

	style := cardStyle
	if width > 4 {
		style = style.Width(width)
	}
	return style.Render(strings.Join(lines, "\n"))
}

// fit drops lines past the terminal height, keeping the help line
func (m Model) fit(s string) string {
	if m.height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= m.height {
		return s
	}
	help := lines[len(lines)-1]
	lines = append(lines[:m.height-1], help)
	return strings.Join(lines, "\n")
}
