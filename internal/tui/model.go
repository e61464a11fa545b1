// Package tui renders the portfolio as a Bubble Tea program.
//
// The root Model owns a viewctl.Controller and a scrolling document. Key,
// mouse and resize messages become controller events; state changes driven
// by the controller's timers arrive back as stateMsg.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/manas300/portfolio/internal/content"
	"github.com/manas300/portfolio/internal/logging"
	"github.com/manas300/portfolio/internal/viewctl"
)

const (
	headerHeight = 2
	footerHeight = 1
)

type stateMsg viewctl.State

// Model is the root Bubble Tea model.
type Model struct {
	site *content.Site
	ctrl *viewctl.Controller
	doc  *document

	states <-chan viewctl.State

	width    int
	height   int
	ready    bool
	quitting bool
}

// New builds the model. opts.Sections and opts.RoleCount are taken from
// site; sched may be nil for wall-clock timers.
func New(site *content.Site, opts viewctl.Options, sched viewctl.Scheduler, lineUnit float64) (Model, error) {
	if lineUnit <= 0 {
		lineUnit = 1
	}
	opts.Sections = site.SectionIDs()
	opts.RoleCount = len(site.Roles)

	doc := newDocument(lineUnit)
	ctrl, err := viewctl.New(opts, doc, sched)
	if err != nil {
		return Model{}, fmt.Errorf("view controller: %w", err)
	}
	states, unsubscribe := ctrl.Subscribe()
	ctrl.Bind(unsubscribe)

	return Model{
		site:   site,
		ctrl:   ctrl,
		doc:    doc,
		states: states,
	}, nil
}

// Controller exposes the view controller, mainly for teardown by callers.
func (m Model) Controller() *viewctl.Controller {
	return m.ctrl
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	m.ctrl.Initialize()
	return m.listenForState()
}

func (m Model) listenForState() tea.Cmd {
	ch := m.states
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return stateMsg(s)
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		m.ctrl.OnScroll()

	case stateMsg:
		return m, m.listenForState()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			m.ctrl.Teardown()
			logging.Debug("TUI closed")
			return m, tea.Quit
		case key.Matches(msg, keys.Top):
			m.ctrl.ScrollToTop()
			m.ctrl.OnScroll()
		case key.Matches(msg, keys.Section):
			m.navigate(int(msg.Runes[0]-'1'))
		default:
			m.scrollWith(msg)
		}

	case tea.MouseMsg:
		m.ctrl.OnPointerMove(float64(msg.X), float64(msg.Y))
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && msg.Y == 0 {
			if i, ok := m.navAt(msg.X); ok {
				m.navigate(i)
			}
			break
		}
		m.scrollWith(msg)
	}
	return m, nil
}

// scrollWith forwards msg to the viewport and reports a scroll event when
// the offset moved.
func (m *Model) scrollWith(msg tea.Msg) {
	before := m.doc.vp.YOffset
	m.doc.vp, _ = m.doc.vp.Update(msg)
	if m.doc.vp.YOffset != before {
		m.ctrl.OnScroll()
	}
}

func (m *Model) navigate(i int) {
	if i < 0 || i >= len(m.site.Sections) {
		return
	}
	m.ctrl.NavigateToSection(m.site.Sections[i].ID)
	m.ctrl.OnScroll()
}

// layout re-renders the body for the current size and keeps the offset.
func (m *Model) layout() {
	bodyHeight := max(1, m.height-headerHeight-footerHeight)
	width := max(20, m.width-2)

	body, anchors := renderBody(m.site, width, bodyHeight, newMarkdown(width))
	m.doc.anchors = anchors
	m.doc.vp.Width = m.width
	m.doc.vp.Height = bodyHeight
	m.doc.vp.SetContent(body)
}

type navHit struct {
	from, to int // columns, to exclusive
	label    string
}

func (m Model) navLayout() []navHit {
	hits := make([]navHit, 0, len(m.site.Sections))
	x := 1
	for i, sec := range m.site.Sections {
		label := fmt.Sprintf(" %d %s ", i+1, sec.Label)
		w := lipgloss.Width(label)
		hits = append(hits, navHit{from: x, to: x + w, label: label})
		x += w + 1
	}
	return hits
}

func (m Model) navAt(x int) (int, bool) {
	for i, h := range m.navLayout() {
		if x >= h.from && x < h.to {
			return i, true
		}
	}
	return 0, false
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting || !m.ready {
		return ""
	}
	s := m.ctrl.State()
	if s.LoadingVisible() {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			splashName.Render(strings.ToUpper(m.site.Profile.Name)))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderNav(s),
		roleLine.Render(m.site.Roles[s.RoleIndex%len(m.site.Roles)].Title),
		m.doc.vp.View(),
		m.renderFooter(s),
	)
}

func (m Model) renderNav(s viewctl.State) string {
	var b strings.Builder
	b.WriteString(" ")
	for i, h := range m.navLayout() {
		if i > 0 {
			b.WriteString(" ")
		}
		hovered := int(s.Cursor.Y) == 0 && int(s.Cursor.X) >= h.from && int(s.Cursor.X) < h.to
		switch {
		case m.site.Sections[i].ID == s.ActiveSection:
			b.WriteString(navActive.Render(h.label))
		case hovered:
			b.WriteString(navHover.Render(h.label))
		default:
			b.WriteString(navItem.Render(h.label))
		}
	}
	return b.String()
}

func (m Model) renderFooter(s viewctl.State) string {
	help := fmt.Sprintf("1-%d jump · t top · q quit", len(m.site.Sections))
	parts := []string{statusBar.Render(help)}
	if s.ScrollTopVisible {
		parts = append(parts, topHint.Render(" ↑ back to top (t) "))
	}
	parts = append(parts, cursorMark.Render(fmt.Sprintf(" ◎ %d,%d", int(s.Cursor.X), int(s.Cursor.Y))))
	parts = append(parts, statusBar.Render(fmt.Sprintf("%3.f%%", m.doc.vp.ScrollPercent()*100)))
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// Run starts the program on the alternate screen with mouse motion events
// and tears the controller down on exit.
func Run(m Model) error {
	defer m.ctrl.Teardown()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}
