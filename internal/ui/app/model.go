package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	browsedto "jellyterm/internal/modules/browse/dto"
	histdto "jellyterm/internal/modules/history/dto"
	playbackdto "jellyterm/internal/modules/playback/dto"
	"jellyterm/internal/ui/components"
	"jellyterm/internal/ui/theme"
	browseview "jellyterm/internal/ui/views/browse"
	historyview "jellyterm/internal/ui/views/history"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type browsePort interface {
	Start(ctx context.Context) (browsedto.NodeOutput, error)
	MoveSelection(delta int) browsedto.NodeOutput
	Open(ctx context.Context) (browsedto.OpenOutput, error)
	Back() (browsedto.NodeOutput, error)
	Refresh(ctx context.Context) (browsedto.NodeOutput, error)
	Search(ctx context.Context, query string) (browsedto.NodeOutput, error)
	ToggleWatched(ctx context.Context) (browsedto.NodeOutput, error)
}

type playbackPort interface {
	Play(ctx context.Context, itemID string) error
	Stop(ctx context.Context) error
	Status() playbackdto.StatusOutput
}

type historyPort interface {
	Recent(ctx context.Context, limit int) ([]histdto.EntryOutput, error)
	Clear(ctx context.Context) error
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabBrowse tabID = iota
	tabHistory
	tabCount
)

var tabLabels = [tabCount]string{"Browse", "History"}

// ─── async messages ───────────────────────────────────────────────────────────

type playStartedMsg struct {
	title string
	err   error
}

type playStoppedMsg struct{ err error }

type statusTickMsg struct{}

type noticeMsg struct{ text string }

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Search  key.Binding
	Quit    key.Binding
	Enter   key.Binding
	Up      key.Binding
	Watched key.Binding
	Refresh key.Binding
	StopPb  key.Binding
	ClearHi key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Search:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "search server")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open / play")),
		Up:      key.NewBinding(key.WithKeys("backspace"), key.WithHelp("bksp", "back up")),
		Watched: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "toggle watched")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		StopPb:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop playback")),
		ClearHi: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear history")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Search, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Enter, k.Up, k.Watched},
		{k.Search, k.Refresh, k.StopPb},
		{k.Tab, k.ClearHi, k.Help, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the now-playing
// status bar, the help overlay, and the search overlay. Business logic lives
// behind the port interfaces; rendering is delegated to sub-views.
type Model struct {
	playback playbackPort
	history  historyPort

	browseView browseview.Model
	histView   historyview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	search    components.SearchBar
	notices   <-chan string

	nowPlaying playbackdto.StatusOutput
	wasActive  bool
	status     string
	width      int
	height     int
}

// NewModel wires the root model. The notices channel carries advisories from
// the playback controller; pass nil to disable them.
func NewModel(browse browsePort, pb playbackPort, history historyPort, notices <-chan string) Model {
	return Model{
		playback:   pb,
		history:    history,
		browseView: browseview.New(browse),
		histView:   historyview.New(history),
		activeTab:  tabBrowse,
		keys:       defaultKeys(),
		help:       help.New(),
		search:     components.NewSearchBar(),
		notices:    notices,
		status:     "ready",
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.browseView.Init(),
		m.histView.Init(),
		statusTickCmd(),
	}
	if m.notices != nil {
		cmds = append(cmds, waitNoticeCmd(m.notices))
	}
	return tea.Batch(cmds...)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The search overlay intercepts all input while open.
	if m.search.Visible() {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.search.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()

	case browseview.PlayMsg:
		m.status = "starting " + msg.Title
		cmds = append(cmds, m.playCmd(msg.ItemID, msg.Title))

	case playStartedMsg:
		if msg.err != nil {
			m.status = "play failed: " + msg.err.Error()
		} else {
			m.status = "playing " + msg.title
		}

	case playStoppedMsg:
		if msg.err != nil {
			m.status = "stop failed: " + msg.err.Error()
		} else {
			m.status = "playback stopped"
		}

	case statusTickMsg:
		prev := m.nowPlaying
		m.nowPlaying = m.playback.Status()
		cmds = append(cmds, statusTickCmd())
		// A session that just ended has refreshed the navigator behind our
		// back; pull the new node and the new history row into view.
		if m.wasActive && !m.nowPlaying.Active {
			cmds = append(cmds, m.browseView.Refresh(), m.histView.Reload())
			if m.status == "playing "+prev.Title {
				m.status = "ready"
			}
		}
		m.wasActive = m.nowPlaying.Active

	case noticeMsg:
		m.status = msg.text
		cmds = append(cmds, waitNoticeCmd(m.notices))

	case components.SearchSubmitMsg:
		if msg.Query != "" {
			m.activeTab = tabBrowse
			m.status = "searching: " + msg.Query
			cmds = append(cmds, m.browseView.Search(msg.Query))
		}

	case components.SearchCancelMsg:
		m.status = "ready"

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to sub-view when its local filter is active.
		if m.subViewFiltering() {
			break
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.activeTab = (m.activeTab + 1) % tabCount
			if m.activeTab == tabHistory {
				cmds = append(cmds, m.histView.Reload())
			}
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
		case key.Matches(msg, m.keys.Search):
			cmds = append(cmds, m.search.Open())
			return m, tea.Batch(cmds...)
		case key.Matches(msg, m.keys.StopPb):
			if m.nowPlaying.Active {
				cmds = append(cmds, m.stopCmd())
			}
		case key.Matches(msg, m.keys.Enter):
			switch m.activeTab {
			case tabBrowse:
				cmds = append(cmds, m.browseView.Open())
			case tabHistory:
				if id, ok := m.histView.SelectedItemID(); ok {
					cmds = append(cmds, m.playCmd(id, "from history"))
				}
			}
		case key.Matches(msg, m.keys.Up):
			if m.activeTab == tabBrowse {
				cmds = append(cmds, m.browseView.Back())
			}
		case key.Matches(msg, m.keys.Watched):
			if m.activeTab == tabBrowse {
				cmds = append(cmds, m.browseView.ToggleWatched())
			}
		case key.Matches(msg, m.keys.Refresh):
			if m.activeTab == tabBrowse {
				cmds = append(cmds, m.browseView.Refresh())
			}
		case key.Matches(msg, m.keys.ClearHi):
			if m.activeTab == tabHistory {
				cmds = append(cmds, m.histView.Clear())
			}
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabBrowse:
		m.browseView, tabCmd = m.browseView.Update(msg)
	case tabHistory:
		m.histView, tabCmd = m.histView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.search.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.search.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabBrowse:
		return m.browseView.View()
	case tabHistory:
		return m.histView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Playing.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "jellyterm  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.nowPlaying.Active {
		left = theme.Playing.Render(nowPlayingLine(m.nowPlaying)) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  s:search  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

func nowPlayingLine(s playbackdto.StatusOutput) string {
	marker := "▶"
	if s.Paused {
		marker = "⏸"
	}
	if s.RuntimeSecs > 0 {
		return fmt.Sprintf("%s %s %s / %s", marker, s.Title,
			clockFormat(s.PositionSecs), clockFormat(s.RuntimeSecs))
	}
	return fmt.Sprintf("%s %s %s", marker, s.Title, clockFormat(s.PositionSecs))
}

func clockFormat(secs float64) string {
	d := time.Duration(secs * float64(time.Second)).Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	tabBarH := 2
	statusBarH := 2
	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}
	size := tea.WindowSizeMsg{Width: m.width, Height: contentH}
	m.browseView, _ = m.browseView.Update(size)
	m.histView, _ = m.histView.Update(size)
}

func (m Model) subViewFiltering() bool {
	switch m.activeTab {
	case tabBrowse:
		return m.browseView.Filtering()
	case tabHistory:
		return m.histView.Filtering()
	}
	return false
}

func (m Model) playCmd(itemID, title string) tea.Cmd {
	return func() tea.Msg {
		err := m.playback.Play(context.Background(), itemID)
		return playStartedMsg{title: title, err: err}
	}
}

func (m Model) stopCmd() tea.Cmd {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	return func() tea.Msg {
		defer cancel()
		return playStoppedMsg{err: m.playback.Stop(ctx)}
	}
}

func statusTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return statusTickMsg{} })
}

func waitNoticeCmd(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		text, ok := <-ch
		if !ok {
			return nil
		}
		return noticeMsg{text: text}
	}
}
