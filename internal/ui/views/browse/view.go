package browse

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	browsedto "jellyterm/internal/modules/browse/dto"
	apperrors "jellyterm/internal/platform/errors"
	"jellyterm/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type BrowsePort interface {
	Start(ctx context.Context) (browsedto.NodeOutput, error)
	MoveSelection(delta int) browsedto.NodeOutput
	Open(ctx context.Context) (browsedto.OpenOutput, error)
	Back() (browsedto.NodeOutput, error)
	Refresh(ctx context.Context) (browsedto.NodeOutput, error)
	Search(ctx context.Context, query string) (browsedto.NodeOutput, error)
	ToggleWatched(ctx context.Context) (browsedto.NodeOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type NodeLoadedMsg struct {
	Node browsedto.NodeOutput
	Err  error
}

// PlayMsg bubbles up to the app model, which owns playback.
type PlayMsg struct {
	ItemID string
	Title  string
}

// ─── list item ───────────────────────────────────────────────────────────────

type entryItem struct {
	entry   browsedto.EntryOutput
	section string
}

func (i entryItem) Title() string {
	if i.entry.Watched || i.entry.Finished {
		return theme.Watched.Render("✓ ") + i.entry.Label
	}
	return "  " + i.entry.Label
}

func (i entryItem) Description() string {
	if i.section != "" {
		return i.section
	}
	return i.entry.Kind
}

func (i entryItem) FilterValue() string { return i.entry.Title }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    BrowsePort
	list    list.Model
	node    browsedto.NodeOutput
	detail  viewport.Model
	spinner spinner.Model
	loading bool
	width   int
	height  int
}

func New(port BrowsePort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Home"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		list:    l,
		detail:  vp,
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.startCmd(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case NodeLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = m.node.Title + " — " + msg.Err.Error()
			return m, nil
		}
		m.setNode(msg.Node)
		cmds = append(cmds, m.list.SetItems(m.nodeItems()))
		m.list.Select(msg.Node.Selected)
		m.detail.SetContent(m.renderDetail())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		// The navigator owns the authoritative cursor; keep it in lockstep
		// with the list so open and toggle act on what the user sees. While
		// the filter is active the visible indices diverge, so alignment
		// happens by entry id when an operation fires instead.
		if delta := m.list.Index() - prevIdx; delta != 0 && m.list.FilterState() == list.Unfiltered {
			m.node = m.port.MoveSelection(delta)
			m.detail.SetContent(m.renderDetail())
		}

		var vCmd tea.Cmd
		m.detail, vCmd = m.detail.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading…")
	}

	listW := m.width * 6 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.detail.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// Filtering reports whether the list's local filter is active. The app model
// checks this to avoid consuming navigation keys while the user types.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// Selected returns the current selection, if any.
func (m Model) Selected() (browsedto.EntryOutput, bool) {
	if item, ok := m.list.SelectedItem().(entryItem); ok {
		return item.entry, true
	}
	return browsedto.EntryOutput{}, false
}

// ─── operations ──────────────────────────────────────────────────────────────
// Each returns a command; the app model invokes these on key presses.

func (m Model) Open() tea.Cmd {
	align := m.alignCursor()
	return func() tea.Msg {
		align()
		out, err := m.port.Open(context.Background())
		if err != nil {
			return NodeLoadedMsg{Node: m.node, Err: err}
		}
		if out.Play != nil {
			return PlayMsg{ItemID: out.Play.ItemID, Title: out.Play.Title}
		}
		return NodeLoadedMsg{Node: out.Node}
	}
}

func (m Model) Back() tea.Cmd {
	return func() tea.Msg {
		node, err := m.port.Back()
		if err != nil {
			if errors.Is(err, apperrors.ErrAtRoot) {
				return NodeLoadedMsg{Node: node}
			}
			return NodeLoadedMsg{Node: m.node, Err: err}
		}
		// Re-fetch the revealed node so watched flags and resume positions
		// are fresh after whatever happened below it.
		refreshed, err := m.port.Refresh(context.Background())
		if err != nil {
			return NodeLoadedMsg{Node: node}
		}
		return NodeLoadedMsg{Node: refreshed}
	}
}

func (m Model) Refresh() tea.Cmd {
	return func() tea.Msg {
		node, err := m.port.Refresh(context.Background())
		return NodeLoadedMsg{Node: node, Err: err}
	}
}

func (m Model) Search(query string) tea.Cmd {
	return func() tea.Msg {
		node, err := m.port.Search(context.Background(), query)
		return NodeLoadedMsg{Node: node, Err: err}
	}
}

func (m Model) ToggleWatched() tea.Cmd {
	align := m.alignCursor()
	return func() tea.Msg {
		align()
		node, err := m.port.ToggleWatched(context.Background())
		return NodeLoadedMsg{Node: node, Err: err}
	}
}

// ─── private ─────────────────────────────────────────────────────────────────

// alignCursor returns a closure that points the navigator at whichever entry
// the list highlights, filtered or not.
func (m Model) alignCursor() func() {
	entry, ok := m.Selected()
	if !ok {
		return func() {}
	}
	node := m.node
	return func() {
		for i, e := range node.Entries {
			if e.ID == entry.ID {
				if i != node.Selected {
					m.port.MoveSelection(i - node.Selected)
				}
				return
			}
		}
	}
}

func (m *Model) setNode(node browsedto.NodeOutput) {
	m.node = node
	m.list.Title = node.Title
}

func (m Model) nodeItems() []list.Item {
	items := make([]list.Item, len(m.node.Entries))
	for i, e := range m.node.Entries {
		items[i] = entryItem{entry: e, section: sectionAt(m.node.Sections, i)}
	}
	return items
}

func sectionAt(sections []browsedto.SectionOutput, idx int) string {
	name := ""
	for _, s := range sections {
		if s.Start > idx {
			break
		}
		name = s.Title
	}
	return name
}

func (m *Model) resize() {
	listW := m.width * 6 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.detail.Width = detailW - 4
	m.detail.Height = m.height - 4
}

func (m Model) renderDetail() string {
	entry, ok := m.selectedEntry()
	if !ok {
		return theme.Muted.Render("Nothing here")
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(entry.Title) + "\n\n")
	sb.WriteString(theme.Muted.Render("kind:    ") + entry.Kind + "\n")
	if section := sectionAt(m.node.Sections, m.node.Selected); section != "" {
		sb.WriteString(theme.Muted.Render("section: ") + section + "\n")
	}
	if entry.Watched {
		sb.WriteString(theme.Muted.Render("status:  ") + theme.Watched.Render("watched") + "\n")
	} else if entry.Finished {
		sb.WriteString(theme.Muted.Render("status:  ") + theme.Watched.Render("finished") + "\n")
	}
	sb.WriteString(fmt.Sprintf("\n%s\n", theme.Muted.Render(keyHints(entry.Kind))))
	return sb.String()
}

func (m Model) selectedEntry() (browsedto.EntryOutput, bool) {
	if m.node.Selected < 0 || m.node.Selected >= len(m.node.Entries) {
		return browsedto.EntryOutput{}, false
	}
	return m.node.Entries[m.node.Selected], true
}

func keyHints(kind string) string {
	switch kind {
	case "movie", "episode":
		return "enter: play  w: toggle watched  backspace: up"
	default:
		return "enter: open  backspace: up"
	}
}

// ─── commands ────────────────────────────────────────────────────────────────

func (m Model) startCmd() tea.Cmd {
	return func() tea.Msg {
		node, err := m.port.Start(context.Background())
		return NodeLoadedMsg{Node: node, Err: err}
	}
}
