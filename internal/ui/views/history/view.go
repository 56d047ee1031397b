package history

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	histdto "jellyterm/internal/modules/history/dto"
	"jellyterm/internal/ui/theme"
)

const recentLimit = 100

// ─── port ────────────────────────────────────────────────────────────────────

type HistoryPort interface {
	Recent(ctx context.Context, limit int) ([]histdto.EntryOutput, error)
	Clear(ctx context.Context) error
}

// ─── messages ────────────────────────────────────────────────────────────────

type EntriesLoadedMsg struct {
	Entries []histdto.EntryOutput
	Err     error
}

type ClearedMsg struct{ Err error }

// ─── list item ───────────────────────────────────────────────────────────────

type historyItem struct {
	entry histdto.EntryOutput
}

func (i historyItem) Title() string {
	if i.entry.Completed {
		return theme.Watched.Render("✓ ") + i.entry.Title
	}
	return "  " + i.entry.Title
}

func (i historyItem) Description() string {
	pos := time.Duration(i.entry.PositionSecs * float64(time.Second)).Round(time.Second)
	when := i.entry.EndedAt.Local().Format("Jan 2 15:04")
	if i.entry.RuntimeSecs > 0 {
		runtime := time.Duration(i.entry.RuntimeSecs * float64(time.Second)).Round(time.Second)
		return fmt.Sprintf("%s  %s / %s", when, pos, runtime)
	}
	return fmt.Sprintf("%s  %s", when, pos)
}

func (i historyItem) FilterValue() string { return i.entry.Title }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port   HistoryPort
	list   list.Model
	width  int
	height int
}

func New(port HistoryPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "History"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return Model{port: port, list: l}
}

func (m Model) Init() tea.Cmd {
	return m.Reload()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width, m.height)

	case EntriesLoadedMsg:
		if msg.Err != nil {
			m.list.Title = "History — " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = "History"
		items := make([]list.Item, len(msg.Entries))
		for i, e := range msg.Entries {
			items[i] = historyItem{entry: e}
		}
		cmds = append(cmds, m.list.SetItems(items))

	case ClearedMsg:
		if msg.Err == nil {
			cmds = append(cmds, m.Reload())
		}
	}

	var lCmd tea.Cmd
	m.list, lCmd = m.list.Update(msg)
	cmds = append(cmds, lCmd)

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	return lipgloss.NewStyle().Width(m.width).Height(m.height).Render(m.list.View())
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// Reload re-reads the most recent sessions.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.port.Recent(context.Background(), recentLimit)
		return EntriesLoadedMsg{Entries: entries, Err: err}
	}
}

// Clear wipes the local history database.
func (m Model) Clear() tea.Cmd {
	return func() tea.Msg {
		return ClearedMsg{Err: m.port.Clear(context.Background())}
	}
}

// SelectedItemID returns the current selection's item ID, if any. The app
// uses it to replay an item straight from history.
func (m Model) SelectedItemID() (string, bool) {
	if item, ok := m.list.SelectedItem().(historyItem); ok {
		return item.entry.ItemID, true
	}
	return "", false
}
