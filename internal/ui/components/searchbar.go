package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"jellyterm/internal/ui/theme"
)

// SearchSubmitMsg is emitted when the user confirms a query.
type SearchSubmitMsg struct{ Query string }

// SearchCancelMsg is emitted when the user presses esc.
type SearchCancelMsg struct{}

var (
	searchStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Peach).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	searchHintStyle = lipgloss.NewStyle().Foreground(theme.Subtext0)
)

// SearchBar is a server-search overlay backed by bubbles/textinput. Unlike
// the list's built-in filter it queries the whole catalog, not the visible
// entries.
type SearchBar struct {
	input   textinput.Model
	visible bool
	width   int
}

// NewSearchBar creates an inactive SearchBar ready to be opened.
func NewSearchBar() SearchBar {
	ti := textinput.New()
	ti.Placeholder = "search the server…"
	ti.CharLimit = 128
	return SearchBar{input: ti}
}

// Visible reports whether the search bar is currently shown.
func (s SearchBar) Visible() bool { return s.visible }

// Open shows the bar, clears the input, and returns the focus command.
func (s *SearchBar) Open() tea.Cmd {
	s.visible = true
	s.input.SetValue("")
	return s.input.Focus()
}

// SetWidth sets the render width for the overlay.
func (s *SearchBar) SetWidth(w int) { s.width = w }

func (s SearchBar) Update(msg tea.Msg) (SearchBar, tea.Cmd) {
	if !s.visible {
		return s, nil
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			s.visible = false
			s.input.Blur()
			return s, func() tea.Msg { return SearchCancelMsg{} }
		case "enter":
			query := strings.TrimSpace(s.input.Value())
			s.visible = false
			s.input.Blur()
			return s, func() tea.Msg { return SearchSubmitMsg{Query: query} }
		}
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s SearchBar) View() string {
	if !s.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Search") + "\n")
	sb.WriteString("> " + s.input.View() + "\n\n")
	sb.WriteString(searchHintStyle.Render("  enter: search movies, shows and episodes  esc: cancel"))

	w := s.width
	if w < 20 {
		w = 64
	}
	return searchStyle.Width(w - 2).Render(sb.String())
}
