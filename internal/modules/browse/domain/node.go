package domain

import (
	"fmt"
	"time"
)

// EntryKind mirrors the catalog's closed kind set from the navigation side.
// The adapter maps wire spellings in; everything here dispatches exhaustively.
type EntryKind string

const (
	EntryLibrary EntryKind = "library"
	EntryShow    EntryKind = "show"
	EntrySeason  EntryKind = "season"
	EntryEpisode EntryKind = "episode"
	EntryMovie   EntryKind = "movie"
)

func ParseEntryKind(raw string) (EntryKind, error) {
	switch EntryKind(raw) {
	case EntryLibrary, EntryShow, EntrySeason, EntryEpisode, EntryMovie:
		return EntryKind(raw), nil
	}
	return "", fmt.Errorf("unknown entry kind %q", raw)
}

func (k EntryKind) Container() bool {
	switch k {
	case EntryLibrary, EntryShow, EntrySeason:
		return true
	case EntryEpisode, EntryMovie:
		return false
	}
	return false
}

func (k EntryKind) Playable() bool {
	return !k.Container()
}

// Entry is one row of a browse level.
type Entry struct {
	ID       string
	Kind     EntryKind
	Title    string
	Label    string
	Position time.Duration
	Runtime  time.Duration
	Watched  bool
	Finished bool
}

// Section marks where a labeled group starts within a node's entries
// (Home's Continue Watching / Next Up / Libraries, search's two groups).
type Section struct {
	Title string
	Start int
}

type NodeKind string

const (
	NodeHome           NodeKind = "home"
	NodeLibraryList    NodeKind = "library"
	NodeShowSeasons    NodeKind = "seasons"
	NodeSeasonEpisodes NodeKind = "episodes"
	NodeSearchResults  NodeKind = "search"
)

// Node is one frame of the navigation stack: the listed entries and the
// selection. ParentID is the listed container (empty for Home), Query the
// search term for SearchResults nodes.
type Node struct {
	Kind     NodeKind
	Title    string
	ParentID string
	Query    string
	Entries  []Entry
	Sections []Section
	Selected int
}

// SelectedEntry returns the entry under the cursor, if any.
func (n *Node) SelectedEntry() (Entry, bool) {
	if n.Selected < 0 || n.Selected >= len(n.Entries) {
		return Entry{}, false
	}
	return n.Entries[n.Selected], true
}

// MoveSelection shifts the cursor, clamping to the entry range.
func (n *Node) MoveSelection(delta int) {
	n.Selected = clamp(n.Selected+delta, len(n.Entries))
}

// Replace swaps in a freshly fetched listing, preserving the selection by
// entry identity when the previously selected entry survived, otherwise
// clamping to the nearest valid index.
func (n *Node) Replace(entries []Entry, sections []Section) {
	previousID := ""
	if selected, ok := n.SelectedEntry(); ok {
		previousID = selected.ID
	}
	n.Entries = entries
	n.Sections = sections
	if previousID != "" {
		for i, entry := range entries {
			if entry.ID == previousID {
				n.Selected = i
				return
			}
		}
	}
	n.Selected = clamp(n.Selected, len(entries))
}

func clamp(index, length int) int {
	if length == 0 {
		return 0
	}
	if index < 0 {
		return 0
	}
	if index >= length {
		return length - 1
	}
	return index
}
