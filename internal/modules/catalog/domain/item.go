package domain

import (
	"fmt"
	"time"
)

// ItemKind is the closed set of catalog node kinds. Dispatch over kind is
// always an exhaustive switch, never runtime type inspection.
type ItemKind string

const (
	KindLibrary ItemKind = "library"
	KindShow    ItemKind = "show"
	KindSeason  ItemKind = "season"
	KindEpisode ItemKind = "episode"
	KindMovie   ItemKind = "movie"
)

func (k ItemKind) Validate() error {
	switch k {
	case KindLibrary, KindShow, KindSeason, KindEpisode, KindMovie:
		return nil
	}
	return fmt.Errorf("unknown item kind %q", string(k))
}

// Container reports whether opening the item navigates into children.
func (k ItemKind) Container() bool {
	switch k {
	case KindLibrary, KindShow, KindSeason:
		return true
	case KindEpisode, KindMovie:
		return false
	}
	return false
}

// Playable reports whether opening the item starts playback.
func (k ItemKind) Playable() bool {
	switch k {
	case KindEpisode, KindMovie:
		return true
	case KindLibrary, KindShow, KindSeason:
		return false
	}
	return false
}

// Item is one catalog entry as fetched from the server. Items are never
// cached beyond the browse level currently displaying them; Position and
// Watched are refreshed on every navigation return.
type Item struct {
	ID       string
	Kind     ItemKind
	Title    string
	ParentID string

	// Episode presentation context.
	SeriesName   string
	SeasonIndex  int
	EpisodeIndex int

	// User state.
	Position time.Duration
	Watched  bool
	RunTime  time.Duration
}

// Label renders the display title the way the server's own clients do:
// "Series - Title S01E02" for episodes with known indices.
func (i Item) Label() string {
	if i.SeriesName == "" {
		return i.Title
	}
	if i.SeasonIndex > 0 && i.EpisodeIndex > 0 {
		return fmt.Sprintf("%s - %s S%02dE%02d", i.SeriesName, i.Title, i.SeasonIndex, i.EpisodeIndex)
	}
	return fmt.Sprintf("%s - %s", i.SeriesName, i.Title)
}

// Finished reports whether the item counts as fully watched: the server's
// played flag, or progress past threshold (fraction of runtime).
func (i Item) Finished(threshold float64) bool {
	if !i.Kind.Playable() {
		return false
	}
	if i.Watched {
		return true
	}
	if i.RunTime <= 0 {
		return false
	}
	return float64(i.Position) >= threshold*float64(i.RunTime)
}
