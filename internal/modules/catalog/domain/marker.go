package domain

import (
	"strings"
	"time"
)

// MarkerKind is the semantic vocabulary for skippable time windows.
type MarkerKind string

const (
	MarkerIntro   MarkerKind = "intro"
	MarkerOutro   MarkerKind = "outro"
	MarkerRecap   MarkerKind = "recap"
	MarkerPreview MarkerKind = "preview"
)

// ParseMarkerKind maps a configuration or wire spelling onto a kind.
func ParseMarkerKind(raw string) (MarkerKind, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "intro":
		return MarkerIntro, true
	case "outro", "credits":
		return MarkerOutro, true
	case "recap":
		return MarkerRecap, true
	case "preview":
		return MarkerPreview, true
	}
	return "", false
}

// Marker is a server-declared window [Start, End) tagged with a kind.
// Markers keep the server's declared order.
type Marker struct {
	Kind  MarkerKind
	Start time.Duration
	End   time.Duration
}

// Chapter is raw chapter metadata used as a marker fallback when the server
// has no segment data for an item.
type Chapter struct {
	Title string
	Start time.Duration
}

// chapterAliases maps normalized chapter titles to marker kinds. Exact
// matches only for the short broadcast abbreviations; substring matches for
// the descriptive spellings.
var chapterExact = map[string]MarkerKind{
	"op": MarkerIntro,
	"ed": MarkerOutro,
}

var chapterSubstrings = []struct {
	key  string
	kind MarkerKind
}{
	{"intro", MarkerIntro},
	{"opening", MarkerIntro},
	{"outro", MarkerOutro},
	{"credits", MarkerOutro},
	{"ending", MarkerOutro},
	{"recap", MarkerRecap},
	{"previously", MarkerRecap},
	{"preview", MarkerPreview},
	{"next time", MarkerPreview},
	{"next episode", MarkerPreview},
}

// MarkersFromChapters reinterprets chapter titles into markers. A chapter's
// window runs to the next chapter's start, or to the runtime for the last
// one. Titles that match nothing are ignored.
func MarkersFromChapters(chapters []Chapter, runtime time.Duration) []Marker {
	var markers []Marker
	for i, ch := range chapters {
		kind, ok := classifyChapter(ch.Title)
		if !ok {
			continue
		}
		end := runtime
		if i+1 < len(chapters) {
			end = chapters[i+1].Start
		}
		if end <= ch.Start {
			continue
		}
		markers = append(markers, Marker{Kind: kind, Start: ch.Start, End: end})
	}
	return markers
}

func classifyChapter(title string) (MarkerKind, bool) {
	normalized := normalizeChapterTitle(title)
	if normalized == "" {
		return "", false
	}
	if kind, ok := chapterExact[normalized]; ok {
		return kind, true
	}
	for _, alias := range chapterSubstrings {
		if strings.Contains(normalized, alias.key) {
			return alias.kind, true
		}
	}
	return "", false
}

func normalizeChapterTitle(title string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}
