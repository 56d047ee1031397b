package domain_test

import (
	"testing"
	"time"

	"jellyterm/internal/modules/catalog/domain"
)

func TestParseMarkerKindAcceptsWireSpellings(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want domain.MarkerKind
		ok   bool
	}{
		{"Intro", domain.MarkerIntro, true},
		{"outro", domain.MarkerOutro, true},
		{"Credits", domain.MarkerOutro, true},
		{"recap", domain.MarkerRecap, true},
		{"Preview", domain.MarkerPreview, true},
		{" intro ", domain.MarkerIntro, true},
		{"commercial", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := domain.ParseMarkerKind(tc.raw)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseMarkerKind(%q) = %q, %v; want %q, %v", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestMarkersFromChaptersMapsTitles(t *testing.T) {
	t.Parallel()

	runtime := 24 * time.Minute
	chapters := []domain.Chapter{
		{Title: "OP", Start: 0},
		{Title: "Part A", Start: 90 * time.Second},
		{Title: "Part B", Start: 12 * time.Minute},
		{Title: "ED", Start: 22 * time.Minute},
	}
	markers := domain.MarkersFromChapters(chapters, runtime)

	want := []domain.Marker{
		{Kind: domain.MarkerIntro, Start: 0, End: 90 * time.Second},
		{Kind: domain.MarkerOutro, Start: 22 * time.Minute, End: runtime},
	}
	if len(markers) != len(want) {
		t.Fatalf("markers = %+v, want %+v", markers, want)
	}
	for i := range want {
		if markers[i] != want[i] {
			t.Fatalf("markers[%d] = %+v, want %+v", i, markers[i], want[i])
		}
	}
}

func TestMarkersFromChaptersSubstringAliases(t *testing.T) {
	t.Parallel()

	chapters := []domain.Chapter{
		{Title: "Previously on Dark", Start: 0},
		{Title: "Act One", Start: time.Minute},
		{Title: "Next Time...", Start: 40 * time.Minute},
	}
	markers := domain.MarkersFromChapters(chapters, 42*time.Minute)
	if len(markers) != 2 {
		t.Fatalf("markers = %+v, want recap and preview", markers)
	}
	if markers[0].Kind != domain.MarkerRecap || markers[1].Kind != domain.MarkerPreview {
		t.Fatalf("kinds = %q, %q", markers[0].Kind, markers[1].Kind)
	}
}

func TestMarkersFromChaptersIgnoresUnmatchedAndDegenerate(t *testing.T) {
	t.Parallel()

	chapters := []domain.Chapter{
		{Title: "Chapter 1", Start: 0},
		{Title: "Chapter 2", Start: 10 * time.Minute},
	}
	if markers := domain.MarkersFromChapters(chapters, 20*time.Minute); markers != nil {
		t.Fatalf("markers = %+v, want none for plain chapter names", markers)
	}

	// A final outro chapter past the known runtime would produce an empty
	// window and is dropped.
	chapters = []domain.Chapter{{Title: "Credits", Start: 30 * time.Minute}}
	if markers := domain.MarkersFromChapters(chapters, 20*time.Minute); markers != nil {
		t.Fatalf("markers = %+v, want none for inverted window", markers)
	}
}

func TestItemLabel(t *testing.T) {
	t.Parallel()

	episode := domain.Item{
		Kind:         domain.KindEpisode,
		Title:        "Secrets",
		SeriesName:   "Dark",
		SeasonIndex:  1,
		EpisodeIndex: 2,
	}
	if got := episode.Label(); got != "Dark - Secrets S01E02" {
		t.Fatalf("Label() = %q", got)
	}

	special := domain.Item{Kind: domain.KindEpisode, Title: "Pilot", SeriesName: "Dark"}
	if got := special.Label(); got != "Dark - Pilot" {
		t.Fatalf("Label() = %q", got)
	}

	movie := domain.Item{Kind: domain.KindMovie, Title: "Coherence"}
	if got := movie.Label(); got != "Coherence" {
		t.Fatalf("Label() = %q", got)
	}
}

func TestItemFinished(t *testing.T) {
	t.Parallel()

	base := domain.Item{Kind: domain.KindEpisode, RunTime: 40 * time.Minute}

	watched := base
	watched.Watched = true
	if !watched.Finished(0.95) {
		t.Fatal("played flag must finish the item")
	}

	nearEnd := base
	nearEnd.Position = 39 * time.Minute
	if !nearEnd.Finished(0.95) {
		t.Fatal("position past threshold must finish the item")
	}

	midway := base
	midway.Position = 20 * time.Minute
	if midway.Finished(0.95) {
		t.Fatal("midway position must not finish the item")
	}

	folder := domain.Item{Kind: domain.KindSeason, Watched: true}
	if folder.Finished(0.95) {
		t.Fatal("containers never report finished")
	}
}

func TestKindDispatch(t *testing.T) {
	t.Parallel()

	for _, kind := range []domain.ItemKind{domain.KindLibrary, domain.KindShow, domain.KindSeason} {
		if !kind.Container() || kind.Playable() {
			t.Fatalf("%q must be a container", kind)
		}
	}
	for _, kind := range []domain.ItemKind{domain.KindEpisode, domain.KindMovie} {
		if kind.Container() || !kind.Playable() {
			t.Fatalf("%q must be playable", kind)
		}
	}
	if err := domain.ItemKind("album").Validate(); err == nil {
		t.Fatal("unknown kind must fail validation")
	}
}
