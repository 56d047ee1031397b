package domain

import (
	"fmt"
	"time"
)

// SegmentKind is a skippable window's classification.
type SegmentKind string

const (
	SegmentIntro   SegmentKind = "intro"
	SegmentOutro   SegmentKind = "outro"
	SegmentRecap   SegmentKind = "recap"
	SegmentPreview SegmentKind = "preview"
)

func ParseSegmentKind(raw string) (SegmentKind, error) {
	switch SegmentKind(raw) {
	case SegmentIntro, SegmentOutro, SegmentRecap, SegmentPreview:
		return SegmentKind(raw), nil
	}
	return "", fmt.Errorf("unknown segment kind %q", raw)
}

// Segment is one skippable window, [Start, End).
type Segment struct {
	Kind  SegmentKind
	Start time.Duration
	End   time.Duration
}

// SkipEngine decides per playback tick whether the position sits inside a
// yet-unskipped enabled window. Each window fires at most once per session.
// An empty enabled set builds an inert engine that holds no segments at all.
type SkipEngine struct {
	segments []Segment
	burned   []bool
}

func NewSkipEngine(segments []Segment, enabled []SegmentKind) *SkipEngine {
	if len(enabled) == 0 {
		return &SkipEngine{}
	}
	allowed := make(map[SegmentKind]bool, len(enabled))
	for _, kind := range enabled {
		allowed[kind] = true
	}
	var kept []Segment
	for _, segment := range segments {
		if allowed[segment.Kind] && segment.End > segment.Start {
			kept = append(kept, segment)
		}
	}
	if len(kept) == 0 {
		return &SkipEngine{}
	}
	return &SkipEngine{segments: kept, burned: make([]bool, len(kept))}
}

// Enabled reports whether the engine can ever decide.
func (e *SkipEngine) Enabled() bool { return len(e.segments) > 0 }

// Decide returns the seek target for a position inside an active window,
// burning that window. At most one window fires per call.
func (e *SkipEngine) Decide(position time.Duration) (time.Duration, bool) {
	for i, segment := range e.segments {
		if e.burned[i] {
			continue
		}
		if position >= segment.Start && position < segment.End {
			e.burned[i] = true
			return segment.End, true
		}
	}
	return 0, false
}
