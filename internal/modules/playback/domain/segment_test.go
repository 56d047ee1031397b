package domain_test

import (
	"testing"
	"time"

	"jellyterm/internal/modules/playback/domain"
)

func TestSkipEngineDisabledWithEmptyKindSet(t *testing.T) {
	t.Parallel()

	segments := []domain.Segment{
		{Kind: domain.SegmentIntro, Start: 0, End: 30 * time.Second},
		{Kind: domain.SegmentOutro, Start: 40 * time.Minute, End: 42 * time.Minute},
	}
	engine := domain.NewSkipEngine(segments, nil)
	if engine.Enabled() {
		t.Fatal("engine with no enabled kinds must be inert")
	}
	for _, position := range []time.Duration{0, 10 * time.Second, 41 * time.Minute} {
		if _, ok := engine.Decide(position); ok {
			t.Fatalf("decision at %v from a disabled engine", position)
		}
	}
}

func TestSkipEngineSkipsIntroOnce(t *testing.T) {
	t.Parallel()

	engine := domain.NewSkipEngine(
		[]domain.Segment{{Kind: domain.SegmentIntro, Start: 0, End: 30 * time.Second}},
		[]domain.SegmentKind{domain.SegmentIntro},
	)

	target, ok := engine.Decide(10 * time.Second)
	if !ok || target != 30*time.Second {
		t.Fatalf("Decide(10s) = %v, %v; want 30s, true", target, ok)
	}
	// The window is burned: a rewind back into it stays put.
	if _, ok := engine.Decide(10 * time.Second); ok {
		t.Fatal("burned window fired twice")
	}
	// Post-skip position just past the window never matches.
	if _, ok := engine.Decide(31 * time.Second); ok {
		t.Fatal("decision just past the window end")
	}
}

func TestSkipEngineWindowBoundsAreHalfOpen(t *testing.T) {
	t.Parallel()

	engine := domain.NewSkipEngine(
		[]domain.Segment{{Kind: domain.SegmentRecap, Start: 10 * time.Second, End: 40 * time.Second}},
		[]domain.SegmentKind{domain.SegmentRecap},
	)

	if _, ok := engine.Decide(9 * time.Second); ok {
		t.Fatal("decision before window start")
	}
	target, ok := engine.Decide(10 * time.Second)
	if !ok || target != 40*time.Second {
		t.Fatalf("Decide(start) = %v, %v; want window end", target, ok)
	}

	engine = domain.NewSkipEngine(
		[]domain.Segment{{Kind: domain.SegmentRecap, Start: 10 * time.Second, End: 40 * time.Second}},
		[]domain.SegmentKind{domain.SegmentRecap},
	)
	if _, ok := engine.Decide(40 * time.Second); ok {
		t.Fatal("decision at exclusive window end")
	}
}

func TestSkipEngineHonorsKindFilter(t *testing.T) {
	t.Parallel()

	segments := []domain.Segment{
		{Kind: domain.SegmentIntro, Start: 0, End: 30 * time.Second},
		{Kind: domain.SegmentPreview, Start: 41 * time.Minute, End: 42 * time.Minute},
	}
	engine := domain.NewSkipEngine(segments, []domain.SegmentKind{domain.SegmentPreview})

	if _, ok := engine.Decide(5 * time.Second); ok {
		t.Fatal("intro fired while only preview is enabled")
	}
	target, ok := engine.Decide(41*time.Minute + 30*time.Second)
	if !ok || target != 42*time.Minute {
		t.Fatalf("preview decision = %v, %v", target, ok)
	}
}

func TestSkipEngineOneDecisionPerTick(t *testing.T) {
	t.Parallel()

	// Overlapping windows: a single tick burns only the first match.
	segments := []domain.Segment{
		{Kind: domain.SegmentIntro, Start: 0, End: 30 * time.Second},
		{Kind: domain.SegmentRecap, Start: 20 * time.Second, End: 90 * time.Second},
	}
	engine := domain.NewSkipEngine(segments, []domain.SegmentKind{domain.SegmentIntro, domain.SegmentRecap})

	target, ok := engine.Decide(25 * time.Second)
	if !ok || target != 30*time.Second {
		t.Fatalf("first decision = %v, %v; want intro end", target, ok)
	}
	target, ok = engine.Decide(30 * time.Second)
	if !ok || target != 90*time.Second {
		t.Fatalf("second decision = %v, %v; want recap end", target, ok)
	}
}

func TestSkipEngineDropsDegenerateWindows(t *testing.T) {
	t.Parallel()

	segments := []domain.Segment{
		{Kind: domain.SegmentIntro, Start: 30 * time.Second, End: 30 * time.Second},
		{Kind: domain.SegmentIntro, Start: 50 * time.Second, End: 20 * time.Second},
	}
	engine := domain.NewSkipEngine(segments, []domain.SegmentKind{domain.SegmentIntro})
	if engine.Enabled() {
		t.Fatal("degenerate windows must not enable the engine")
	}
}

func TestCompletedThreshold(t *testing.T) {
	t.Parallel()

	runtime := 40 * time.Minute
	if domain.Completed(37*time.Minute, runtime, 0.95) {
		t.Fatal("below threshold counted as completed")
	}
	if !domain.Completed(38*time.Minute, runtime, 0.95) {
		t.Fatal("at threshold not counted as completed")
	}
	if domain.Completed(time.Hour, 0, 0.95) {
		t.Fatal("unknown runtime counted as completed")
	}
}
