package out_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	out "jellyterm/internal/modules/history/adapter/out"
	"jellyterm/internal/modules/history/domain"
)

func entry(itemID string, endedAt time.Time, completed bool) domain.Entry {
	return domain.Entry{
		ItemID:    itemID,
		Title:     "Dark - " + itemID,
		StartedAt: endedAt.Add(-40 * time.Minute),
		EndedAt:   endedAt,
		Position:  38 * time.Minute,
		Runtime:   40 * time.Minute,
		Completed: completed,
	}
}

func TestAppendAndRecent(t *testing.T) {
	t.Parallel()

	store, err := out.NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2026, 8, 1, 20, 0, 0, 0, time.UTC)
	for i, id := range []string{"ep-1", "ep-2", "ep-3"} {
		if err := store.Append(ctx, entry(id, base.Add(time.Duration(i)*time.Hour), i == 2)); err != nil {
			t.Fatalf("Append(%s): %v", id, err)
		}
	}

	entries, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want limit respected", len(entries))
	}
	// Newest first.
	if entries[0].ItemID != "ep-3" || entries[1].ItemID != "ep-2" {
		t.Fatalf("order = %s, %s", entries[0].ItemID, entries[1].ItemID)
	}
	if !entries[0].Completed {
		t.Fatal("completed flag lost")
	}
	if !entries[0].EndedAt.Equal(base.Add(2 * time.Hour)) {
		t.Fatalf("ended at = %v", entries[0].EndedAt)
	}
	if entries[0].Position != 38*time.Minute || entries[0].Runtime != 40*time.Minute {
		t.Fatalf("durations = %v, %v", entries[0].Position, entries[0].Runtime)
	}
}

func TestClear(t *testing.T) {
	t.Parallel()

	store, err := out.NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Append(ctx, entry("ep-1", time.Now().UTC(), false)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	entries, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("entries = %d after clear", len(entries))
	}
}
