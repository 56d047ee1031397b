package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"jellyterm/internal/modules/history/domain"
	historyout "jellyterm/internal/modules/history/port/out"

	_ "modernc.org/sqlite"
)

const timeFormat = "2006-01-02T15:04:05Z07:00"

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (historyout.Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS playback_history (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  item_id TEXT NOT NULL,
  title TEXT NOT NULL,
  started_at TEXT NOT NULL,
  ended_at TEXT NOT NULL,
  position_secs REAL NOT NULL,
  runtime_secs REAL NOT NULL,
  completed INTEGER NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create playback_history table: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Append(ctx context.Context, entry domain.Entry) error {
	const stmt = `
INSERT INTO playback_history (item_id, title, started_at, ended_at, position_secs, runtime_secs, completed)
VALUES (?, ?, ?, ?, ?, ?, ?);
`
	completed := 0
	if entry.Completed {
		completed = 1
	}
	_, err := s.db.ExecContext(ctx, stmt,
		entry.ItemID,
		entry.Title,
		entry.StartedAt.UTC().Format(timeFormat),
		entry.EndedAt.UTC().Format(timeFormat),
		entry.Position.Seconds(),
		entry.Runtime.Seconds(),
		completed,
	)
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]domain.Entry, error) {
	const query = `
SELECT id, item_id, title, started_at, ended_at, position_secs, runtime_secs, completed
FROM playback_history
ORDER BY ended_at DESC, id DESC
LIMIT ?;
`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		var (
			entry                      domain.Entry
			startedAt, endedAt         string
			positionSecs, runtimeSecs  float64
			completed                  int
		)
		if err := rows.Scan(&entry.ID, &entry.ItemID, &entry.Title, &startedAt, &endedAt, &positionSecs, &runtimeSecs, &completed); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		if entry.StartedAt, err = time.Parse(timeFormat, startedAt); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if entry.EndedAt, err = time.Parse(timeFormat, endedAt); err != nil {
			return nil, fmt.Errorf("parse ended_at: %w", err)
		}
		entry.Position = time.Duration(positionSecs * float64(time.Second))
		entry.Runtime = time.Duration(runtimeSecs * float64(time.Second))
		entry.Completed = completed != 0
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}
	return entries, nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM playback_history`); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
