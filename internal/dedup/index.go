package dedup

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"pawpress/internal/textutil"
)

// topicRow is one remembered topic with its embedding vector.
type topicRow struct {
	Term    string
	Summary string
	Vector  []float64
}

// Index persists topic embeddings in SQLite so past runs never need
// re-embedding. The episode log stays a plain JSON document; vectors are
// bulky and queried differently, so they live here.
type Index struct {
	db   *sql.DB
	path string
}

// OpenIndex initializes or connects to the topic database.
func OpenIndex(path string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create dedup directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open topic db: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	idx := &Index{db: db, path: path}
	if err := idx.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return idx, nil
}

func (i *Index) initSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS topics (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    term TEXT NOT NULL,
    fingerprint TEXT NOT NULL UNIQUE,
    summary TEXT NOT NULL DEFAULT '',
    vector TEXT NOT NULL DEFAULT '[]',
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_topics_fingerprint ON topics(fingerprint);
`
	if _, err := i.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create topic schema: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (i *Index) Close() error {
	if i == nil || i.db == nil {
		return nil
	}
	return i.db.Close()
}

// Remember stores a topic and its embedding. Remembering the same term twice
// replaces the stored vector.
func (i *Index) Remember(ctx context.Context, term, summary string, vector []float64) error {
	encoded, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("encode vector: %w", err)
	}
	_, err = i.db.ExecContext(ctx, `
INSERT INTO topics (term, fingerprint, summary, vector, created_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(fingerprint) DO UPDATE SET summary = excluded.summary, vector = excluded.vector`,
		term, textutil.Fingerprint(term), summary, string(encoded),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("store topic: %w", err)
	}
	return nil
}

// Known reports whether an exact (fingerprint) match for the term exists.
func (i *Index) Known(ctx context.Context, term string) (bool, error) {
	var count int
	err := i.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM topics WHERE fingerprint = ?",
		textutil.Fingerprint(term)).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("query topic: %w", err)
	}
	return count > 0, nil
}

// All returns every stored topic with its vector.
func (i *Index) All(ctx context.Context) ([]topicRow, error) {
	rows, err := i.db.QueryContext(ctx,
		"SELECT term, summary, vector FROM topics ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	defer rows.Close()

	var out []topicRow
	for rows.Next() {
		var row topicRow
		var encoded string
		if err := rows.Scan(&row.Term, &row.Summary, &encoded); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		if err := json.Unmarshal([]byte(encoded), &row.Vector); err != nil {
			return nil, fmt.Errorf("decode vector for %q: %w", row.Term, err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate topics: %w", err)
	}
	return out, nil
}
