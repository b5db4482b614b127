package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/deusflow/sportabase/internal/logger"
	"github.com/deusflow/sportabase/internal/merit"
	"github.com/deusflow/sportabase/internal/news"
	_ "github.com/mattn/go-sqlite3"
)

// Store keeps stories in a single SQLite file shared by the API and
// ingestion runs.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at path. Every pooled connection waits up
// to busyTimeout for locks held by other writers.
func Open(path string, busyTimeout time.Duration) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dsn(path, busyTimeout))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	logger.Debug("story store ready", "path", path)
	return s, nil
}

// dsn carries the pragmas as connection parameters so the driver applies them
// to each new connection in the pool.
func dsn(path string, busyTimeout time.Duration) string {
	q := url.Values{}
	q.Set("_busy_timeout", fmt.Sprint(busyTimeout.Milliseconds()))
	q.Set("_journal_mode", "WAL")
	q.Set("_synchronous", "NORMAL")
	return "file:" + path + "?" + q.Encode()
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS stories (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		sport TEXT NOT NULL,
		title TEXT NOT NULL,
		link TEXT NOT NULL,
		published TEXT,
		summary TEXT,
		tldr_json TEXT,
		merit_score INTEGER,
		badge TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_stories_created_at ON stories(created_at);
	CREATE INDEX IF NOT EXISTS idx_stories_sport ON stories(sport);
	CREATE INDEX IF NOT EXISTS idx_stories_source ON stories(source);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Exists reports whether a story with the given id is stored.
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM stories WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check story %s: %w", id, err)
	}
	return true, nil
}

// InsertIfAbsent stores the story unless its id is already present. It
// reports whether a row was written. An empty CreatedAt is stamped with the
// current time.
func (s *Store) InsertIfAbsent(ctx context.Context, st *news.Story) (bool, error) {
	if st.CreatedAt == "" {
		st.CreatedAt = news.FormatCreatedAt(s.now())
	}
	tldr := st.TLDR
	if tldr == nil {
		tldr = []string{}
	}
	tldrJSON, err := json.Marshal(tldr)
	if err != nil {
		return false, fmt.Errorf("encode tldr: %w", err)
	}

	query := `
		INSERT INTO stories (id, source, sport, title, link, published, summary, tldr_json, merit_score, badge, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`
	res, err := s.db.ExecContext(ctx, query,
		st.ID, st.Source, st.Sport, st.Title, st.Link, st.Published,
		st.Summary, string(tldrJSON), st.MeritScore, st.Badge, st.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert story %s: %w", st.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert story %s: %w", st.ID, err)
	}
	return n > 0, nil
}

// List returns stories matching f, newest first. Stories ingested at the same
// instant come back in reverse insertion order.
func (s *Store) List(ctx context.Context, f news.Filter) ([]news.Story, error) {
	var (
		where []string
		args  []interface{}
	)
	if f.Sport != "" {
		where = append(where, "sport = ?")
		args = append(args, f.Sport)
	}
	if f.Source != "" {
		where = append(where, "source = ?")
		args = append(args, f.Source)
	}

	query := `SELECT id, source, sport, title, link, published, summary, tldr_json, merit_score, badge, created_at FROM stories`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, rowid DESC LIMIT ?"
	args = append(args, news.ClampLimit(f.Limit))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	defer rows.Close()

	stories := []news.Story{}
	for rows.Next() {
		st, err := scanStory(rows)
		if err != nil {
			return nil, err
		}
		stories = append(stories, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	return stories, nil
}

func scanStory(rows *sql.Rows) (news.Story, error) {
	var (
		st        news.Story
		published sql.NullString
		summary   sql.NullString
		tldrJSON  sql.NullString
		score     sql.NullInt64
		badge     sql.NullString
	)
	err := rows.Scan(&st.ID, &st.Source, &st.Sport, &st.Title, &st.Link,
		&published, &summary, &tldrJSON, &score, &badge, &st.CreatedAt)
	if err != nil {
		return st, fmt.Errorf("scan story: %w", err)
	}

	if published.Valid {
		p := published.String
		st.Published = &p
	}
	st.Summary = summary.String
	st.MeritScore = int(score.Int64)

	st.TLDR = []string{}
	if tldrJSON.Valid && tldrJSON.String != "" {
		if err := json.Unmarshal([]byte(tldrJSON.String), &st.TLDR); err != nil {
			logger.Warn("corrupt tldr in stored story", "id", st.ID, "error", err)
			st.TLDR = []string{}
		}
	}

	st.Badge = badge.String
	if st.Badge == "" {
		st.Badge = string(merit.BadgeFor(st.MeritScore))
	}
	return st, nil
}

// Count returns the number of stored stories.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM stories`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count stories: %w", err)
	}
	return n, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
