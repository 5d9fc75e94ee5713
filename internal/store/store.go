// Package store keeps a local SQLite archive of fetched articles. The
// archive is written as a side effect of successful fetches and can be
// browsed offline through the archive page source.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"articlegrip/internal/domain"
)

const articlesTable = "articles"

var articleColumns = []string{"id", "title", "url", "source", "summary", "published_at"}

// Store wraps a SQLite database connection
type Store struct {
	conn *sql.DB
	path string
}

// Open creates or opens the archive at path and migrates its schema
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return &Store{conn: conn, path: path}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.conn.Close()
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.path
}

// SaveArticles upserts articles by id in a single transaction
func (s *Store) SaveArticles(ctx context.Context, articles []domain.Article) error {
	if len(articles) == 0 {
		return nil
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	for _, a := range articles {
		query, args, err := sq.Insert(articlesTable).
			Columns(append(articleColumns, "archived_at")...).
			Values(a.ID, a.Title, a.URL, a.Source, a.Summary, toUnix(a.PublishedAt), now).
			Suffix(`ON CONFLICT(id) DO UPDATE SET
				title = excluded.title,
				url = excluded.url,
				source = excluded.source,
				summary = excluded.summary,
				published_at = excluded.published_at,
				archived_at = excluded.archived_at`).
			ToSql()
		if err != nil {
			return fmt.Errorf("build upsert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert article %s: %w", a.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// Page returns the 1-based page of archived articles, newest first
func (s *Store) Page(ctx context.Context, page, size int) ([]domain.Article, error) {
	if page < 1 || size < 1 {
		return nil, fmt.Errorf("invalid page %d of size %d", page, size)
	}

	query, args, err := sq.Select(articleColumns...).
		From(articlesTable).
		OrderBy("published_at DESC", "id").
		Limit(uint64(size)).
		Offset(uint64((page - 1) * size)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build page query: %w", err)
	}

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query page %d: %w", page, err)
	}
	defer rows.Close()

	articles := make([]domain.Article, 0, size)
	for rows.Next() {
		var (
			a         domain.Article
			published int64
		)
		if err := rows.Scan(&a.ID, &a.Title, &a.URL, &a.Source, &a.Summary, &published); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		a.PublishedAt = fromUnix(published)
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return articles, nil
}

// Count returns the number of archived articles
func (s *Store) Count(ctx context.Context) (int, error) {
	query, args, err := sq.Select("COUNT(*)").From(articlesTable).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var n int
	if err := s.conn.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return n, nil
}

// zero time is stored as 0 so unknown dates sort last
func toUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func fromUnix(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
