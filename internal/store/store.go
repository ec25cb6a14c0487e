// Package store provides the SQLite archive of articles the curator has
// already published.
package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// DayLayout is the format of archive days.
const DayLayout = "2006-01-02"

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Store struct {
	db *sql.DB
	mu sync.RWMutex // Protects all database operations
}

// Article is one published article, keyed the same way the curator dedups.
type Article struct {
	Key      string // normalised title prefix
	Title    string
	URL      string
	Category string
	FirstDay string // day it was first published, DayLayout
}

// Open creates a new Store with the given database path.
// Creates tables if they don't exist.
// Uses WAL mode for better concurrent read performance (file-based DBs only).
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// Shared cache so all connections in the pool see the same database
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}

	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return s, nil
}

// createTables creates the required tables and indexes if they don't exist.
func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS published (
		key TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		url TEXT,
		category TEXT,
		first_day TEXT NOT NULL,
		recorded_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_published_day ON published(first_day);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
// Thread-safe: acquires write lock to prevent closing during in-flight operations.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Record stores articles published on day, returning how many were new.
// An article already archived keeps its first day.
// Thread-safe: acquires write lock.
func (s *Store) Record(day time.Time, articles []Article) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(articles) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO published (key, title, url, category, first_day, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	dayStr := day.Format(DayLayout)
	now := time.Now()
	newCount := 0
	for _, a := range articles {
		result, err := stmt.Exec(a.Key, a.Title, a.URL, a.Category, dayStr, now)
		if err != nil {
			return 0, fmt.Errorf("record %q: %w", a.Key, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return 0, err
		}
		if affected > 0 {
			newCount++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return newCount, nil
}

// PublishedBefore returns the subset of keys first published before day.
// Articles first seen on day itself are not included, so re-running the
// curator on the same day is idempotent.
// Thread-safe: acquires read lock.
func (s *Store) PublishedBefore(day time.Time, keys []string) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	if len(keys) == 0 {
		return seen, nil
	}

	stmt, err := s.db.Prepare(`SELECT 1 FROM published WHERE key = ? AND first_day < ?`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	dayStr := day.Format(DayLayout)
	for _, key := range keys {
		var one int
		err := stmt.QueryRow(key, dayStr).Scan(&one)
		switch {
		case err == sql.ErrNoRows:
			continue
		case err != nil:
			return nil, fmt.Errorf("lookup %q: %w", key, err)
		}
		seen[key] = true
	}
	return seen, nil
}

// Articles returns archived articles, newest day first.
// Thread-safe: acquires read lock.
func (s *Store) Articles(limit int) ([]Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT key, title, url, category, first_day
		FROM published
		ORDER BY first_day DESC, recorded_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Article
	for rows.Next() {
		var a Article
		var url, category sql.NullString
		if err := rows.Scan(&a.Key, &a.Title, &url, &category, &a.FirstDay); err != nil {
			return nil, err
		}
		a.URL = url.String
		a.Category = category.String
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of archived articles.
func (s *Store) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM published`).Scan(&n)
	return n, err
}
