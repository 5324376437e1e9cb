package storage

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"bestprice_client/models"
)

// SQLiteStore is the client's local persistence: the auth token (the
// browser-localStorage analog) and a log of submitted searches. It holds no
// offer data; offers always come fresh from the server.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS auth_token (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		token TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS recent_searches (
		id INTEGER PRIMARY KEY,
		search_id INTEGER NOT NULL,
		query TEXT NOT NULL,
		submitted_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_recent_searches_time ON recent_searches(submitted_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SetToken stores the auth token, replacing any previous one. The write is
// synchronous; a following GetToken sees the new value.
func (s *SQLiteStore) SetToken(token string) error {
	_, err := s.db.Exec(`
		INSERT INTO auth_token (id, token, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET token = excluded.token, updated_at = excluded.updated_at`,
		token, time.Now())
	return err
}

// GetToken returns the stored token, or "" when none is stored.
func (s *SQLiteStore) GetToken() (string, error) {
	var token string
	err := s.db.QueryRow(`SELECT token FROM auth_token WHERE id = 1`).Scan(&token)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

// ClearToken removes the stored token. Clearing an empty store is a no-op.
func (s *SQLiteStore) ClearToken() error {
	_, err := s.db.Exec(`DELETE FROM auth_token WHERE id = 1`)
	return err
}

// RecordSearch appends a submitted search to the local history.
func (s *SQLiteStore) RecordSearch(searchID int64, query string) error {
	_, err := s.db.Exec(`
		INSERT INTO recent_searches (search_id, query, submitted_at) VALUES (?, ?, ?)`,
		searchID, query, time.Now())
	return err
}

// RecentSearches returns up to limit searches, most recent first.
func (s *SQLiteStore) RecentSearches(limit int) ([]models.RecentSearch, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(`
		SELECT id, search_id, query, submitted_at
		FROM recent_searches ORDER BY submitted_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var searches []models.RecentSearch
	for rows.Next() {
		var rs models.RecentSearch
		if err := rows.Scan(&rs.ID, &rs.SearchID, &rs.Query, &rs.SubmittedAt); err != nil {
			return nil, err
		}
		searches = append(searches, rs)
	}

	return searches, rows.Err()
}
