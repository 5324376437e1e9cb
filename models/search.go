package models

import "time"

// Search represents one submitted product query. The server assigns the ID;
// the record is immutable and referenced by every subsequent offers request
// until a new search is submitted.
type Search struct {
	ID        int64     `json:"id"`
	Query     string    `json:"query"`
	CreatedAt time.Time `json:"created_at"`
}

// RecentSearch is a locally persisted echo of a submitted search, kept in
// SQLite so the client can offer query recall across restarts.
type RecentSearch struct {
	ID          int64     `json:"id"`
	SearchID    int64     `json:"search_id"`
	Query       string    `json:"query"`
	SubmittedAt time.Time `json:"submitted_at"`
}
