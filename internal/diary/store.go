package diary

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Entry is one recorded skill event.
type Entry struct {
	ID       int64  `json:"id"`
	Skill    string `json:"skill"`
	TS       string `json:"ts"`
	Op       string `json:"op"`
	Outcome  string `json:"outcome"`
	Errors   int    `json:"errors"`
	Warnings int    `json:"warnings"`
	Detail   string `json:"detail,omitempty"`
}

// Store provides persistence for diary entries.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying database handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Append records one entry. The timestamp is set here so callers never
// disagree about the clock format.
func (s *Store) Append(ctx context.Context, e Entry) error {
	ts := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO entries(skill, ts, op, outcome, errors, warnings, detail)
		 VALUES(?, ?, ?, ?, ?, ?, ?)`,
		e.Skill, ts, e.Op, e.Outcome, e.Errors, e.Warnings, nullableString(e.Detail)); err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

// Entries returns the newest entries for a skill; an empty skill name
// selects every skill. limit <= 0 means no limit.
func (s *Store) Entries(ctx context.Context, skill string, limit int) ([]Entry, error) {
	query := `SELECT id, skill, ts, op, outcome, errors, warnings, COALESCE(detail, '')
		FROM entries`
	args := []any{}
	if skill != "" {
		query += ` WHERE skill=?`
		args = append(args, skill)
	}
	query += ` ORDER BY id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Skill, &e.TS, &e.Op, &e.Outcome, &e.Errors, &e.Warnings, &e.Detail); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read entries: %w", err)
	}
	return entries, nil
}

// Summary aggregates outcomes for a skill.
type Summary struct {
	Total     int `json:"total"`
	Passed    int `json:"passed"`
	Failed    int `json:"failed"`
	Generated int `json:"generated"`
}

// Summarize tallies entries for a skill; empty skill covers everything.
func (s *Store) Summarize(ctx context.Context, skill string) (Summary, error) {
	entries, err := s.Entries(ctx, skill, 0)
	if err != nil {
		return Summary{}, err
	}
	var sum Summary
	for _, e := range entries {
		sum.Total++
		switch {
		case e.Op == "generate":
			sum.Generated++
		case e.Outcome == "passed":
			sum.Passed++
		case e.Outcome == "failed":
			sum.Failed++
		}
	}
	return sum, nil
}

// Prune deletes entries older than keepDays. keepDays <= 0 keeps
// everything.
func (s *Store) Prune(ctx context.Context, keepDays int) (int64, error) {
	if keepDays <= 0 {
		return 0, nil
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -keepDays).Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE ts < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune entries: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune entries: %w", err)
	}
	return n, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
