package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/Dronakurl/atuin/internal/history"
)

// Filter narrows List results. Zero values mean "no constraint".
type Filter struct {
	Session string
	Cwd     string
	Limit   int
}

// Load retrieves a single record by ID.
// Returns ErrNotFound if no record exists with the given ID.
func (s *Store) Load(ctx context.Context, id string) (*history.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, timestamp, duration, exit, command, cwd, session, hostname, deleted_at
		FROM history
		WHERE id = ?
	`, id)

	rec, err := scanRecordRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load history record: %w", err)
	}

	return &rec, nil
}

// Recent returns the most recent live records in chronological order
// (oldest first). A limit <= 0 returns all live records.
//
// Ordering is deterministic: ties on timestamp are broken by ID, which
// for UUIDv7 preserves creation order.
func (s *Store) Recent(ctx context.Context, limit int) ([]history.Record, error) {
	if limit <= 0 {
		// SQLite treats a negative LIMIT as unbounded
		limit = -1
	}

	// Select newest-first so LIMIT keeps the most recent window,
	// then reverse for chronological output.
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, duration, exit, command, cwd, session, hostname, deleted_at
		FROM history
		WHERE deleted_at IS NULL
		ORDER BY timestamp DESC, id COLLATE BINARY DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent history: %w", err)
	}
	defer rows.Close()

	records, err := collectRecords(rows)
	if err != nil {
		return nil, err
	}

	reverseRecords(records)
	return records, nil
}

// List returns live records matching the filter in chronological order
// (oldest first). A Limit <= 0 returns all matching records.
func (s *Store) List(ctx context.Context, f Filter) ([]history.Record, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT id, timestamp, duration, exit, command, cwd, session, hostname, deleted_at
		FROM history
		WHERE deleted_at IS NULL
	`)

	var args []any
	if f.Session != "" {
		sb.WriteString(" AND session = ?")
		args = append(args, f.Session)
	}
	if f.Cwd != "" {
		sb.WriteString(" AND cwd = ?")
		args = append(args, f.Cwd)
	}

	sb.WriteString(" ORDER BY timestamp DESC, id COLLATE BINARY DESC LIMIT ?")
	limit := f.Limit
	if limit <= 0 {
		limit = -1
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query history list: %w", err)
	}
	defer rows.Close()

	records, err := collectRecords(rows)
	if err != nil {
		return nil, err
	}

	reverseRecords(records)
	return records, nil
}

// Search returns live records whose command starts with the query,
// newest first. The query is normalized to NFC before matching so that
// composed and decomposed Unicode forms find the same commands.
// A limit <= 0 returns all matches.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]history.Record, error) {
	if limit <= 0 {
		limit = -1
	}

	pattern := escapeLike(norm.NFC.String(query)) + "%"

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, duration, exit, command, cwd, session, hostname, deleted_at
		FROM history
		WHERE deleted_at IS NULL AND command LIKE ? ESCAPE '\'
		ORDER BY timestamp DESC, id COLLATE BINARY DESC
		LIMIT ?
	`, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search history: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// collectRecords drains a result set into a slice.
// Returns an empty slice (not nil) when there are no rows.
func collectRecords(rows *sql.Rows) ([]history.Record, error) {
	var records []history.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history records: %w", err)
	}

	// Return empty slice instead of nil
	if records == nil {
		records = []history.Record{}
	}

	return records, nil
}

// reverseRecords flips a slice in place.
func reverseRecords(records []history.Record) {
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
}

// escapeLike escapes LIKE metacharacters so user input matches literally.
func escapeLike(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\', '%', '_':
			sb.WriteRune('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// scanRecord scans a row into a Record struct.
func scanRecord(rows *sql.Rows) (history.Record, error) {
	var rec history.Record
	var timestamp int64
	var deletedAt sql.NullInt64

	if err := rows.Scan(
		&rec.ID, &timestamp, &rec.Duration, &rec.Exit,
		&rec.Command, &rec.CWD, &rec.Session, &rec.Hostname, &deletedAt,
	); err != nil {
		return history.Record{}, fmt.Errorf("scan history record: %w", err)
	}

	rec.Timestamp = time.Unix(timestamp, 0)
	if deletedAt.Valid {
		t := time.Unix(deletedAt.Int64, 0)
		rec.DeletedAt = &t
	}

	return rec, nil
}

// scanRecordRow scans a single row into a Record struct.
func scanRecordRow(row *sql.Row) (history.Record, error) {
	var rec history.Record
	var timestamp int64
	var deletedAt sql.NullInt64

	if err := row.Scan(
		&rec.ID, &timestamp, &rec.Duration, &rec.Exit,
		&rec.Command, &rec.CWD, &rec.Session, &rec.Hostname, &deletedAt,
	); err != nil {
		return history.Record{}, err
	}

	rec.Timestamp = time.Unix(timestamp, 0)
	if deletedAt.Valid {
		t := time.Unix(deletedAt.Int64, 0)
		rec.DeletedAt = &t
	}

	return rec, nil
}
