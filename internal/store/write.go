package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dronakurl/atuin/internal/history"
)

// Save inserts a history record into the store.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently
// ignored, so retries and replayed imports never produce duplicate rows.
// Other constraint violations (e.g., NOT NULL) will still return errors.
func (s *Store) Save(ctx context.Context, rec history.Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO history
		(id, timestamp, duration, exit, command, cwd, session, hostname, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		rec.Timestamp.Unix(),
		rec.Duration,
		rec.Exit,
		rec.Command,
		rec.CWD,
		rec.Session,
		rec.Hostname,
		deletedAtValue(rec),
	)
	if err != nil {
		return fmt.Errorf("save history record: %w", err)
	}

	return nil
}

// SaveMany inserts a batch of history records in a single transaction.
// Either all records are committed or none are. Individual duplicates within
// the batch are silently ignored, same as Save.
func (s *Store) SaveMany(ctx context.Context, recs []history.Record) error {
	if len(recs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save many: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO history
		(id, timestamp, duration, exit, command, cwd, session, hostname, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("save many: prepare: %w", err)
	}
	defer stmt.Close()

	for _, rec := range recs {
		_, err := stmt.ExecContext(ctx,
			rec.ID,
			rec.Timestamp.Unix(),
			rec.Duration,
			rec.Exit,
			rec.Command,
			rec.CWD,
			rec.Session,
			rec.Hostname,
			deletedAtValue(rec),
		)
		if err != nil {
			return fmt.Errorf("save many: record %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save many: commit: %w", err)
	}

	return nil
}

// Delete marks a record as deleted without removing the row.
// The tombstone keeps the ID claimed so a later sync cannot re-import
// the record as if it were new.
//
// Returns ErrNotFound if no live record exists with the given ID.
func (s *Store) Delete(ctx context.Context, id string, when int64) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE history
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, when, id)
	if err != nil {
		return fmt.Errorf("delete history record: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete history record: rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// deletedAtValue converts the optional deletion time to a nullable column value.
func deletedAtValue(rec history.Record) sql.NullInt64 {
	if rec.DeletedAt == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: rec.DeletedAt.Unix(), Valid: true}
}
