package testutil

import (
	"context"
	"fmt"

	"github.com/Dronakurl/atuin/internal/history"
)

// StubStore is an in-memory stand-in for the SQLite history store.
//
// Records are held in chronological order, oldest first, exactly as the
// real store returns them from a recent-window query. The stub lets
// sync and daemon tests run without touching a database file.
type StubStore struct {
	// Records is the full history, oldest first.
	Records []history.Record

	// RecentErr, when set, is returned by Recent instead of records.
	RecentErr error

	// LoadErr, when set, is returned by Load for every id.
	LoadErr error
}

// Recent returns the newest limit records in chronological order.
// A limit of zero or less returns everything.
func (s *StubStore) Recent(ctx context.Context, limit int) ([]history.Record, error) {
	if s.RecentErr != nil {
		return nil, s.RecentErr
	}
	recs := s.Records
	if limit > 0 && len(recs) > limit {
		recs = recs[len(recs)-limit:]
	}
	out := make([]history.Record, len(recs))
	copy(out, recs)
	return out, nil
}

// Load returns the record with the given id, or an error if no record
// has that id.
func (s *StubStore) Load(ctx context.Context, id string) (*history.Record, error) {
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	for i := range s.Records {
		if s.Records[i].ID == id {
			rec := s.Records[i]
			return &rec, nil
		}
	}
	return nil, fmt.Errorf("load %s: history record not found", id)
}
