package shadow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dronakurl/atuin/internal/config"
	"github.com/Dronakurl/atuin/internal/history"
)

// Store is the slice of the primary store the syncer reads from.
type Store interface {
	// Recent returns the most recent live records in chronological
	// order. A limit of 0 or less means all records.
	Recent(ctx context.Context, limit int) ([]history.Record, error)

	// Load retrieves a single record by id.
	Load(ctx context.Context, id string) (*history.Record, error)
}

// Syncer mirrors history records into the fish history file according
// to the fish_sync settings. The zero value with default settings is a
// disabled syncer; every method on it is a no-op.
type Syncer struct {
	Settings config.FishSync

	// Installed overrides the fish installation probe. Nil means
	// FishInstalled.
	Installed func() bool
}

// shellReady reports whether fish is available, logging the skip once
// per call site at debug level.
func (s *Syncer) shellReady() bool {
	installed := s.Installed
	if installed == nil {
		installed = FishInstalled
	}
	if !installed() {
		slog.Debug("fish shell not installed, skipping sync")
		return false
	}
	return true
}

// historyPath returns the target file with a leading ~ expanded.
func (s *Syncer) historyPath() string {
	return config.ExpandTilde(s.Settings.HistoryPath)
}

// SyncOne mirrors a single record. It appends unconditionally, so it is
// meant for records that are known to be new, a freshly saved command
// for instance. Returns nil without touching the file when the mirror
// is disabled or fish is not installed.
func (s *Syncer) SyncOne(rec history.Record) error {
	if !s.Settings.Enabled {
		return nil
	}
	if !s.shellReady() {
		return nil
	}
	return Append(rec, s.historyPath(), s.Settings.MaxEntries)
}

// SyncMany mirrors a batch of records, skipping individual failures
// with a warning. Returns the number of records written.
func (s *Syncer) SyncMany(recs []history.Record) int {
	if !s.Settings.Enabled || len(recs) == 0 {
		return 0
	}
	if !s.shellReady() {
		return 0
	}

	synced := 0
	for _, rec := range recs {
		if err := s.SyncOne(rec); err != nil {
			slog.Warn("failed to sync entry to fish",
				"id", rec.ID,
				"error", err)
			continue
		}
		synced++
	}
	return synced
}

// SyncDownloaded mirrors records that just arrived from elsewhere,
// identified by id. Records that cannot be loaded or written are
// skipped with a warning. Returns the number of records written.
func (s *Syncer) SyncDownloaded(ctx context.Context, st Store, ids []string) int {
	if !s.Settings.Enabled || len(ids) == 0 {
		return 0
	}
	if !s.shellReady() {
		return 0
	}

	synced := 0
	for _, id := range ids {
		rec, err := st.Load(ctx, id)
		if err != nil {
			slog.Warn("failed to load downloaded entry",
				"id", id,
				"error", err)
			continue
		}
		if err := s.SyncOne(*rec); err != nil {
			slog.Warn("failed to sync entry to fish",
				"id", id,
				"error", err)
			continue
		}
		synced++
	}

	slog.Info("synced downloaded entries to fish history",
		"synced", synced,
		"total", len(ids))
	return synced
}

// Reconcile brings the fish history file up to date with the primary
// store. It reads the ids already mirrored and the (command, timestamp)
// pairs of every entry in the file, then appends each recent store
// record not covered by either. Individual append failures are skipped
// with a warning; scan failures abort. Returns the number of records
// written.
//
// The scan window is the newest MaxEntries records; 0 means the whole
// store.
func (s *Syncer) Reconcile(ctx context.Context, st Store) (int, error) {
	if !s.Settings.Enabled {
		return 0, nil
	}
	if !s.shellReady() {
		return 0, nil
	}

	path := s.historyPath()

	syncedIDs, err := SyncedIDs(path)
	if err != nil {
		return 0, fmt.Errorf("scan synced ids: %w", err)
	}
	native, err := NativeEntries(path)
	if err != nil {
		return 0, fmt.Errorf("scan native entries: %w", err)
	}

	records, err := st.Recent(ctx, s.Settings.MaxEntries)
	if err != nil {
		return 0, fmt.Errorf("list recent history: %w", err)
	}

	synced := 0
	for _, rec := range records {
		if _, ok := syncedIDs[rec.ID]; ok {
			continue
		}
		key := nativeKey{
			cmd:  strings.TrimSpace(rec.Command),
			when: rec.Timestamp.Unix(),
		}
		if _, ok := native[key]; ok {
			continue
		}

		if err := Append(rec, path, s.Settings.MaxEntries); err != nil {
			slog.Warn("failed to sync entry to fish",
				"id", rec.ID,
				"error", err)
			continue
		}
		// Later records with the same visible content must not be
		// appended again within this run
		native[key] = struct{}{}
		synced++
	}

	if synced > 0 {
		slog.Info("synced new entries to fish history",
			"synced", synced,
			"already_synced", len(syncedIDs))
	}
	return synced, nil
}
