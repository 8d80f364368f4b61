// Package daemon keeps the fish history file reconciled in the
// background: once at startup, on a cron schedule, and whenever the
// file is replaced or removed from outside.
package daemon

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Dronakurl/atuin/internal/config"
	"github.com/Dronakurl/atuin/internal/shadow"
)

// debounce is how long the daemon waits after a file event before
// reconciling, so that a burst of events causes a single pass.
const debounce = 500 * time.Millisecond

// Config holds the dependencies for the daemon.
type Config struct {
	Settings config.Settings
	Store    shadow.Store
}

// Daemon supervises the reconcile loops.
type Daemon struct {
	settings config.Settings
	store    shadow.Store
	syncer   *shadow.Syncer
}

// New creates a daemon from its dependencies.
func New(cfg Config) *Daemon {
	return &Daemon{
		settings: cfg.Settings,
		store:    cfg.Store,
		syncer:   &shadow.Syncer{Settings: cfg.Settings.FishSync},
	}
}

// Run blocks until ctx is cancelled or a component fails. With fish
// sync disabled it parks until cancellation instead of exiting, so a
// process supervisor does not restart-loop the daemon.
func (d *Daemon) Run(ctx context.Context) error {
	fs := d.settings.FishSync
	if !fs.Enabled {
		slog.Info("fish sync is disabled, daemon idle")
		<-ctx.Done()
		return ctx.Err()
	}

	if fs.SyncOnStartup {
		d.reconcile(ctx, "startup")
	}

	g, ctx := errgroup.WithContext(ctx)

	if fs.SyncAllOnDaemon {
		sched := newScheduler(fs.Schedule, func(ctx context.Context) {
			d.reconcile(ctx, "schedule")
		})
		g.Go(func() error {
			return sched.run(ctx)
		})
	}

	w := newWatcher(config.ExpandTilde(fs.HistoryPath))
	g.Go(func() error {
		return w.run(ctx)
	})
	g.Go(func() error {
		return d.reconcileLoop(ctx, w.Events())
	})

	return g.Wait()
}

// reconcile runs one pass, logging failures instead of stopping the
// daemon.
func (d *Daemon) reconcile(ctx context.Context, trigger string) {
	synced, err := d.syncer.Reconcile(ctx, d.store)
	if err != nil {
		slog.Error("reconcile failed", "trigger", trigger, "error", err)
		return
	}
	slog.Debug("reconcile finished", "trigger", trigger, "synced", synced)
}

// reconcileLoop turns watcher events into reconcile passes. Events
// arriving within the debounce window are coalesced into one pass.
func (d *Daemon) reconcileLoop(ctx context.Context, events <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-events:
			if !ok {
				return nil
			}
		}

		timer := time.NewTimer(debounce)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

	drain:
		for {
			select {
			case _, ok := <-events:
				if !ok {
					return nil
				}
			default:
				break drain
			}
		}

		d.reconcile(ctx, "watch")
	}
}
