package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"semord/internal/puzzle"
	"semord/internal/store"
)

// snapshotter is implemented by stores that can persist themselves to a file.
type snapshotter interface {
	SaveSnapshot(path string) error
	LoadSnapshot(path string) error
}

// openStore returns the configured backend.
func openStore(ctx context.Context, cfg *Config) (store.Store, error) {
	switch cfg.store {
	case StorePostgres:
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		st, err := store.NewPostgresStore(ctx, cfg.databaseURL)
		if err != nil {
			return nil, fmt.Errorf("opening postgres store: %w", err)
		}
		return st, nil
	default:
		logInfo("Using in-memory store")
		return store.NewMemoryStore(), nil
	}
}

// loadSnapshot restores a memory store from SnapshotPath. A missing or corrupt file
// leaves the store empty.
func (app *App) loadSnapshot() {
	snap, ok := app.Store.(snapshotter)
	if !ok || app.SnapshotPath == "" {
		return
	}
	err := snap.LoadSnapshot(app.SnapshotPath)
	switch {
	case err == nil:
		logInfo("Restored state from snapshot: %s", app.SnapshotPath)
	case os.IsNotExist(err):
		logInfo("No snapshot found at %s, starting empty", app.SnapshotPath)
	default:
		logWarn("Failed to load snapshot %s, starting empty: %v", app.SnapshotPath, err)
	}
}

// saveSnapshot writes a memory store to SnapshotPath.
func (app *App) saveSnapshot() {
	snap, ok := app.Store.(snapshotter)
	if !ok || app.SnapshotPath == "" {
		return
	}
	if err := snap.SaveSnapshot(app.SnapshotPath); err != nil {
		logWarn("Failed to save snapshot %s: %v", app.SnapshotPath, err)
		return
	}
	logInfo("Saved snapshot: %s", app.SnapshotPath)
}

// pruneExpired removes sessions and leaderboards older than RetentionDays.
func (app *App) pruneExpired(ctx context.Context) (int, error) {
	if app.RetentionDays <= 0 {
		return 0, nil
	}
	cutoff := puzzle.DateKey(app.Selector.Today().AddDate(0, 0, -app.RetentionDays))
	logInfo("Starting cleanup of state older than %s", cutoff)

	removed, err := app.Store.Prune(ctx, cutoff)
	if err != nil {
		logWarn("Failed to prune state before %s: %v", cutoff, err)
		return removed, err
	}
	app.Board.ForgetBefore(cutoff)
	logInfo("State cleanup completed: removed %d records", removed)
	return removed, nil
}

// runJanitor prunes expired state and refreshes the snapshot every interval until
// ctx is done.
func (app *App) runJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	_, _ = app.pruneExpired(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = app.pruneExpired(ctx)
			app.saveSnapshot()
		}
	}
}
