// Package store defines the persistence contract behind the session tracker and the
// leaderboard, with an in-memory and a PostgreSQL implementation.
package store

import (
	"context"
	"errors"

	"semord/internal/types"
)

// Kind namespaces key-value records.
type Kind string

const (
	KindSession Kind = "session"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store closed")

// Key addresses a key-value record. Day is a YYYY-MM-DD date key so that retention
// can drop whole days at once.
type Key struct {
	Kind Kind   `json:"kind"`
	Day  string `json:"day"`
	ID   string `json:"id"`
}

// Store is what the core needs from persistence: get/set by key for session state and
// append/read/replace for day-bucketed leaderboard lists. Read returns entries in the
// order they were appended or last replaced.
type Store interface {
	Get(ctx context.Context, key Key) (string, bool, error)
	// SetIfAbsent stores value unless key already exists. It returns the value now
	// stored and whether this call created it.
	SetIfAbsent(ctx context.Context, key Key, value string) (string, bool, error)

	Append(ctx context.Context, day string, entry types.LeaderboardEntry) error
	Read(ctx context.Context, day string) ([]types.LeaderboardEntry, error)
	Replace(ctx context.Context, day string, entries []types.LeaderboardEntry) error

	// Prune drops every record and bucket for days strictly before the given day and
	// reports how many were removed.
	Prune(ctx context.Context, before string) (int, error)
	Close() error
}
