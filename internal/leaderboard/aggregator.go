// Package leaderboard maintains the per-day top list of winners and derives
// multi-day player statistics from it.
package leaderboard

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"semord/internal/store"
	"semord/internal/types"
)

// MaxEntries is the size of each day's leaderboard.
const MaxEntries = 5

// DefaultPlayerName is recorded for wins submitted without a name.
const DefaultPlayerName = "Anonym"

const dateLayout = "2006-01-02"

// Aggregator records wins into day buckets held by a store.Store.
type Aggregator struct {
	store store.Store
	match MatchMode

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithMatchMode sets how StatsForPlayer matches player names.
func WithMatchMode(m MatchMode) Option {
	return func(a *Aggregator) { a.match = m }
}

// New builds an Aggregator over s.
func New(s store.Store, opts ...Option) *Aggregator {
	a := &Aggregator{
		store: s,
		match: MatchContains,
		locks: make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// dayLock serializes writers of one day. Only RecordWin creates locks.
func (a *Aggregator) dayLock(day string) *sync.Mutex {
	a.mu.Lock()
	defer a.mu.Unlock()
	l, ok := a.locks[day]
	if !ok {
		l = &sync.Mutex{}
		a.locks[day] = l
	}
	return l
}

// ForgetBefore drops day locks older than day. Called after the store is pruned.
func (a *Aggregator) ForgetBefore(day string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for d := range a.locks {
		if d < day {
			delete(a.locks, d)
		}
	}
}

// RecordWin adds entry to the day's bucket, keeping it sorted ascending by guess
// count (earlier submissions first on ties) and capped at MaxEntries.
func (a *Aggregator) RecordWin(ctx context.Context, day string, entry types.LeaderboardEntry) ([]types.LeaderboardEntry, error) {
	if entry.PlayerName == "" {
		entry.PlayerName = DefaultPlayerName
	}
	if entry.Attempts == nil {
		entry.Attempts = []string{}
	}

	l := a.dayLock(day)
	l.Lock()
	defer l.Unlock()

	if err := a.store.Append(ctx, day, entry); err != nil {
		return nil, fmt.Errorf("appending to leaderboard %s: %w", day, err)
	}
	entries, err := a.store.Read(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("reading leaderboard %s: %w", day, err)
	}

	ranked := rank(entries)
	if !sameOrder(entries, ranked) {
		if err := a.store.Replace(ctx, day, ranked); err != nil {
			return nil, fmt.Errorf("trimming leaderboard %s: %w", day, err)
		}
	}
	return ranked, nil
}

// TopForDay returns the day's leaderboard, possibly empty but never nil.
// Reads take no day lock, so a bucket caught between RecordWin's append and trim
// is ranked here as well.
func (a *Aggregator) TopForDay(ctx context.Context, day string) ([]types.LeaderboardEntry, error) {
	entries, err := a.store.Read(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("reading leaderboard %s: %w", day, err)
	}
	return rank(entries), nil
}

// HistoricalRange returns daysBack consecutive days ending at from, newest first.
func (a *Aggregator) HistoricalRange(ctx context.Context, daysBack int, from time.Time) ([]types.DayBoard, error) {
	boards := make([]types.DayBoard, 0, daysBack)
	for i := 0; i < daysBack; i++ {
		day := from.AddDate(0, 0, -i).Format(dateLayout)
		entries, err := a.TopForDay(ctx, day)
		if err != nil {
			return nil, err
		}
		boards = append(boards, types.DayBoard{Date: day, Entries: entries, Count: len(entries)})
	}
	return boards, nil
}

// rank returns a stably sorted copy of entries truncated to MaxEntries. The result
// is never nil.
func rank(entries []types.LeaderboardEntry) []types.LeaderboardEntry {
	ranked := append(make([]types.LeaderboardEntry, 0, len(entries)), entries...)
	slices.SortStableFunc(ranked, func(x, y types.LeaderboardEntry) int {
		return x.GuessCount - y.GuessCount
	})
	if len(ranked) > MaxEntries {
		ranked = ranked[:MaxEntries]
	}
	return ranked
}

func sameOrder(a, b []types.LeaderboardEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].PlayerName != b[i].PlayerName || a[i].GuessCount != b[i].GuessCount || !a[i].Timestamp.Equal(b[i].Timestamp) {
			return false
		}
	}
	return true
}
