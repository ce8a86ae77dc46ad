package leaderboard

import (
	"context"
	"testing"
	"time"

	"semord/internal/store"
)

func TestStatsForPlayer(t *testing.T) {
	ctx := context.Background()
	agg := New(store.NewMemoryStore())

	// Wins on 01-10, 01-11, 01-12, then a gap, then 01-14 and 01-15.
	_, _ = agg.RecordWin(ctx, "2024-01-10", win("Alice", 4, 0))
	_, _ = agg.RecordWin(ctx, "2024-01-11", win("Bob", 1, 1))
	_, _ = agg.RecordWin(ctx, "2024-01-11", win("Alice", 3, 2))
	_, _ = agg.RecordWin(ctx, "2024-01-12", win("Alice", 6, 3))
	_, _ = agg.RecordWin(ctx, "2024-01-13", win("Bob", 2, 4))
	_, _ = agg.RecordWin(ctx, "2024-01-14", win("Alice", 2, 5))
	_, _ = agg.RecordWin(ctx, "2024-01-15", win("Alice", 2, 6))

	from := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	stats, err := agg.StatsForPlayer(ctx, "alice", 30, from)
	if err != nil {
		t.Fatalf("StatsForPlayer: %v", err)
	}

	if stats.TotalWins != 5 || stats.TotalDaysPlayed != 5 {
		t.Errorf("wins/days = %d/%d, want 5/5", stats.TotalWins, stats.TotalDaysPlayed)
	}
	if stats.BestScore != 2 {
		t.Errorf("BestScore = %d, want 2", stats.BestScore)
	}
	// (4+3+6+2+2)/5 = 3.4
	if stats.AverageGuesses != 3 {
		t.Errorf("AverageGuesses = %d, want 3", stats.AverageGuesses)
	}
	if stats.WinStreak != 2 {
		t.Errorf("WinStreak = %d, want 2", stats.WinStreak)
	}
	if stats.LongestWinStreak != 3 {
		t.Errorf("LongestWinStreak = %d, want 3", stats.LongestWinStreak)
	}
	if len(stats.DailyResults) != 5 {
		t.Fatalf("DailyResults len = %d, want 5", len(stats.DailyResults))
	}
	if stats.DailyResults[0].Date != "2024-01-15" || stats.DailyResults[4].Date != "2024-01-10" {
		t.Errorf("DailyResults should be newest first: %+v", stats.DailyResults)
	}
	if stats.DailyResults[3].Date != "2024-01-11" || stats.DailyResults[3].Position != 2 {
		t.Errorf("2024-01-11 result = %+v, want position 2", stats.DailyResults[3])
	}
}

func TestWinStreakEndsAtFrom(t *testing.T) {
	ctx := context.Background()
	agg := New(store.NewMemoryStore())

	// A three day run at the start of the window, then nothing up to from.
	_, _ = agg.RecordWin(ctx, "2024-01-09", win("Alice", 3, 0))
	_, _ = agg.RecordWin(ctx, "2024-01-10", win("Alice", 3, 1))
	_, _ = agg.RecordWin(ctx, "2024-01-11", win("Alice", 3, 2))

	from := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	stats, err := agg.StatsForPlayer(ctx, "Alice", 7, from)
	if err != nil {
		t.Fatalf("StatsForPlayer: %v", err)
	}
	if stats.WinStreak != 0 || stats.LongestWinStreak != 3 {
		t.Errorf("streak/longest = %d/%d, want 0/3", stats.WinStreak, stats.LongestWinStreak)
	}
}

func TestStatsForPlayerMatchModes(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	from := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	contains := New(s)
	exact := New(s, WithMatchMode(MatchExact))
	_, _ = contains.RecordWin(ctx, "2024-01-15", win("Annika", 3, 0))

	tests := []struct {
		name       string
		agg        *Aggregator
		identifier string
		wantWins   int
	}{
		{"contains substring", contains, "ANN", 1},
		{"contains equal", contains, "Annika", 1},
		{"contains miss", contains, "bob", 0},
		{"exact substring", exact, "Ann", 0},
		{"exact equal", exact, "Annika", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats, err := tt.agg.StatsForPlayer(ctx, tt.identifier, 7, from)
			if err != nil {
				t.Fatalf("StatsForPlayer: %v", err)
			}
			if stats.TotalWins != tt.wantWins {
				t.Errorf("TotalWins = %d, want %d", stats.TotalWins, tt.wantWins)
			}
		})
	}
}

func TestStatsForPlayerNoWins(t *testing.T) {
	stats, err := New(store.NewMemoryStore()).StatsForPlayer(context.Background(), "nobody", 30, baseTime)
	if err != nil {
		t.Fatalf("StatsForPlayer: %v", err)
	}
	if stats.TotalWins != 0 || stats.BestScore != 0 || stats.AverageGuesses != 0 || stats.WinStreak != 0 {
		t.Errorf("unexpected stats for unknown player: %+v", stats)
	}
	if stats.DailyResults == nil {
		t.Error("DailyResults should be an empty list")
	}
}

func TestParseMatchMode(t *testing.T) {
	tests := []struct {
		in      string
		want    MatchMode
		wantErr bool
	}{
		{"", MatchContains, false},
		{"contains", MatchContains, false},
		{" EXACT ", MatchExact, false},
		{"fuzzy", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMatchMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseMatchMode(%q) = %q, %v", tt.in, got, err)
		}
	}
}
