package leaderboard

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/samber/lo"

	"semord/internal/types"
)

// MatchMode controls how a stats identifier is compared to leaderboard names.
type MatchMode string

const (
	// MatchContains matches names equal to or containing the identifier, ignoring case.
	MatchContains MatchMode = "contains"
	// MatchExact requires the name to equal the identifier.
	MatchExact MatchMode = "exact"
)

// ParseMatchMode parses a configured match mode.
func ParseMatchMode(s string) (MatchMode, error) {
	switch m := MatchMode(strings.ToLower(strings.TrimSpace(s))); m {
	case MatchContains, MatchExact:
		return m, nil
	case "":
		return MatchContains, nil
	default:
		return "", fmt.Errorf("unknown stats match mode %q: want contains or exact", s)
	}
}

func (m MatchMode) matches(name, identifier string) bool {
	if name == identifier {
		return true
	}
	if m == MatchExact {
		return false
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(identifier))
}

// StatsForPlayer scans daysBack days ending at from for entries matching identifier.
// Days are walked oldest to newest so WinStreak is the run that ends at from; an
// older run that was broken before from only counts toward LongestWinStreak.
// DailyResults are returned newest first.
func (a *Aggregator) StatsForPlayer(ctx context.Context, identifier string, daysBack int, from time.Time) (types.PlayerStats, error) {
	stats := types.PlayerStats{
		PlayerID:     identifier,
		DailyResults: []types.DailyResult{},
	}

	current, totalGuesses := 0, 0
	for i := daysBack - 1; i >= 0; i-- {
		day := from.AddDate(0, 0, -i).Format(dateLayout)
		entries, err := a.TopForDay(ctx, day)
		if err != nil {
			return types.PlayerStats{}, fmt.Errorf("computing stats for %q: %w", identifier, err)
		}

		entry, position, found := lo.FindIndexOf(entries, func(e types.LeaderboardEntry) bool {
			return a.match.matches(e.PlayerName, identifier)
		})
		if !found {
			current = 0
			continue
		}

		stats.TotalWins++
		stats.TotalDaysPlayed++
		totalGuesses += entry.GuessCount
		if stats.BestScore == 0 || entry.GuessCount < stats.BestScore {
			stats.BestScore = entry.GuessCount
		}
		stats.DailyResults = append(stats.DailyResults, types.DailyResult{
			Date:      day,
			Guesses:   entry.GuessCount,
			Position:  position + 1,
			Timestamp: entry.Timestamp,
		})

		current++
		stats.LongestWinStreak = max(stats.LongestWinStreak, current)
	}
	stats.WinStreak = current

	if stats.TotalWins > 0 {
		stats.AverageGuesses = int(math.Round(float64(totalGuesses) / float64(stats.TotalWins)))
	}
	stats.DailyResults = lo.Reverse(stats.DailyResults)
	return stats, nil
}
