package types

import "time"

type LeaderboardEntry struct {
	PlayerName string    `json:"playerName"`
	GuessCount int       `json:"guesses"`
	Timestamp  time.Time `json:"timestamp"`
	Attempts   []string  `json:"attempts"`
}

type DayBoard struct {
	Date    string             `json:"date"`
	Entries []LeaderboardEntry `json:"leaderboard"`
	Count   int                `json:"winnerCount"`
}

type DailyResult struct {
	Date      string    `json:"date"`
	Guesses   int       `json:"guesses"`
	Position  int       `json:"position"`
	Timestamp time.Time `json:"timestamp"`
}

type PlayerStats struct {
	PlayerID         string        `json:"playerId"`
	TotalWins        int           `json:"totalWins"`
	TotalDaysPlayed  int           `json:"totalDaysPlayed"`
	BestScore        int           `json:"bestScore,omitempty"`
	AverageGuesses   int           `json:"averageGuesses"`
	// WinStreak is the run of consecutive wins ending at the newest day of the
	// window. It is zero when that day was not won.
	WinStreak        int           `json:"winStreak"`
	LongestWinStreak int           `json:"longestWinStreak"`
	DailyResults     []DailyResult `json:"dailyResults"`
}
