package main

import "semord/internal/types"

type contextKey string

// validateWordRequest is the body of POST /api/validate-word.
type validateWordRequest struct {
	Word string `json:"word"`
}

// similarityRequest is the body of POST /api/calculate-similarity.
type similarityRequest struct {
	Guess      string `json:"guess"`
	TargetWord string `json:"targetWord"`
}

// gameResultRequest is the body of POST /api/save-game-result. Won is a pointer so
// a missing field can be told apart from false.
type gameResultRequest struct {
	PlayerID   string   `json:"playerId"`
	PlayerName string   `json:"playerName"`
	TargetWord string   `json:"targetWord"`
	Guesses    int      `json:"guesses"`
	Attempts   []string `json:"attempts"`
	Won        *bool    `json:"won"`
}

// giveUpRequest is the body of POST /api/give-up.
type giveUpRequest struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

type dailyWordResponse struct {
	Word    string `json:"word"`
	Date    string `json:"date"`
	Message string `json:"message"`
}

type validateWordResponse struct {
	IsValid bool   `json:"isValid"`
	Word    string `json:"word"`
	Message string `json:"message"`
}

type similarityResponse struct {
	Similarity     float64 `json:"similarity"`
	SimilarityText string  `json:"similarityText"`
	Band           string  `json:"band"`
	IsValid        bool    `json:"isValid"`
	IsCorrect      bool    `json:"isCorrect"`
}

type roundResponse struct {
	Success  bool   `json:"success"`
	Recorded bool   `json:"recorded"`
	Outcome  string `json:"outcome"`
	Date     string `json:"date"`
	Message  string `json:"message,omitempty"`
}

type playerStatusResponse struct {
	PlayerID  string `json:"playerId"`
	Date      string `json:"date"`
	HasPlayed bool   `json:"hasPlayed"`
	Outcome   string `json:"outcome"`
	Message   string `json:"message"`
}

type dailyLeaderboardResponse struct {
	types.DayBoard
	Message string `json:"message"`
}

type historicalResponse struct {
	HistoricalData []types.DayBoard `json:"historicalData"`
	Message        string           `json:"message"`
}

type playerStatsResponse struct {
	types.PlayerStats
	Message string `json:"message"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	IsValid *bool  `json:"isValid,omitempty"`
}
