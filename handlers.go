package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"semord/internal/game"
	"semord/internal/puzzle"
	"semord/internal/session"
)

// dailyWordHandler returns today's word, or the word for ?date=.
func (app *App) dailyWordHandler(c *gin.Context) {
	date, ok := app.dateQuery(c, "date")
	if !ok {
		return
	}
	word := app.Service.GetDailyWord(date)
	c.JSON(http.StatusOK, dailyWordResponse{
		Word:    word.Word,
		Date:    word.Date,
		Message: fmt.Sprintf("Dagens ord för %s", word.Date),
	})
}

// validateWordHandler reports whether a word is in the dictionary.
func (app *App) validateWordHandler(c *gin.Context) {
	var req validateWordRequest
	if !app.bindJSON(c, &req) {
		return
	}
	res, err := app.Service.ValidateWord(req.Word)
	if err != nil {
		app.respondError(c, err)
		return
	}
	msg := MessageNotInDictionary
	if res.IsValid {
		msg = MessageValidWord
	}
	c.JSON(http.StatusOK, validateWordResponse{IsValid: res.IsValid, Word: res.Word, Message: msg})
}

// similarityHandler scores a guess against the target word.
func (app *App) similarityHandler(c *gin.Context) {
	var req similarityRequest
	if !app.bindJSON(c, &req) {
		return
	}
	score, err := app.Service.ScoreGuess(req.Guess, req.TargetWord)
	if err != nil {
		app.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, similarityResponse{
		Similarity:     score.Similarity,
		SimilarityText: score.Label,
		Band:           string(score.Band),
		IsValid:        true,
		IsCorrect:      score.IsCorrect,
	})
}

// saveGameResultHandler records a finished round.
func (app *App) saveGameResultHandler(c *gin.Context) {
	var req gameResultRequest
	if !app.bindJSON(c, &req) {
		return
	}
	if req.Won == nil {
		app.respondError(c, &game.ValidationError{Field: "won", Reason: "won must be a boolean"})
		return
	}

	ctx := c.Request.Context()
	out, err := app.Service.RecordRoundResult(ctx, game.RoundResult{
		PlayerID:   playerIDFrom(c, req.PlayerID),
		PlayerName: req.PlayerName,
		TargetWord: req.TargetWord,
		Attempts:   req.Attempts,
		Guesses:    req.Guesses,
		Won:        *req.Won,
	})
	if err != nil {
		app.respondError(c, err)
		return
	}
	if !out.Recorded {
		logInfoCtx(ctx, "Player %s already finished %s as %s, result ignored", out.PlayerID, out.Date, out.Outcome)
	}

	resp := roundResponse{Success: true, Recorded: out.Recorded, Outcome: string(out.Outcome), Date: out.Date}
	if !out.Recorded {
		resp.Message = MessageAlreadyPlayed
	}
	c.JSON(http.StatusOK, resp)
}

// giveUpHandler marks the player's day as given up.
func (app *App) giveUpHandler(c *gin.Context) {
	var req giveUpRequest
	if c.Request.ContentLength != 0 && !app.bindJSON(c, &req) {
		return
	}
	out, err := app.Service.RecordGiveUp(c.Request.Context(), playerIDFrom(c, req.PlayerID), req.PlayerName)
	if err != nil {
		app.respondError(c, err)
		return
	}
	msg := MessageGaveUp
	if !out.Recorded && out.Outcome != session.GaveUp {
		msg = MessageAlreadyPlayed
	}
	c.JSON(http.StatusOK, roundResponse{
		Success:  true,
		Recorded: out.Recorded,
		Outcome:  string(out.Outcome),
		Date:     out.Date,
		Message:  msg,
	})
}

// playerStatusHandler reports whether the player already played today (or ?date=).
func (app *App) playerStatusHandler(c *gin.Context) {
	date, ok := app.dateQuery(c, "date")
	if !ok {
		return
	}
	status, err := app.Service.GetPlayerStatus(c.Request.Context(), playerIDFrom(c, c.Param("playerId")), date)
	if err != nil {
		app.respondError(c, err)
		return
	}
	msg := MessageCanPlay
	if status.HasPlayed {
		msg = MessageAlreadyPlayed
	}
	c.JSON(http.StatusOK, playerStatusResponse{
		PlayerID:  status.PlayerID,
		Date:      status.Date,
		HasPlayed: status.HasPlayed,
		Outcome:   string(status.Outcome),
		Message:   msg,
	})
}

// dailyLeaderboardHandler returns the top list for today or ?date=.
func (app *App) dailyLeaderboardHandler(c *gin.Context) {
	date, ok := app.dateQuery(c, "date")
	if !ok {
		return
	}
	board, err := app.Service.GetDailyLeaderboard(c.Request.Context(), date)
	if err != nil {
		app.respondError(c, err)
		return
	}
	msg := fmt.Sprintf("Inga vinnare än för %s", board.Date)
	if board.Count > 0 {
		msg = fmt.Sprintf("Leaderboard för %s", board.Date)
	}
	app.setLeaderboardCache(c, app.dateOrToday(date))
	c.JSON(http.StatusOK, dailyLeaderboardResponse{DayBoard: board, Message: msg})
}

// historicalLeaderboardsHandler returns ?days= day boards ending at ?from=.
func (app *App) historicalLeaderboardsHandler(c *gin.Context) {
	days, ok := app.daysQuery(c)
	if !ok {
		return
	}
	from, ok := app.dateQuery(c, "from")
	if !ok {
		return
	}
	boards, err := app.Service.GetHistoricalLeaderboards(c.Request.Context(), days, from)
	if err != nil {
		app.respondError(c, err)
		return
	}
	app.setLeaderboardCache(c, app.dateOrToday(from))
	c.JSON(http.StatusOK, historicalResponse{
		HistoricalData: boards,
		Message:        fmt.Sprintf("Historiska leaderboards för senaste %d dagarna", len(boards)),
	})
}

// playerStatsHandler aggregates a player's wins over ?days= days ending at ?from=.
func (app *App) playerStatsHandler(c *gin.Context) {
	days, ok := app.daysQuery(c)
	if !ok {
		return
	}
	from, ok := app.dateQuery(c, "from")
	if !ok {
		return
	}
	identifier := c.Param("playerId")
	stats, err := app.Service.GetPlayerStats(c.Request.Context(), identifier, days, from)
	if err != nil {
		app.respondError(c, err)
		return
	}
	if days == 0 {
		days = min(game.DefaultStatsDays, app.Service.MaxDaysBack())
	}
	msg := fmt.Sprintf("Inga vinster hittades för %s över senaste %d dagarna", identifier, days)
	if stats.TotalWins > 0 {
		msg = fmt.Sprintf("Statistik för %d vinster över %d dagar", stats.TotalWins, days)
	}
	c.JSON(http.StatusOK, playerStatsResponse{PlayerStats: stats, Message: msg})
}

// healthHandler is the minimal liveness check.
func (app *App) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK", "timestamp": time.Now().UTC().Format(time.RFC3339)})
}

// healthzHandler returns a JSON health check with server stats.
func (app *App) healthzHandler(c *gin.Context) {
	uptime := time.Since(app.StartTime)
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"env":          envName(app.IsProduction),
		"words_loaded": app.Corpus.Len(),
		"unique_words": app.Corpus.Size(),
		"categories":   len(app.Corpus.Categories()),
		"today":        puzzle.DateKey(app.Selector.Today()),
		"uptime":       formatUptime(uptime),
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
	})
}

// bindJSON decodes the request body, answering 400 on malformed input.
func (app *App) bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		logWarnCtx(c.Request.Context(), "Invalid request body on %s: %v", c.FullPath(), err)
		c.JSON(http.StatusBadRequest, errorResponse{Error: ErrorInvalidRequest})
		return false
	}
	return true
}

// dateQuery parses an optional YYYY-MM-DD query parameter. The zero time means
// absent.
func (app *App) dateQuery(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, true
	}
	d, err := app.Selector.ParseDate(raw)
	if err != nil {
		app.respondError(c, &game.ValidationError{Field: name, Reason: err.Error()})
		return time.Time{}, false
	}
	return d, true
}

// daysQuery parses ?days=. Zero means the operation's default.
func (app *App) daysQuery(c *gin.Context) (int, bool) {
	raw := c.Query("days")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		app.respondError(c, &game.ValidationError{Field: "days", Reason: "days must be a positive integer"})
		return 0, false
	}
	return n, true
}

func (app *App) dateOrToday(d time.Time) time.Time {
	if d.IsZero() {
		return app.Selector.Today()
	}
	return d
}

// respondError maps game errors to HTTP responses.
func (app *App) respondError(c *gin.Context, err error) {
	var verr *game.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, errorResponse{Error: verr.Reason, Field: verr.Field})
	case errors.Is(err, game.ErrDictionaryMiss):
		invalid := false
		c.JSON(http.StatusBadRequest, errorResponse{Error: MessageNotInDictionary, IsValid: &invalid})
	default:
		logWarnCtx(c.Request.Context(), "Request %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: ErrorInternal})
	}
}
