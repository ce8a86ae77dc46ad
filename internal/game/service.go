// Package game exposes the transport-agnostic game operations: the daily word,
// word validation, guess scoring, round recording and leaderboard queries.
package game

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"semord/internal/corpus"
	"semord/internal/events"
	"semord/internal/leaderboard"
	"semord/internal/metrics"
	"semord/internal/puzzle"
	"semord/internal/session"
	"semord/internal/similarity"
	"semord/internal/types"
)

const (
	DefaultHistoryDays = 7
	DefaultStatsDays   = 30
	DefaultMaxDaysBack = 90
)

// Service wires the corpus, selector, session tracker and leaderboard together.
type Service struct {
	corpus      *corpus.Corpus
	selector    *puzzle.Selector
	sessions    *session.Tracker
	board       *leaderboard.Aggregator
	events      events.Publisher
	metrics     *metrics.Recorder
	maxDaysBack int
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher sends round events to p.
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.events = p
		}
	}
}

// WithMetrics records game metrics into r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(s *Service) { s.metrics = r }
}

// WithMaxDaysBack bounds the daysBack accepted by history and stats queries.
func WithMaxDaysBack(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxDaysBack = n
		}
	}
}

func NewService(c *corpus.Corpus, sel *puzzle.Selector, sessions *session.Tracker, board *leaderboard.Aggregator, opts ...Option) *Service {
	s := &Service{
		corpus:      c,
		selector:    sel,
		sessions:    sessions,
		board:       board,
		events:      events.NopPublisher{},
		maxDaysBack: DefaultMaxDaysBack,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Selector returns the daily selector used by the service.
func (s *Service) Selector() *puzzle.Selector { return s.selector }

// MaxDaysBack returns the largest accepted daysBack.
func (s *Service) MaxDaysBack() int { return s.maxDaysBack }

type DailyWord struct {
	Word string
	Date string
}

// GetDailyWord returns the word for date, or for today when date is zero.
func (s *Service) GetDailyWord(date time.Time) DailyWord {
	d := s.dateOrToday(date)
	return DailyWord{Word: s.selector.WordForDate(d), Date: puzzle.DateKey(d)}
}

type Validation struct {
	IsValid bool
	Word    string
}

// ValidateWord checks dictionary membership. A miss is reported as IsValid=false,
// not as an error.
func (s *Service) ValidateWord(word string) (Validation, error) {
	if strings.TrimSpace(word) == "" {
		return Validation{}, invalid("word", "word is required")
	}
	res := s.corpus.Lookup(word)
	return Validation{IsValid: res.InDictionary, Word: res.Normalized}, nil
}

type GuessScore struct {
	Guess      string
	Similarity float64
	Band       similarity.Band
	Label      string
	Rule       similarity.Rule
	IsCorrect  bool
}

// ScoreGuess scores guess against target. Guesses outside the dictionary fail with
// ErrDictionaryMiss.
func (s *Service) ScoreGuess(guess, target string) (GuessScore, error) {
	if strings.TrimSpace(guess) == "" {
		return GuessScore{}, invalid("guess", "guess is required")
	}
	if strings.TrimSpace(target) == "" {
		return GuessScore{}, invalid("targetWord", "targetWord is required")
	}

	lookup := s.corpus.Lookup(guess)
	if !lookup.InDictionary {
		s.metrics.RecordDictionaryMiss()
		return GuessScore{}, fmt.Errorf("%w: %q", ErrDictionaryMiss, lookup.Normalized)
	}

	res := similarity.Score(s.corpus, lookup.Normalized, target)
	s.metrics.RecordGuess(string(res.Band))
	return GuessScore{
		Guess:      lookup.Normalized,
		Similarity: res.Similarity,
		Band:       res.Band,
		Label:      res.Band.Label(),
		Rule:       res.Rule,
		IsCorrect:  res.Rule == similarity.RuleExact,
	}, nil
}

// RoundResult is a finished round as submitted by the client.
type RoundResult struct {
	PlayerID   string
	PlayerName string
	TargetWord string
	// Attempts is the guess sequence. Guesses is only used when Attempts is empty.
	Attempts []string
	Guesses  int
	Won      bool
}

// RoundOutcome reports what was recorded for a round.
type RoundOutcome struct {
	PlayerID string
	Date     string
	Outcome  session.Outcome
	// Recorded is false when the player had already finished a round that day.
	Recorded bool
}

// RecordRoundResult marks the player's day as played and, for a first-time win,
// adds the round to today's leaderboard. Won and the attempts are taken as
// reported; TargetWord must be present but is not checked against the day's word.
func (s *Service) RecordRoundResult(ctx context.Context, r RoundResult) (RoundOutcome, error) {
	if strings.TrimSpace(r.TargetWord) == "" {
		return RoundOutcome{}, invalid("targetWord", "targetWord is required")
	}
	attempts := make([]string, 0, len(r.Attempts))
	for _, a := range r.Attempts {
		if n := corpus.Normalize(a); n != "" {
			attempts = append(attempts, n)
		}
	}
	guesses := len(attempts)
	if guesses == 0 {
		guesses = r.Guesses
	}
	if guesses <= 0 {
		return RoundOutcome{}, invalid("guesses", "at least one guess is required")
	}

	playerID := session.PlayerID(r.PlayerID)
	day := puzzle.DateKey(s.selector.Today())
	outcome := session.GaveUp
	if r.Won {
		outcome = session.Won
	}

	stored, recorded, err := s.sessions.MarkPlayed(ctx, playerID, day, outcome)
	if err != nil {
		return RoundOutcome{}, internal("record round", err)
	}
	result := RoundOutcome{PlayerID: playerID, Date: day, Outcome: stored, Recorded: recorded}
	if !recorded {
		return result, nil
	}

	eventType := events.EventRoundFinished
	if r.Won {
		eventType = events.EventRoundWon
		entry := types.LeaderboardEntry{
			PlayerName: strings.TrimSpace(r.PlayerName),
			GuessCount: guesses,
			Timestamp:  time.Now().UTC(),
			Attempts:   attempts,
		}
		if _, err := s.board.RecordWin(ctx, day, entry); err != nil {
			return RoundOutcome{}, internal("record win", err)
		}
	}

	s.metrics.RecordRound(string(outcome))
	s.publish(eventType, playerID, r.PlayerName, day, guesses)
	return result, nil
}

// RecordGiveUp marks the player's day as given up.
func (s *Service) RecordGiveUp(ctx context.Context, playerID, playerName string) (RoundOutcome, error) {
	playerID = session.PlayerID(playerID)
	day := puzzle.DateKey(s.selector.Today())

	stored, recorded, err := s.sessions.MarkPlayed(ctx, playerID, day, session.GaveUp)
	if err != nil {
		return RoundOutcome{}, internal("record give up", err)
	}
	if recorded {
		s.metrics.RecordRound(string(session.GaveUp))
		s.publish(events.EventRoundGivenUp, playerID, playerName, day, 0)
	}
	return RoundOutcome{PlayerID: playerID, Date: day, Outcome: stored, Recorded: recorded}, nil
}

type PlayerStatus struct {
	PlayerID  string
	Date      string
	HasPlayed bool
	Outcome   session.Outcome
}

// GetPlayerStatus reports whether the player finished a round on date (today when zero).
func (s *Service) GetPlayerStatus(ctx context.Context, playerID string, date time.Time) (PlayerStatus, error) {
	playerID = session.PlayerID(playerID)
	day := puzzle.DateKey(s.dateOrToday(date))
	outcome, err := s.sessions.Outcome(ctx, playerID, day)
	if err != nil {
		return PlayerStatus{}, internal("player status", err)
	}
	return PlayerStatus{
		PlayerID:  playerID,
		Date:      day,
		HasPlayed: outcome != session.NotPlayed,
		Outcome:   outcome,
	}, nil
}

// GetDailyLeaderboard returns the top list for date (today when zero).
func (s *Service) GetDailyLeaderboard(ctx context.Context, date time.Time) (types.DayBoard, error) {
	day := puzzle.DateKey(s.dateOrToday(date))
	entries, err := s.board.TopForDay(ctx, day)
	if err != nil {
		return types.DayBoard{}, internal("daily leaderboard", err)
	}
	return types.DayBoard{Date: day, Entries: entries, Count: len(entries)}, nil
}

// GetHistoricalLeaderboards returns daysBack day boards ending at from, newest first.
// Zero daysBack means DefaultHistoryDays.
func (s *Service) GetHistoricalLeaderboards(ctx context.Context, daysBack int, from time.Time) ([]types.DayBoard, error) {
	days, err := s.daysBack(daysBack, DefaultHistoryDays)
	if err != nil {
		return nil, err
	}
	boards, err := s.board.HistoricalRange(ctx, days, s.dateOrToday(from))
	if err != nil {
		return nil, internal("historical leaderboards", err)
	}
	return boards, nil
}

// GetPlayerStats aggregates wins for identifier over daysBack days ending at from.
// Zero daysBack means DefaultStatsDays.
func (s *Service) GetPlayerStats(ctx context.Context, identifier string, daysBack int, from time.Time) (types.PlayerStats, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return types.PlayerStats{}, invalid("playerId", "player identifier is required")
	}
	days, err := s.daysBack(daysBack, DefaultStatsDays)
	if err != nil {
		return types.PlayerStats{}, err
	}
	stats, err := s.board.StatsForPlayer(ctx, identifier, days, s.dateOrToday(from))
	if err != nil {
		return types.PlayerStats{}, internal("player stats", err)
	}
	return stats, nil
}

func (s *Service) daysBack(n, def int) (int, error) {
	if n == 0 {
		return min(def, s.maxDaysBack), nil
	}
	if n < 1 || n > s.maxDaysBack {
		return 0, invalid("days", fmt.Sprintf("must be between 1 and %d", s.maxDaysBack))
	}
	return n, nil
}

func (s *Service) dateOrToday(d time.Time) time.Time {
	if d.IsZero() {
		return s.selector.Today()
	}
	return s.selector.Date(d)
}

func (s *Service) publish(t events.EventType, playerID, playerName, day string, guesses int) {
	s.events.Publish(events.RoundEvent{
		Type:       t,
		PlayerID:   playerID,
		PlayerName: strings.TrimSpace(playerName),
		Date:       day,
		GuessCount: guesses,
		Timestamp:  time.Now().UTC(),
	})
	log.Printf("[INFO] Round %s recorded for player %s on %s", t, playerID, day)
}
