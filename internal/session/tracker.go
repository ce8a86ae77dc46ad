// Package session gates each player to one round per calendar day.
package session

import (
	"context"
	"fmt"
	"strings"

	"semord/internal/store"
)

// AnonymousPlayer is used when a request carries no player id.
const AnonymousPlayer = "anonymous"

// Outcome is the state of a (player, day) pair.
type Outcome string

const (
	NotPlayed Outcome = "not_played"
	Won       Outcome = "won"
	GaveUp    Outcome = "gave_up"
)

// Valid reports whether o is a terminal outcome that may be recorded.
func (o Outcome) Valid() bool {
	return o == Won || o == GaveUp
}

// Tracker records per-player, per-day outcomes. Won and GaveUp are terminal for the
// day: the first recorded outcome sticks.
type Tracker struct {
	store store.Store
}

// NewTracker builds a Tracker over s.
func NewTracker(s store.Store) *Tracker {
	return &Tracker{store: s}
}

// PlayerID normalizes a player id, defaulting to AnonymousPlayer.
func PlayerID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return AnonymousPlayer
	}
	return id
}

func key(playerID, day string) store.Key {
	return store.Key{Kind: store.KindSession, Day: day, ID: PlayerID(playerID)}
}

// Outcome returns the recorded outcome for the player on day, or NotPlayed.
func (t *Tracker) Outcome(ctx context.Context, playerID, day string) (Outcome, error) {
	v, ok, err := t.store.Get(ctx, key(playerID, day))
	if err != nil {
		return NotPlayed, fmt.Errorf("reading session %s/%s: %w", PlayerID(playerID), day, err)
	}
	if !ok {
		return NotPlayed, nil
	}
	return Outcome(v), nil
}

// HasPlayed reports whether the player already finished a round on day.
func (t *Tracker) HasPlayed(ctx context.Context, playerID, day string) (bool, error) {
	o, err := t.Outcome(ctx, playerID, day)
	if err != nil {
		return false, err
	}
	return o != NotPlayed, nil
}

// MarkPlayed records outcome for the player on day. Re-marking an already recorded
// key is a no-op; the stored outcome is returned with recorded=false.
func (t *Tracker) MarkPlayed(ctx context.Context, playerID, day string, outcome Outcome) (stored Outcome, recorded bool, err error) {
	if !outcome.Valid() {
		return NotPlayed, false, fmt.Errorf("invalid outcome %q", outcome)
	}
	v, created, err := t.store.SetIfAbsent(ctx, key(playerID, day), string(outcome))
	if err != nil {
		return NotPlayed, false, fmt.Errorf("marking session %s/%s: %w", PlayerID(playerID), day, err)
	}
	return Outcome(v), created, nil
}
