package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"semord/internal/types"
)

// PostgresStore persists sessions and leaderboards in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to databaseURL and bootstraps the schema.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("error parsing database URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	store := &PostgresStore{pool: pool}
	if err := store.initSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error initializing schema: %w", err)
	}

	log.Println("[INFO] Connected to PostgreSQL database")
	return store, nil
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS player_state (
			kind VARCHAR(32) NOT NULL,
			day DATE NOT NULL,
			id VARCHAR(255) NOT NULL,
			value VARCHAR(64) NOT NULL,
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (kind, day, id)
		);

		CREATE TABLE IF NOT EXISTS leaderboard_entries (
			day DATE NOT NULL,
			position INTEGER NOT NULL,
			player_name VARCHAR(255) NOT NULL,
			guess_count INTEGER NOT NULL,
			recorded_at TIMESTAMPTZ NOT NULL,
			attempts JSONB NOT NULL DEFAULT '[]',
			PRIMARY KEY (day, position)
		);

		CREATE INDEX IF NOT EXISTS idx_player_state_day ON player_state(day);
	`
	_, err := s.pool.Exec(ctx, schema)
	return err
}

func (s *PostgresStore) Get(ctx context.Context, key Key) (string, bool, error) {
	var value string
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM player_state WHERE kind = $1 AND day = $2::date AND id = $3`,
		string(key.Kind), key.Day, key.ID,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *PostgresStore) SetIfAbsent(ctx context.Context, key Key, value string) (string, bool, error) {
	// The inserted row is invisible to the second SELECT of the same statement, so
	// exactly one branch returns a row.
	query := `
		WITH ins AS (
			INSERT INTO player_state (kind, day, id, value)
			VALUES ($1, $2::date, $3, $4)
			ON CONFLICT (kind, day, id) DO NOTHING
			RETURNING value
		)
		SELECT value, TRUE FROM ins
		UNION ALL
		SELECT value, FALSE FROM player_state WHERE kind = $1 AND day = $2::date AND id = $3
		LIMIT 1
	`
	var stored string
	var created bool
	err := s.pool.QueryRow(ctx, query, string(key.Kind), key.Day, key.ID, value).Scan(&stored, &created)
	if errors.Is(err, pgx.ErrNoRows) {
		// A concurrent insert committed after this statement's snapshot was taken:
		// the insert hit the conflict and the select could not see the row yet.
		stored, ok, err := s.Get(ctx, key)
		if err != nil {
			return "", false, err
		}
		if !ok {
			return "", false, fmt.Errorf("record %s/%s/%s vanished after conflict", key.Kind, key.Day, key.ID)
		}
		return stored, false, nil
	}
	if err != nil {
		return "", false, err
	}
	return stored, created, nil
}

func (s *PostgresStore) Append(ctx context.Context, day string, entry types.LeaderboardEntry) error {
	attempts, err := json.Marshal(nonNil(entry.Attempts))
	if err != nil {
		return err
	}
	query := `
		INSERT INTO leaderboard_entries (day, position, player_name, guess_count, recorded_at, attempts)
		SELECT $1::date, COALESCE(MAX(position) + 1, 0), $2, $3, $4, $5::jsonb
		FROM leaderboard_entries WHERE day = $1::date
	`
	_, err = s.pool.Exec(ctx, query, day, entry.PlayerName, entry.GuessCount, entry.Timestamp, string(attempts))
	return err
}

func (s *PostgresStore) Read(ctx context.Context, day string) ([]types.LeaderboardEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT player_name, guess_count, recorded_at, attempts
		FROM leaderboard_entries
		WHERE day = $1::date
		ORDER BY position
	`, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []types.LeaderboardEntry{}
	for rows.Next() {
		var entry types.LeaderboardEntry
		var attempts []byte
		var recordedAt time.Time
		if err := rows.Scan(&entry.PlayerName, &entry.GuessCount, &recordedAt, &attempts); err != nil {
			return nil, err
		}
		entry.Timestamp = recordedAt.UTC()
		if err := json.Unmarshal(attempts, &entry.Attempts); err != nil {
			return nil, fmt.Errorf("decoding attempts for %s: %w", day, err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *PostgresStore) Replace(ctx context.Context, day string, entries []types.LeaderboardEntry) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM leaderboard_entries WHERE day = $1::date`, day); err != nil {
		return err
	}
	for i, entry := range entries {
		attempts, err := json.Marshal(nonNil(entry.Attempts))
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO leaderboard_entries (day, position, player_name, guess_count, recorded_at, attempts)
			VALUES ($1::date, $2, $3, $4, $5, $6::jsonb)
		`, day, i, entry.PlayerName, entry.GuessCount, entry.Timestamp, string(attempts))
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) Prune(ctx context.Context, before string) (int, error) {
	state, err := s.pool.Exec(ctx, `DELETE FROM player_state WHERE day < $1::date`, before)
	if err != nil {
		return 0, err
	}
	entries, err := s.pool.Exec(ctx, `DELETE FROM leaderboard_entries WHERE day < $1::date`, before)
	if err != nil {
		return int(state.RowsAffected()), err
	}
	return int(state.RowsAffected() + entries.RowsAffected()), nil
}

// Close closes the database connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
