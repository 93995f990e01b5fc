package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"strive-tracker/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type ReplayRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewReplayRepository(db *sql.DB, logger zerolog.Logger) *ReplayRepository {
	return &ReplayRepository{db: db, logger: logger}
}

// UpsertBatch stores decoded matches in one transaction. Replays are
// immutable, so a record whose full field set is already present is
// skipped rather than rewritten. Player ids always fit in 63 bits (18
// decimal digits), the int64 conversion cannot overflow.
func (r *ReplayRepository) UpsertBatch(ctx context.Context, matches []domain.Match) error {
	if len(matches) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO replays (id, floor, played_at, p1_id, p1_name, p1_character,
			p2_id, p2_name, p2_character, winner)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range matches {
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate nanoid: %w", err)
		}

		_, err = stmt.ExecContext(ctx, id,
			int64(m.Floor), m.Timestamp,
			int64(m.Players[0].ID), m.Players[0].Name, int64(m.Players[0].Character),
			int64(m.Players[1].ID), m.Players[1].Name, int64(m.Players[1].Character),
			int64(m.Winner))
		if err != nil {
			return fmt.Errorf("failed to insert replay: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit replays: %w", err)
	}

	r.logger.Debug().Int("count", len(matches)).Msg("replay batch stored")
	return nil
}

// List returns stored replays within a floor range, newest first.
func (r *ReplayRepository) List(ctx context.Context, minFloor, maxFloor domain.Floor, limit int) ([]domain.Match, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT floor, played_at, p1_id, p1_name, p1_character,
			p2_id, p2_name, p2_character, winner
		FROM replays
		WHERE floor >= ? AND floor <= ?
		ORDER BY played_at DESC
		LIMIT ?`,
		int64(minFloor), int64(maxFloor), int64(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []domain.Match
	for rows.Next() {
		var (
			floor, p1Char, p2Char, winner int64
			p1ID, p2ID                    int64
			p1Name, p2Name                string
			playedAt                      time.Time
		)
		if err := rows.Scan(&floor, &playedAt, &p1ID, &p1Name, &p1Char,
			&p2ID, &p2Name, &p2Char, &winner); err != nil {
			return nil, err
		}
		matches = append(matches, domain.Match{
			Floor:     domain.Floor(floor),
			Timestamp: playedAt.UTC(),
			Players: [2]domain.Player{
				{ID: uint64(p1ID), Name: p1Name, Character: domain.Character(p1Char)},
				{ID: uint64(p2ID), Name: p2Name, Character: domain.Character(p2Char)},
			},
			Winner: domain.Winner(winner),
		})
	}
	return matches, rows.Err()
}

func (r *ReplayRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM replays`).Scan(&n)
	return n, err
}
