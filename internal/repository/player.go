package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"strive-tracker/internal/domain"

	"github.com/rs/zerolog"
)

var ErrPlayerNotFound = errors.New("player not found")

type PlayerRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPlayerRepository(db *sql.DB, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{db: db, logger: logger}
}

func (r *PlayerRepository) GetBySteamID(ctx context.Context, steamID string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT steam_id, user_id, name, comment, last_fetch_at, created_at, updated_at
		FROM players WHERE steam_id = ?`, steamID)

	var u domain.User
	err := row.Scan(&u.SteamID, &u.ID, &u.Name, &u.Comment, &u.LastFetchAt, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PlayerRepository) Upsert(ctx context.Context, user *domain.User) error {
	now := time.Now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO players (steam_id, user_id, name, comment, last_fetch_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (steam_id) DO UPDATE SET
			user_id = excluded.user_id,
			name = excluded.name,
			comment = excluded.comment,
			updated_at = excluded.updated_at`,
		user.SteamID, user.ID, user.Name, user.Comment, user.LastFetchAt, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert player: %w", err)
	}
	return nil
}

// ShouldRefresh reports whether the stored profile is older than ttl.
// Unknown players always refresh.
func (r *PlayerRepository) ShouldRefresh(ctx context.Context, steamID string, ttl time.Duration) (bool, error) {
	var lastFetchAt time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT last_fetch_at FROM players WHERE steam_id = ?`, steamID).Scan(&lastFetchAt)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return time.Since(lastFetchAt) > ttl, nil
}

func (r *PlayerRepository) SetLastFetchAt(steamID string, t time.Time) error {
	_, err := r.db.Exec(`UPDATE players SET last_fetch_at = ? WHERE steam_id = ?`, t, steamID)
	if err != nil {
		return fmt.Errorf("failed to set last fetch at: %w", err)
	}
	return nil
}
