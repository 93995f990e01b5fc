package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"strive-tracker/internal/api"
	"strive-tracker/internal/constants"
	"strive-tracker/internal/domain"
	"strive-tracker/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type UserService struct {
	client *api.GGSTClient
	repo   *repository.PlayerRepository
	logger zerolog.Logger
}

func NewUserService(client *api.GGSTClient, repo *repository.PlayerRepository, logger zerolog.Logger) *UserService {
	return &UserService{client: client, repo: repo, logger: logger}
}

// GetUser resolves a Steam id to a profile, serving from the database
// while the stored row is fresh and hitting the statistics service
// otherwise.
func (s *UserService) GetUser(ctx context.Context, steamID string, refresh bool) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	s.logger.Info().Str("steam_id", steamID).Bool("refresh", refresh).Msg("getting user")

	shouldRefresh, err := s.repo.ShouldRefresh(ctx, steamID, constants.UserRefreshTTL)
	if err != nil {
		return nil, err
	}
	if refresh {
		shouldRefresh = true
	}

	if !shouldRefresh {
		user, err := s.repo.GetBySteamID(ctx, steamID)
		if err == nil {
			s.logger.Info().Str("steam_id", steamID).Msg("returning cached user")
			return user, nil
		}
		if !errors.Is(err, repository.ErrPlayerNotFound) {
			return nil, err
		}
	}

	apiCtx, apiCancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer apiCancel()

	userID, err := s.client.GetUserID(apiCtx, steamID)
	if err != nil {
		s.logger.Error().Err(err).Str("steam_id", steamID).Msg("failed to resolve user id")
		return nil, fmt.Errorf("failed to resolve user id: %w", err)
	}

	stats, err := s.client.GetUserStats(apiCtx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to fetch user stats")
		return nil, fmt.Errorf("failed to fetch user stats: %w", err)
	}

	user := &domain.User{
		ID:          userID,
		SteamID:     steamID,
		Name:        stats.NickName,
		Comment:     stats.PublicComment,
		LastFetchAt: time.Now(),
	}

	if err := s.repo.Upsert(ctx, user); err != nil {
		s.logger.Error().Err(err).Str("steam_id", steamID).Msg("failed to upsert user")
		return nil, err
	}

	g := new(errgroup.Group)
	g.Go(func() error {
		time.Sleep(constants.LastFetchDelay)
		if err := s.repo.SetLastFetchAt(steamID, time.Now()); err != nil {
			s.logger.Warn().Err(err).Str("steam_id", steamID).Msg("failed to set last fetch at")
			return err
		}
		return nil
	})

	go func() {
		if err := g.Wait(); err != nil {
			s.logger.Error().Err(err).Msg("background task failed")
		}
	}()

	s.logger.Info().Str("steam_id", steamID).Str("user_id", userID).Msg("user fetched successfully")
	return user, nil
}
