package service

import (
	"context"
	"errors"
	"fmt"

	"strive-tracker/internal/api"
	"strive-tracker/internal/constants"
	"strive-tracker/internal/domain"
	"strive-tracker/internal/repository"
	"strive-tracker/internal/wire"

	"github.com/rs/zerolog"
)

// ErrInvalidArguments marks caller mistakes (bad page count or floor
// range) so the server can answer 400 instead of 500.
var ErrInvalidArguments = errors.New("invalid arguments")

type ReplayService struct {
	client  *api.GGSTClient
	decoder *wire.Decoder
	repo    *repository.ReplayRepository
	logger  zerolog.Logger
}

func NewReplayService(client *api.GGSTClient, decoder *wire.Decoder, repo *repository.ReplayRepository, logger zerolog.Logger) *ReplayService {
	return &ReplayService{client: client, decoder: decoder, repo: repo, logger: logger}
}

// Fetch walks up to pages catalog pages sequentially, decodes each one
// and merges the results into a deduplicated, ordered set. A structural
// decode failure on any page aborts the whole fetch and discards what
// earlier pages produced. Decoded records are persisted before returning.
func (s *ReplayService) Fetch(ctx context.Context, pages int, minFloor, maxFloor domain.Floor) ([]domain.Match, error) {
	if pages > constants.MaxReplayPages {
		return nil, fmt.Errorf("%w: cannot query more than %d pages, got %d", ErrInvalidArguments, constants.MaxReplayPages, pages)
	}
	if minFloor > maxFloor {
		return nil, fmt.Errorf("%w: min floor %s is larger than max floor %s", ErrInvalidArguments, minFloor, maxFloor)
	}

	ctx, cancel := context.WithTimeout(ctx, constants.FetchTimeout)
	defer cancel()

	s.logger.Info().
		Int("pages", pages).
		Str("min_floor", minFloor.String()).
		Str("max_floor", maxFloor.String()).
		Msg("fetching replays")

	set := wire.NewMatchSet()
	for page := 0; page < pages; page++ {
		body, err := s.fetchPage(ctx, page, minFloor, maxFloor)
		if err != nil {
			s.logger.Error().Err(err).Int("page", page).Msg("failed to fetch replay page")
			return nil, fmt.Errorf("failed to fetch page %d: %w", page, err)
		}

		matches, err := s.decoder.Decode(body)
		if err != nil {
			s.logger.Error().Err(err).Int("page", page).Msg("failed to decode replay page")
			return nil, fmt.Errorf("failed to decode page %d: %w", page, err)
		}

		// A page with no records means the catalog ran dry; later
		// pages will be empty too.
		if len(matches) == 0 {
			s.logger.Debug().Int("page", page).Msg("empty page, stopping pagination")
			break
		}

		added := set.InsertAll(matches)
		s.logger.Debug().
			Int("page", page).
			Int("decoded", len(matches)).
			Int("new", added).
			Msg("replay page decoded")
	}

	result := set.Matches()
	if err := s.repo.UpsertBatch(ctx, result); err != nil {
		s.logger.Warn().Err(err).Msg("failed to persist replays")
	}

	s.logger.Info().Int("count", len(result)).Msg("replays fetched")
	return result, nil
}

func (s *ReplayService) fetchPage(ctx context.Context, page int, minFloor, maxFloor domain.Floor) ([]byte, error) {
	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()
	return s.client.GetReplayPage(apiCtx, page, minFloor, maxFloor)
}

// Stored returns previously persisted replays without touching the
// remote service.
func (s *ReplayService) Stored(ctx context.Context, minFloor, maxFloor domain.Floor, limit int) ([]domain.Match, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if limit <= 0 {
		limit = constants.DefaultReplayListLimit
	}
	return s.repo.List(ctx, minFloor, maxFloor, limit)
}
