package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"strive-tracker/internal/constants"
	"strive-tracker/internal/domain"
	"strive-tracker/internal/service"
	"strive-tracker/internal/wire"

	"github.com/rs/zerolog"
)

type TrackerServer struct {
	replaySvc *service.ReplayService
	userSvc   *service.UserService
	logger    zerolog.Logger
}

func NewTrackerServer(replaySvc *service.ReplayService, userSvc *service.UserService, logger zerolog.Logger) *TrackerServer {
	return &TrackerServer{replaySvc: replaySvc, userSvc: userSvc, logger: logger}
}

func (s *TrackerServer) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/replays", s.handleGetReplays)
	mux.HandleFunc("GET /api/replays/stored", s.handleGetStoredReplays)
	mux.HandleFunc("GET /api/players/{steamid}", s.handleGetPlayer)
}

type playerJSON struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Character string `json:"character"`
}

type replayJSON struct {
	Floor     string        `json:"floor"`
	Timestamp string        `json:"timestamp"`
	Players   [2]playerJSON `json:"players"`
	Winner    string        `json:"winner"`
}

type replaysResponse struct {
	Count   int          `json:"count"`
	Replays []replayJSON `json:"replays"`
}

func (s *TrackerServer) handleGetReplays(w http.ResponseWriter, r *http.Request) {
	pages, minFloor, maxFloor, err := replayParams(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	matches, err := s.replaySvc.Fetch(r.Context(), pages, minFloor, maxFloor)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, toReplaysResponse(matches))
}

func (s *TrackerServer) handleGetStoredReplays(w http.ResponseWriter, r *http.Request) {
	_, minFloor, maxFloor, err := replayParams(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	matches, err := s.replaySvc.Stored(r.Context(), minFloor, maxFloor, limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toReplaysResponse(matches))
}

func (s *TrackerServer) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	steamID := r.PathValue("steamid")
	refresh := r.URL.Query().Get("refresh") == "true"

	user, err := s.userSvc.GetUser(r.Context(), steamID, refresh)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"id":       user.ID,
		"steam_id": user.SteamID,
		"name":     user.Name,
		"comment":  user.Comment,
	})
}

func replayParams(r *http.Request) (int, domain.Floor, domain.Floor, error) {
	q := r.URL.Query()

	pages := 1
	if v := q.Get("pages"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return 0, 0, 0, errors.New("pages must be a positive integer")
		}
		pages = n
	}

	minFloor, err := floorParam(q.Get("min_floor"), domain.Floor1)
	if err != nil {
		return 0, 0, 0, err
	}
	maxFloor, err := floorParam(q.Get("max_floor"), domain.FloorCelestial)
	if err != nil {
		return 0, 0, 0, err
	}
	return pages, minFloor, maxFloor, nil
}

func floorParam(v string, fallback domain.Floor) (domain.Floor, error) {
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 || n > 255 {
		return 0, errors.New("floor must be a byte value")
	}
	f, err := domain.FloorFromByte(byte(n))
	if err != nil {
		return 0, err
	}
	return f, nil
}

func toReplaysResponse(matches []domain.Match) replaysResponse {
	replays := make([]replayJSON, len(matches))
	for i, m := range matches {
		replays[i] = replayJSON{
			Floor:     m.Floor.String(),
			Timestamp: m.Timestamp.Format(constants.APITimeFormat),
			Players: [2]playerJSON{
				// Player ids exceed the float64 mantissa, send them as
				// strings.
				{ID: strconv.FormatUint(m.Players[0].ID, 10), Name: m.Players[0].Name, Character: m.Players[0].Character.String()},
				{ID: strconv.FormatUint(m.Players[1].ID, 10), Name: m.Players[1].Name, Character: m.Players[1].Character.String()},
			},
			Winner: m.Winner.String(),
		}
	}
	return replaysResponse{Count: len(replays), Replays: replays}
}

// statusFor maps the error taxonomy onto HTTP statuses: caller mistakes
// are 400, a malformed upstream response is 502, everything else 500.
func statusFor(err error) int {
	var structural *wire.StructuralError
	switch {
	case errors.Is(err, service.ErrInvalidArguments):
		return http.StatusBadRequest
	case errors.As(err, &structural):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *TrackerServer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("failed to write response")
	}
}

func (s *TrackerServer) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
