package web

import (
	"bandeja/internal/back"
	"bandeja/internal/util"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

func (s *Server) getMatchHistory(w http.ResponseWriter, _ *http.Request) {
	history, err := s.back.GetMatchHistory()
	if err != nil {
		s.error(w, err, http.StatusInternalServerError)
		return
	}

	s.response(w, http.StatusOK, history)
}

type recordMatchRequest struct {
	P1 util.UUIDAsBlob `json:"p1"`
	P2 util.UUIDAsBlob `json:"p2"`
	P3 util.UUIDAsBlob `json:"p3"`
	P4 util.UUIDAsBlob `json:"p4"`

	ScoreTeam1 int `json:"score_team1"`
	ScoreTeam2 int `json:"score_team2"`
}

type recordMatchResponse struct {
	MatchID util.UUIDAsBlob `json:"match_id"`

	// DisplayRatingChangeTeam1 is the recorded team 1 delta on the 1.0-10.0
	// scale, as shown to users.
	DisplayRatingChangeTeam1 float64 `json:"display_rating_change_team1"`

	Players [4]back.Player `json:"players"`
}

func (s *Server) recordMatch(w http.ResponseWriter, r *http.Request) {
	var req recordMatchRequest
	if err := decodeJSON(r, &req); err != nil {
		s.error(w, err, http.StatusBadRequest)
		return
	}

	outcome, err := s.back.ProcessMatch(
		req.P1, req.P2, req.P3, req.P4,
		req.ScoreTeam1, req.ScoreTeam2,
	)
	if err != nil {
		switch {
		case errors.Is(err, back.ErrPlayerNotFound):
			s.publicError(w, err, http.StatusNotFound)
		case errors.Is(err, back.ErrInvalidScore), errors.Is(err, back.ErrDuplicatePlayer):
			s.publicError(w, err, http.StatusUnprocessableEntity)
		default:
			s.error(w, err, http.StatusInternalServerError)
		}
		return
	}

	s.response(w, http.StatusCreated, recordMatchResponse{
		MatchID:                  outcome.MatchID,
		DisplayRatingChangeTeam1: outcome.RatingChangeTeam1 / back.RatingScale,
		Players:                  outcome.Players,
	})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("unable to decode request body: %w", err)
	}

	return nil
}
