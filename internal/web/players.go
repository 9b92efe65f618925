package web

import (
	"bandeja/internal/back"
	"errors"
	"net/http"

	"gopkg.in/guregu/null.v4"
)

// defaultDisplayRating is the self-assessed level used when the caller does
// not provide one, the middle of the "club player" range.
const defaultDisplayRating = 3.0

func (s *Server) getPlayers(w http.ResponseWriter, _ *http.Request) {
	players, err := s.back.GetPlayers()
	if err != nil {
		s.error(w, err, http.StatusInternalServerError)
		return
	}

	s.response(w, http.StatusOK, players)
}

func (s *Server) getLeaderboard(w http.ResponseWriter, _ *http.Request) {
	leaderboard, err := s.back.GetLeaderboard()
	if err != nil {
		s.error(w, err, http.StatusInternalServerError)
		return
	}

	s.response(w, http.StatusOK, leaderboard)
}

type registerPlayerRequest struct {
	Name string `json:"name"`

	// Rating is a display-scale (1.0-10.0) self-assessment, optional.
	Rating null.Float `json:"rating"`
}

func (s *Server) registerPlayer(w http.ResponseWriter, r *http.Request) {
	var req registerPlayerRequest
	if err := decodeJSON(r, &req); err != nil {
		s.error(w, err, http.StatusBadRequest)
		return
	}

	displayRating := defaultDisplayRating
	if req.Rating.Valid {
		displayRating = req.Rating.Float64
	}

	player, err := s.back.RegisterPlayer(req.Name, displayRating)
	if err != nil {
		code := http.StatusUnprocessableEntity
		if errors.Is(err, back.ErrNameTaken) {
			code = http.StatusConflict
		}

		s.publicError(w, err, code)
		return
	}

	s.response(w, http.StatusCreated, player)
}
