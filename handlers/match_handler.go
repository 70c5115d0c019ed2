package handlers

import (
	"net/http"

	"github.com/Amanzhol04/esports-arena/middleware"
	"github.com/Amanzhol04/esports-arena/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(matchService services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

type submitScoreRequest struct {
	TeamAScore *int `json:"team_a_score"`
	TeamBScore *int `json:"team_b_score"`
}

// SubmitScoreHandler records a score submission for a match. Admins may set
// both sides; team owners only their own.
func (h *MatchHandler) SubmitScoreHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, err.Error())
		return
	}

	var input submitScoreRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	match, err := h.matchService.SubmitScore(r.Context(), matchID, actorID, services.ScoreSubmission{
		TeamAScore: input.TeamAScore,
		TeamBScore: input.TeamBScore,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *MatchHandler) GetMatchHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	match, err := h.matchService.GetMatch(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, err)
	}
}
