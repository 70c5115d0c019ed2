package handlers

import (
	"net/http"

	"github.com/Amanzhol04/esports-arena/services"
)

type TournamentHandler struct {
	seedingService services.SeedingService
	bracketService services.BracketService
}

func NewTournamentHandler(seedingService services.SeedingService, bracketService services.BracketService) *TournamentHandler {
	return &TournamentHandler{
		seedingService: seedingService,
		bracketService: bracketService,
	}
}

// SeedFirstRoundHandler creates the opening round of matches for a
// tournament game. Admin only; safe to retry.
func (h *TournamentHandler) SeedFirstRoundHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	matches, err := h.seedingService.CreateFirstRound(r.Context(), tournamentID, gameID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *TournamentHandler) GetBracketHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	view, err := h.bracketService.GetBracket(r.Context(), tournamentID, gameID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": view}, nil); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *TournamentHandler) GetTournamentHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	tournament, err := h.bracketService.GetTournament(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, err)
	}
}
