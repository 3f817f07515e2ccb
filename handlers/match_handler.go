package handlers

import (
	"context"
	"net/http"

	"github.com/bekermanmatias/Torneito-sub000/middleware"
	"github.com/bekermanmatias/Torneito-sub000/models"
	"github.com/bekermanmatias/Torneito-sub000/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(ms services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: ms}
}

func (h *MatchHandler) ListTournamentMatches(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.matchService.ListByTournament(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"matches": matches,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RegisterResult записывает первый результат матча. Для кубковых турниров
// завершение раунда здесь же создаёт следующий раунд или финиширует турнир.
func (h *MatchHandler) RegisterResult(w http.ResponseWriter, r *http.Request) {
	h.applyResult(w, r, h.matchService.RegisterResult, http.StatusCreated)
}

func (h *MatchHandler) AmendResult(w http.ResponseWriter, r *http.Request) {
	h.applyResult(w, r, h.matchService.AmendResult, http.StatusOK)
}

func (h *MatchHandler) ClearResult(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	match, err := h.matchService.ClearResult(r.Context(), currentUserID, matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"match": match,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type resultOp func(ctx context.Context, userID, matchID int, input services.ResultInput) (*models.Match, error)

func (h *MatchHandler) applyResult(w http.ResponseWriter, r *http.Request, op resultOp, status int) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	var input services.ResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := op(r.Context(), currentUserID, matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"match": match,
	}
	if err := writeJSON(w, status, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
