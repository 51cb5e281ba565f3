package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sailsmart/sailsmart/internal/services"
)

type SuggestionHandler struct {
	service services.SuggestionService
}

func NewSuggestionHandler(service services.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{service: service}
}

// HandleList lists the caller's suggestions.
// @Summary List suggestions
// @Tags suggestions
// @Produce json
// @Param X-User-ID header string true "Authenticated user id"
// @Param include_dismissed query bool false "Include dismissed suggestions"
// @Success 200 {array} models.Suggestion
// @Failure 401 {object} errorBody
// @Router /assistant/suggestions [get]
func (h *SuggestionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	includeDismissed := r.URL.Query().Get("include_dismissed") == "true"
	suggestions, err := h.service.List(r.Context(), uid, includeDismissed)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, suggestions)
}

// HandleGenerate recomputes suggestions for the caller.
// @Summary Generate suggestions
// @Description Scores the caller's profile against published legs and records strong matches
// @Tags suggestions
// @Produce json
// @Param X-User-ID header string true "Authenticated user id"
// @Success 200 {array} models.Suggestion
// @Failure 404 {object} errorBody
// @Router /assistant/suggestions/generate [post]
func (h *SuggestionHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	created, err := h.service.GenerateForUser(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, created)
}

// HandleDismiss hides a suggestion permanently.
// @Summary Dismiss a suggestion
// @Tags suggestions
// @Produce json
// @Param X-User-ID header string true "Authenticated user id"
// @Param id path string true "Suggestion id"
// @Success 204 "dismissed"
// @Failure 404 {object} errorBody
// @Router /assistant/suggestions/{id} [delete]
func (h *SuggestionHandler) HandleDismiss(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := h.service.Dismiss(r.Context(), uid, mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
