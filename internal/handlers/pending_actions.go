package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/sailsmart/sailsmart/internal/assistant"
	"github.com/sailsmart/sailsmart/internal/services"
)

type PendingActionHandler struct {
	service services.PendingActionService
}

func NewPendingActionHandler(service services.PendingActionService) *PendingActionHandler {
	return &PendingActionHandler{service: service}
}

// HandleList lists the caller's pending actions.
// @Summary List pending actions
// @Description List the caller's assistant-proposed actions, optionally filtered by status
// @Tags pending-actions
// @Produce json
// @Param X-User-ID header string true "Authenticated user id"
// @Param status query string false "pending, approved, rejected or expired"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.PendingAction
// @Failure 401 {object} errorBody
// @Router /assistant/pending-actions [get]
func (h *PendingActionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	actions, err := h.service.List(r.Context(), uid, q.Get("status"), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, actions)
}

// HandleGet fetches one pending action.
// @Summary Get a pending action
// @Tags pending-actions
// @Produce json
// @Param X-User-ID header string true "Authenticated user id"
// @Param id path string true "Pending action id"
// @Success 200 {object} models.PendingAction
// @Failure 403 {object} errorBody
// @Failure 404 {object} errorBody
// @Router /assistant/pending-actions/{id} [get]
func (h *PendingActionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	action, err := h.service.GetByID(r.Context(), uid, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, action)
}

// HandleApprove applies a pending action.
// @Summary Approve a pending action
// @Description Applies the proposed change. Profile-field updates take the new value from the request body.
// @Tags pending-actions
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Authenticated user id"
// @Param id path string true "Pending action id"
// @Param input body object false "User-supplied values, e.g. {\"newValue\": \"...\"}"
// @Success 200 {object} models.PendingAction
// @Failure 403 {object} errorBody
// @Failure 409 {object} errorBody
// @Failure 422 {object} errorBody
// @Router /assistant/pending-actions/{id}/approve [post]
func (h *PendingActionHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	var input assistant.UserInput
	if r.Body != nil {
		// an empty or absent body is fine for actions that need no input
		_ = json.NewDecoder(r.Body).Decode(&input)
	}

	action, err := h.service.Approve(r.Context(), uid, mux.Vars(r)["id"], input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, action)
}

// HandleReject declines a pending action.
// @Summary Reject a pending action
// @Tags pending-actions
// @Produce json
// @Param X-User-ID header string true "Authenticated user id"
// @Param id path string true "Pending action id"
// @Success 200 {object} models.PendingAction
// @Failure 403 {object} errorBody
// @Failure 409 {object} errorBody
// @Router /assistant/pending-actions/{id}/reject [post]
func (h *PendingActionHandler) HandleReject(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	action, err := h.service.Reject(r.Context(), uid, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, action)
}
