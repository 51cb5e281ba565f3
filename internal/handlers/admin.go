package handlers

import (
	"net/http"

	"github.com/sailsmart/sailsmart/internal/services"
)

// AdminHandler hosts operational endpoints behind the internal admin token.
type AdminHandler struct {
	service services.PendingActionService
	token   string
}

func NewAdminHandler(service services.PendingActionService, token string) *AdminHandler {
	return &AdminHandler{service: service, token: token}
}

func (h *AdminHandler) authorized(r *http.Request) bool {
	return h.token != "" && r.Header.Get("X-Admin-Token") == h.token
}

// HandleExpireSweep marks stale pending actions as expired.
// @Summary Expire stale pending actions
// @Description Marks pending actions older than seven days as expired. Called by the scheduler.
// @Tags admin
// @Produce json
// @Param X-Admin-Token header string true "Internal admin token"
// @Success 200 {object} map[string]int64
// @Failure 401 {object} errorBody
// @Router /admin/pending-actions/expire [post]
func (h *AdminHandler) HandleExpireSweep(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, errorBody{Code: "UNAUTHORIZED", Message: "invalid admin token"})
		return
	}
	expired := h.service.ExpireStale(r.Context())
	writeJSON(w, http.StatusOK, map[string]int64{"expired": expired})
}
