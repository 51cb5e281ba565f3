package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sailsmart/sailsmart/internal/models"
	"github.com/sailsmart/sailsmart/internal/services"
)

type ChatHandler struct {
	service services.ChatService
}

func NewChatHandler(service services.ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

// HandleChat runs one assistant turn.
// @Summary Send a message to the assistant
// @Description Classifies the message, runs scoped tools and returns the reply with any pending actions created this turn
// @Tags assistant
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Authenticated user id"
// @Param request body models.ChatRequest true "User message"
// @Success 200 {object} models.ChatResponse
// @Failure 400 {object} errorBody
// @Failure 401 {object} errorBody
// @Failure 500 {object} errorBody
// @Router /assistant/chat [post]
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "INVALID_VALUE", Message: "invalid JSON body"})
		return
	}

	resp, err := h.service.Chat(r.Context(), uid, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
