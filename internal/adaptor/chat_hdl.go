package adaptor

import (
	"encoding/json"
	"net/http"

	"lumo-api/internal/dto/request"
	"lumo-api/internal/usecase"
	"lumo-api/pkg/utils"

	"go.uber.org/zap"
)

type ChatHandler struct {
	service usecase.ChatService
	log     *zap.Logger
}

func NewChatHandler(service usecase.ChatService, log *zap.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		log:     log.With(zap.String("handler", "chat")),
	}
}

// SendMessage handles POST /api/v1/chat
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	var req request.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	reply, err := h.service.SendMessage(r.Context(), userID, &req)
	if err != nil {
		respondError(h.log, w, err, "send chat message")
		return
	}

	utils.ResponseSuccess(w, "Message sent successfully", reply)
}

// GetChatHistory handles GET /api/v1/chat/history
func (h *ChatHandler) GetChatHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	history, err := h.service.GetChatHistory(r.Context(), userID, parsePagination(r))
	if err != nil {
		respondError(h.log, w, err, "get chat history")
		return
	}

	utils.ResponseSuccess(w, "Chat history retrieved successfully", history)
}
