package handler

import (
	"encoding/json"
	"net/http"

	"messagely/internal/api/middleware"
	"messagely/internal/app/service"
	"messagely/internal/common"

	"github.com/go-chi/chi/v5"
)

type MessageHandler struct {
	messageService *service.MessageService
}

func NewMessageHandler(ms *service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: ms}
}

func (h *MessageHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator) // All message routes require auth
	r.Post("/", h.sendMessage)
	r.Get("/{id}", h.getMessage)
	r.Post("/{id}/read", h.markRead)
}

func (h *MessageHandler) sendMessage(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, common.ErrUnauthenticated.Error())
		return
	}

	var req service.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	msg, err := h.messageService.Send(r.Context(), identity, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, msg)
}

func (h *MessageHandler) getMessage(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, common.ErrUnauthenticated.Error())
		return
	}

	detail, err := h.messageService.Get(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, detail)
}

func (h *MessageHandler) markRead(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, common.ErrUnauthenticated.Error())
		return
	}

	receipt, err := h.messageService.MarkRead(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, receipt)
}
