package handler

import (
	"net/http"

	"messagely/internal/api/middleware"
	"messagely/internal/app/service"
	"messagely/internal/common"

	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	userService    *service.UserService
	messageService *service.MessageService
}

func NewUserHandler(us *service.UserService, ms *service.MessageService) *UserHandler {
	return &UserHandler{userService: us, messageService: ms}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator) // All user routes require auth
	r.Get("/", h.listUsers)
	r.Route("/{username}", func(r chi.Router) {
		r.Use(middleware.RequireSelf) // Profile and message listings are self-only
		r.Get("/", h.getUser)
		r.Get("/from", h.messagesFrom)
		r.Get("/to", h.messagesTo)
	})
}

func (h *UserHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListAll(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, users)
}

func (h *UserHandler) getUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	user, err := h.userService.Get(r.Context(), username)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) messagesFrom(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	messages, err := h.messageService.MessagesFrom(r.Context(), username)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, messages)
}

func (h *UserHandler) messagesTo(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	messages, err := h.messageService.MessagesTo(r.Context(), username)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, messages)
}
