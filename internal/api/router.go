package api

import (
	"net/http"
	"time"

	"messagely/internal/api/handler"
	"messagely/internal/app/service"
	"messagely/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	userService *service.UserService,
	messageService *service.MessageService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Parses "Authorization: Bearer <token>" and puts verified claims in the
	// request context. Enforcement happens in middleware.Authenticator on the
	// protected route groups.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// API v1 Routes
	r.Route("/api/v1", func(v1 chi.Router) {
		// Auth routes (public)
		authHandler := handler.NewAuthHandler(authService)
		v1.Route("/auth", authHandler.RegisterRoutes)

		// User routes (authenticated, partly self-only)
		userHandler := handler.NewUserHandler(userService, messageService)
		v1.Route("/users", userHandler.RegisterRoutes)

		// Message routes (authenticated, per-message access control)
		messageHandler := handler.NewMessageHandler(messageService)
		v1.Route("/messages", messageHandler.RegisterRoutes)
	})

	return r
}
