package middleware

import (
	"context"
	"net/http"

	"messagely/internal/common"
	"messagely/internal/common/security"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

// IdentityCtxKey carries the authenticated username for the request.
const IdentityCtxKey contextKey = "identity"

// Authenticator rejects requests without a valid session token and attaches
// the authenticated username to the request context. It relies on
// jwtauth.Verifier having already parsed the Authorization header.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			common.RespondWithError(w, http.StatusUnauthorized, common.ErrUnauthenticated.Error())
			return
		}

		username, err := security.GetUsernameFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token claims: "+err.Error())
			return
		}

		ctx := context.WithValue(r.Context(), IdentityCtxKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireSelf restricts a route with a {username} URL param to that exact
// user. Must run after Authenticator.
func RequireSelf(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			common.RespondWithError(w, http.StatusUnauthorized, common.ErrUnauthenticated.Error())
			return
		}
		if chi.URLParam(r, "username") != identity {
			common.RespondWithError(w, http.StatusForbidden, common.ErrForbidden.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// IdentityFromContext returns the authenticated username for the request.
func IdentityFromContext(ctx context.Context) (string, bool) {
	identity, ok := ctx.Value(IdentityCtxKey).(string)
	return identity, ok
}
