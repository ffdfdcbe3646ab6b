package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/puntoshop/puntoshop-backend/api/responses"
	pkgerrors "github.com/puntoshop/puntoshop-backend/pkg/errors"
	"github.com/puntoshop/puntoshop-backend/pkg/enums"
	"github.com/puntoshop/puntoshop-backend/pkg/logger"
)

func RequireRole(role string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if RoleFromContext(r.Context()) != role {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSelfOrAdmin lets a request through when the {param} URL segment names
// the authenticated user, or when the actor holds the admin role.
func RequireSelfOrAdmin(param string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if RoleFromContext(ctx) == string(enums.UserRoleAdmin) {
				next.ServeHTTP(w, r)
				return
			}
			if target := chi.URLParam(r, param); target != "" && target == UserIDFromContext(ctx) {
				next.ServeHTTP(w, r)
				return
			}
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "access denied"))
		})
	}
}
