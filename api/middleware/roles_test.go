package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/puntoshop/puntoshop-backend/pkg/enums"
)

func requestWithParam(ctx context.Context, param, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(param, value)
	ctx = context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return req.WithContext(ctx)
}

func TestRequireSelfOrAdmin(t *testing.T) {
	handler := RequireSelfOrAdmin("userId", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	self := uuid.New()
	other := uuid.New()

	t.Run("self allowed", func(t *testing.T) {
		ctx := WithUserID(context.Background(), self.String())
		ctx = WithRole(ctx, string(enums.UserRoleUser))
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, requestWithParam(ctx, "userId", self.String()))
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for self, got %d", resp.Code)
		}
	})

	t.Run("other user forbidden", func(t *testing.T) {
		ctx := WithUserID(context.Background(), self.String())
		ctx = WithRole(ctx, string(enums.UserRoleUser))
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, requestWithParam(ctx, "userId", other.String()))
		if resp.Code != http.StatusForbidden {
			t.Fatalf("expected 403 for foreign user, got %d", resp.Code)
		}
	})

	t.Run("admin bypasses ownership", func(t *testing.T) {
		ctx := WithUserID(context.Background(), self.String())
		ctx = WithRole(ctx, string(enums.UserRoleAdmin))
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, requestWithParam(ctx, "userId", other.String()))
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for admin, got %d", resp.Code)
		}
	})
}
