package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/puntoshop/puntoshop-backend/api/middleware"
	"github.com/puntoshop/puntoshop-backend/pkg/db/models"
	"github.com/puntoshop/puntoshop-backend/pkg/enums"
	pkgerrors "github.com/puntoshop/puntoshop-backend/pkg/errors"
)

type stubOrdersService struct {
	order *models.Order
	list  []models.Order
	err   error

	lastUserID uuid.UUID
	lastMode   enums.PaymentMode
}

func (s *stubOrdersService) Checkout(_ context.Context, userID uuid.UUID, mode enums.PaymentMode) (*models.Order, error) {
	s.lastUserID = userID
	s.lastMode = mode
	return s.order, s.err
}

func (s *stubOrdersService) ConfirmPayment(_ context.Context, _ uuid.UUID) (*models.Order, error) {
	return s.order, s.err
}

func (s *stubOrdersService) FindByUser(_ context.Context, userID uuid.UUID) ([]models.Order, error) {
	s.lastUserID = userID
	return s.list, s.err
}

func TestOrderCheckoutDefaultsToPointsMode(t *testing.T) {
	userID := uuid.New()
	svc := &stubOrdersService{order: &models.Order{
		ID:          uuid.New(),
		UserID:      userID,
		TotalPoints: 200,
		PaymentMode: enums.PaymentModePoints,
		Status:      enums.OrderStatusPaid,
	}}

	req := withUserParam(httptest.NewRequest(http.MethodPost, "/api/v1/ordenes/checkout/"+userID.String(), nil), userID.String())
	resp := httptest.NewRecorder()
	OrderCheckout(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastMode != enums.PaymentModePoints {
		t.Fatalf("expected default points mode, got %s", svc.lastMode)
	}
	if svc.lastUserID != userID {
		t.Fatalf("expected user id forwarded")
	}
	if !strings.Contains(resp.Body.String(), `"estado":"paid"`) {
		t.Fatalf("expected estado in body, got %s", resp.Body.String())
	}
}

func TestOrderCheckoutParsesCurrencyMode(t *testing.T) {
	userID := uuid.New()
	svc := &stubOrdersService{order: &models.Order{
		ID:          uuid.New(),
		UserID:      userID,
		PaymentMode: enums.PaymentModeCurrency,
		Status:      enums.OrderStatusPending,
	}}

	req := withUserParam(
		httptest.NewRequest(http.MethodPost, "/api/v1/ordenes/checkout/"+userID.String(), strings.NewReader(`{"modoPago":"currency"}`)),
		userID.String(),
	)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	OrderCheckout(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastMode != enums.PaymentModeCurrency {
		t.Fatalf("expected currency mode, got %s", svc.lastMode)
	}
}

func TestOrderCheckoutRejectsUnknownMode(t *testing.T) {
	userID := uuid.New()
	svc := &stubOrdersService{}

	req := withUserParam(
		httptest.NewRequest(http.MethodPost, "/api/v1/ordenes/checkout/"+userID.String(), strings.NewReader(`{"modoPago":"efectivo"}`)),
		userID.String(),
	)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	OrderCheckout(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown mode, got %d", resp.Code)
	}
}

func TestOrderConfirmPaymentSurfacesGuards(t *testing.T) {
	orderID := uuid.New()
	svc := &stubOrdersService{
		err: pkgerrors.New(pkgerrors.CodeValidation, "order is not pending").
			WithDetails(map[string]any{"reason": "order_not_pending"}),
	}

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("orderId", orderID.String())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ordenes/"+orderID.String()+"/confirmar-pago", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
	resp := httptest.NewRecorder()
	OrderConfirmPayment(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "order_not_pending") {
		t.Fatalf("expected reason in body, got %s", resp.Body.String())
	}
}

func TestMyOrdersUsesAuthenticatedUser(t *testing.T) {
	userID := uuid.New()
	svc := &stubOrdersService{list: []models.Order{{ID: uuid.New(), UserID: userID}}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ordenes/mis-ordenes", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	resp := httptest.NewRecorder()
	MyOrders(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if svc.lastUserID != userID {
		t.Fatalf("expected context user forwarded to service")
	}
}

func TestMyOrdersRequiresAuthContext(t *testing.T) {
	svc := &stubOrdersService{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ordenes/mis-ordenes", nil)
	resp := httptest.NewRecorder()
	MyOrders(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without user context, got %d", resp.Code)
	}
}
