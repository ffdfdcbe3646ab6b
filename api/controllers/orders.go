package controllers

import (
	"net/http"

	"github.com/puntoshop/puntoshop-backend/api/responses"
	"github.com/puntoshop/puntoshop-backend/api/validators"
	"github.com/puntoshop/puntoshop-backend/internal/orders"
	"github.com/puntoshop/puntoshop-backend/pkg/enums"
	pkgerrors "github.com/puntoshop/puntoshop-backend/pkg/errors"
	"github.com/puntoshop/puntoshop-backend/pkg/logger"
)

type checkoutRequest struct {
	PaymentMode string `json:"modoPago,omitempty"`
}

// OrderCheckout converts the target user's cart into an order. Points mode
// settles immediately; currency mode leaves the order pending confirmation.
func OrderCheckout(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		userID, err := uuidParam(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body checkoutRequest
		if r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		mode := enums.PaymentModePoints
		if body.PaymentMode != "" {
			parsed, err := enums.ParsePaymentMode(body.PaymentMode)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment mode").
					WithDetails(map[string]any{"field": "modoPago"}))
				return
			}
			mode = parsed
		}

		order, err := svc.Checkout(r.Context(), userID, mode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, orders.FromModel(order))
	}
}

// OrderConfirmPayment marks a pending currency order as paid after
// re-validating stock.
func OrderConfirmPayment(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := uuidParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.ConfirmPayment(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, orders.FromModel(order))
	}
}

// OrdersByUser lists a user's orders, newest first.
func OrdersByUser(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		userID, err := uuidParam(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.FindByUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, orders.FromModels(list))
	}
}

// MyOrders lists the authenticated user's own orders.
func MyOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		uid, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.FindByUser(r.Context(), uid)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, orders.FromModels(list))
	}
}
