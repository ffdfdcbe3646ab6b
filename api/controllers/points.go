package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/puntoshop/puntoshop-backend/api/responses"
	"github.com/puntoshop/puntoshop-backend/api/validators"
	"github.com/puntoshop/puntoshop-backend/internal/points"
	pkgerrors "github.com/puntoshop/puntoshop-backend/pkg/errors"
	"github.com/puntoshop/puntoshop-backend/pkg/logger"
	"github.com/puntoshop/puntoshop-backend/pkg/pagination"
)

// PointsBalance returns the user's current spendable balance. Users without a
// balance row read as zero.
func PointsBalance(svc points.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "points service unavailable"))
			return
		}

		userID, err := uuidParam(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		balance, err := svc.GetBalance(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, points.BalanceFromModel(balance))
	}
}

// PointsMovements lists the user's ledger entries, newest first.
func PointsMovements(svc points.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "points service unavailable"))
			return
		}

		userID, err := uuidParam(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		movements, err := svc.ListMovements(r.Context(), userID, pagination.FromRequest(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, points.MovementsFromModels(movements))
	}
}

type movementRequest struct {
	Amount  int        `json:"cantidad" validate:"required,gt=0"`
	Memo    *string    `json:"concepto,omitempty"`
	OrderID *uuid.UUID `json:"ordenId,omitempty"`
}

// PointsCredit adds points to a user's balance and returns the new balance.
func PointsCredit(svc points.Service, logg *logger.Logger) http.HandlerFunc {
	return applyMovement(svc, logg, func(r *http.Request, svc points.Service, input points.MovementInput) (any, error) {
		balance, err := svc.Credit(r.Context(), input)
		if err != nil {
			return nil, err
		}
		return points.BalanceFromModel(balance), nil
	})
}

// PointsDebit removes points from a user's balance and returns the new
// balance. Fails without side effects when the balance cannot cover it.
func PointsDebit(svc points.Service, logg *logger.Logger) http.HandlerFunc {
	return applyMovement(svc, logg, func(r *http.Request, svc points.Service, input points.MovementInput) (any, error) {
		balance, err := svc.Debit(r.Context(), input)
		if err != nil {
			return nil, err
		}
		return points.BalanceFromModel(balance), nil
	})
}

func applyMovement(svc points.Service, logg *logger.Logger, apply func(*http.Request, points.Service, points.MovementInput) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "points service unavailable"))
			return
		}

		userID, err := uuidParam(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body movementRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := apply(r, svc, points.MovementInput{
			UserID:  userID,
			Amount:  body.Amount,
			OrderID: body.OrderID,
			Memo:    body.Memo,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
