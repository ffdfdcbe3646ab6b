package points

import (
	"time"

	"github.com/google/uuid"

	"github.com/puntoshop/puntoshop-backend/pkg/db/models"
	"github.com/puntoshop/puntoshop-backend/pkg/enums"
)

// BalanceDTO is the wire shape of a user's spendable balance.
type BalanceDTO struct {
	UserID    uuid.UUID `json:"userId"`
	Balance   int       `json:"saldo"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MovementDTO is the wire shape of one ledger entry.
type MovementDTO struct {
	ID        uuid.UUID          `json:"id"`
	UserID    uuid.UUID          `json:"userId"`
	Kind      enums.MovementKind `json:"tipo"`
	Amount    int                `json:"cantidad"`
	OrderID   *uuid.UUID         `json:"ordenId,omitempty"`
	Memo      *string            `json:"concepto,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
}

// BalanceFromModel converts the persisted balance row to its wire shape.
func BalanceFromModel(balance *models.PointsBalance) *BalanceDTO {
	if balance == nil {
		return nil
	}
	return &BalanceDTO{
		UserID:    balance.UserID,
		Balance:   balance.Balance,
		UpdatedAt: balance.UpdatedAt,
	}
}

// MovementsFromModels converts a list of ledger entries.
func MovementsFromModels(movements []models.PointsMovement) []MovementDTO {
	out := make([]MovementDTO, len(movements))
	for i, m := range movements {
		out[i] = MovementDTO{
			ID:        m.ID,
			UserID:    m.UserID,
			Kind:      m.Kind,
			Amount:    m.Amount,
			OrderID:   m.OrderID,
			Memo:      m.Memo,
			CreatedAt: m.CreatedAt,
		}
	}
	return out
}
