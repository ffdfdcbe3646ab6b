package points

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/puntoshop/puntoshop-backend/pkg/db/models"
	"github.com/puntoshop/puntoshop-backend/pkg/enums"
	pkgerrors "github.com/puntoshop/puntoshop-backend/pkg/errors"
)

// MovementInput describes a single credit or debit to apply against a user's
// balance.
type MovementInput struct {
	UserID  uuid.UUID
	Amount  int
	OrderID *uuid.UUID
	Memo    *string
}

// ApplyCredit increments the user's balance inside the caller's transaction
// and records the matching movement. The balance row is created on first use.
func ApplyCredit(ctx context.Context, tx *gorm.DB, input MovementInput) (*models.PointsMovement, error) {
	if err := validateMovement(input); err != nil {
		return nil, err
	}

	if err := ensureBalanceRow(ctx, tx, input.UserID); err != nil {
		return nil, err
	}

	res := tx.WithContext(ctx).
		Model(&models.PointsBalance{}).
		Where("user_id = ?", input.UserID).
		UpdateColumn("balance", gorm.Expr("balance + ?", input.Amount))
	if res.Error != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, res.Error, "crediting points balance")
	}

	return recordMovement(ctx, tx, enums.MovementKindCredit, input)
}

// ApplyDebit decrements the user's balance inside the caller's transaction.
// The decrement is a single conditional UPDATE guarded by balance >= amount;
// zero affected rows means the balance was insufficient and nothing changed.
func ApplyDebit(ctx context.Context, tx *gorm.DB, input MovementInput) (*models.PointsMovement, error) {
	if err := validateMovement(input); err != nil {
		return nil, err
	}

	// A user who never earned points has no row. Creating the zero row first
	// makes the insufficient case indistinguishable from a low balance.
	if err := ensureBalanceRow(ctx, tx, input.UserID); err != nil {
		return nil, err
	}

	res := tx.WithContext(ctx).
		Model(&models.PointsBalance{}).
		Where("user_id = ? AND balance >= ?", input.UserID, input.Amount).
		UpdateColumn("balance", gorm.Expr("balance - ?", input.Amount))
	if res.Error != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, res.Error, "debiting points balance")
	}
	if res.RowsAffected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "insufficient points balance").
			WithDetails(map[string]any{"reason": "insufficient_balance", "required": input.Amount})
	}

	return recordMovement(ctx, tx, enums.MovementKindDebit, input)
}

func validateMovement(input MovementInput) error {
	if input.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if input.Amount <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than zero").
			WithDetails(map[string]any{"reason": "invalid_amount"})
	}
	return nil
}

func ensureBalanceRow(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.PointsBalance{UserID: userID, Balance: 0}).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "ensuring points balance row")
	}
	return nil
}

func recordMovement(ctx context.Context, tx *gorm.DB, kind enums.MovementKind, input MovementInput) (*models.PointsMovement, error) {
	movement := &models.PointsMovement{
		UserID:  input.UserID,
		Kind:    kind,
		Amount:  input.Amount,
		OrderID: input.OrderID,
		Memo:    input.Memo,
	}
	if err := tx.WithContext(ctx).Create(movement).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording points movement")
	}
	return movement, nil
}
