package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/puntoshop/puntoshop-backend/pkg/enums"
)

// PointsMovement is an append-only audit record of a single credit or debit.
// Rows are never updated or deleted after creation.
type PointsMovement struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID          `gorm:"column:user_id;type:uuid;not null;index"`
	Kind      enums.MovementKind `gorm:"column:kind;not null"`
	Amount    int                `gorm:"column:amount;not null"`
	OrderID   *uuid.UUID         `gorm:"column:order_id;type:uuid"`
	Memo      *string            `gorm:"column:memo"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
}
