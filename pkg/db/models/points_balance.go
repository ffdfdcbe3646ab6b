package models

import (
	"time"

	"github.com/google/uuid"
)

// PointsBalance is the single spendable balance row per user. It is created
// lazily on the first credit or debit and only ever mutated by atomic
// conditional updates, never overwritten.
type PointsBalance struct {
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	Balance   int       `gorm:"column:balance;not null;default:0"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
