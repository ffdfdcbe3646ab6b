package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem snapshots one purchased line. PointsUnit is the per-unit points
// price at purchase time and never changes with the catalog.
type OrderItem struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Quantity   int       `gorm:"column:quantity;not null"`
	PointsUnit int       `gorm:"column:points_unit;not null"`
	Product    *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
