package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/puntoshop/puntoshop-backend/pkg/enums"
)

// Order is the durable result of a checkout. Points-mode orders are paid at
// creation; currency-mode orders stay pending until payment confirmation.
type Order struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	TotalPoints   int               `gorm:"column:total_points;not null"`
	TotalCurrency *int64            `gorm:"column:total_currency"`
	PaymentMode   enums.PaymentMode `gorm:"column:payment_mode;not null"`
	Status        enums.OrderStatus `gorm:"column:status;not null"`
	Items         []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
