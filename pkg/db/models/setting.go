package models

import (
	"time"

	"github.com/google/uuid"
)

// Setting is a key/value row for numeric runtime configuration, such as the
// points-to-currency exchange rate.
type Setting struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Key          string    `gorm:"column:key;not null;uniqueIndex"`
	NumericValue float64   `gorm:"column:numeric_value;not null"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
