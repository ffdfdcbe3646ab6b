package settings

import (
	"time"

	"github.com/puntoshop/puntoshop-backend/pkg/db/models"
)

// SettingDTO is the wire shape of a numeric runtime setting.
type SettingDTO struct {
	Key       string    `json:"key"`
	Value     float64   `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromModel converts the persisted setting to its wire shape.
func FromModel(setting *models.Setting) *SettingDTO {
	if setting == nil {
		return nil
	}
	return &SettingDTO{
		Key:       setting.Key,
		Value:     setting.NumericValue,
		UpdatedAt: setting.UpdatedAt,
	}
}
