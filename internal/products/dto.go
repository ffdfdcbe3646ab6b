package product

import (
	"time"

	"github.com/google/uuid"

	"github.com/puntoshop/puntoshop-backend/pkg/db/models"
)

// ProductDTO is the wire shape of a catalog item.
type ProductDTO struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	Points      int       `json:"points"`
	Stock       int       `json:"stock"`
	Sizes       []string  `json:"sizes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FromModel converts the persisted product to its wire shape.
func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Description: p.Description,
		Points:      p.Points,
		Stock:       p.Stock,
		Sizes:       []string(p.Sizes),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// FromModels converts a list of products.
func FromModels(items []models.Product) []ProductDTO {
	out := make([]ProductDTO, len(items))
	for i := range items {
		out[i] = *FromModel(&items[i])
	}
	return out
}
