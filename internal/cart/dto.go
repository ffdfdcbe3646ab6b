package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/puntoshop/puntoshop-backend/pkg/db/models"
)

// CartDTO is the wire shape of a cart.
type CartDTO struct {
	ID        uuid.UUID     `json:"id"`
	UserID    uuid.UUID     `json:"userId"`
	Items     []CartItemDTO `json:"items"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// CartItemDTO is one product line inside a cart.
type CartItemDTO struct {
	ID        uuid.UUID   `json:"id"`
	ProductID uuid.UUID   `json:"productId"`
	Quantity  int         `json:"cantidad"`
	Product   *ProductRef `json:"producto,omitempty"`
}

// ProductRef is the catalog snapshot rendered with cart items.
type ProductRef struct {
	ID     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	Slug   string    `json:"slug"`
	Points int       `json:"points"`
	Stock  int       `json:"stock"`
}

func dtoFromModel(cart *models.Cart) *CartDTO {
	if cart == nil {
		return nil
	}

	items := make([]CartItemDTO, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = CartItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
		if item.Product != nil {
			items[i].Product = &ProductRef{
				ID:     item.Product.ID,
				Title:  item.Product.Title,
				Slug:   item.Product.Slug,
				Points: item.Product.Points,
				Stock:  item.Product.Stock,
			}
		}
	}

	return &CartDTO{
		ID:        cart.ID,
		UserID:    cart.UserID,
		Items:     items,
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
	}
}
