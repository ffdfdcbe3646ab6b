package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/puntoshop/puntoshop-backend/pkg/db/models"
	"github.com/puntoshop/puntoshop-backend/pkg/enums"
)

// OrderDTO is the wire shape of an order.
type OrderDTO struct {
	ID          uuid.UUID         `json:"id"`
	UserID      uuid.UUID         `json:"userId"`
	TotalPoints int               `json:"totalPoints"`
	TotalCop    *int64            `json:"totalCop,omitempty"`
	PaymentMode enums.PaymentMode `json:"modoPago"`
	Status      enums.OrderStatus `json:"estado"`
	Items       []OrderItemDTO    `json:"items"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// OrderItemDTO is one purchased line with its point price frozen at checkout.
type OrderItemDTO struct {
	ID         uuid.UUID   `json:"id"`
	ProductID  uuid.UUID   `json:"productId"`
	Quantity   int         `json:"cantidad"`
	PointsUnit int         `json:"pointsUnit"`
	Product    *ProductRef `json:"producto,omitempty"`
}

// ProductRef is the catalog snapshot attached to order items for display.
type ProductRef struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Slug  string    `json:"slug"`
}

// FromModel converts the persisted order to its wire shape.
func FromModel(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}

	items := make([]OrderItemDTO, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemDTO{
			ID:         item.ID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			PointsUnit: item.PointsUnit,
		}
		if item.Product != nil {
			items[i].Product = &ProductRef{
				ID:    item.Product.ID,
				Title: item.Product.Title,
				Slug:  item.Product.Slug,
			}
		}
	}

	return &OrderDTO{
		ID:          order.ID,
		UserID:      order.UserID,
		TotalPoints: order.TotalPoints,
		TotalCop:    order.TotalCurrency,
		PaymentMode: order.PaymentMode,
		Status:      order.Status,
		Items:       items,
		CreatedAt:   order.CreatedAt,
	}
}

// FromModels converts a list of orders.
func FromModels(orders []models.Order) []OrderDTO {
	out := make([]OrderDTO, len(orders))
	for i := range orders {
		out[i] = *FromModel(&orders[i])
	}
	return out
}
