package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/puntoshop/puntoshop-backend/pkg/db/dbtest"
	"github.com/puntoshop/puntoshop-backend/pkg/db/models"
	"github.com/puntoshop/puntoshop-backend/pkg/enums"
)

func seedProduct(t *testing.T, db *gorm.DB, title string, points int) *models.Product {
	t.Helper()

	product := &models.Product{
		Title:  title,
		Slug:   title,
		Points: points,
		Stock:  10,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func seedOrder(t *testing.T, db *gorm.DB, userID uuid.UUID, product *models.Product, qty int, status enums.OrderStatus, created time.Time) *models.Order {
	t.Helper()

	order := &models.Order{
		UserID:      userID,
		TotalPoints: product.Points * qty,
		PaymentMode: enums.PaymentModePoints,
		Status:      status,
		Items: []models.OrderItem{{
			ProductID:  product.ID,
			Quantity:   qty,
			PointsUnit: product.Points,
		}},
		CreatedAt: created,
		UpdatedAt: created,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestRepositoryFindByIDWithItems(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewRepository(db)

	userID := uuid.New()
	product := seedProduct(t, db, "camiseta-logo", 120)
	created := seedOrder(t, db, userID, product, 2, enums.OrderStatusPaid, time.Now().UTC())

	order, err := repo.FindByIDWithItems(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, userID, order.UserID)
	assert.Equal(t, 240, order.TotalPoints)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, 120, order.Items[0].PointsUnit)
	require.NotNil(t, order.Items[0].Product)
	assert.Equal(t, "camiseta-logo", order.Items[0].Product.Title)
}

func TestRepositoryFindByUserOrdersNewestFirst(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewRepository(db)

	userID := uuid.New()
	product := seedProduct(t, db, "gorra", 50)

	now := time.Now().UTC()
	older := seedOrder(t, db, userID, product, 1, enums.OrderStatusPaid, now.Add(-time.Hour))
	newer := seedOrder(t, db, userID, product, 3, enums.OrderStatusPending, now)
	seedOrder(t, db, uuid.New(), product, 1, enums.OrderStatusPaid, now)

	list, err := repo.FindByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)
	require.Len(t, list[0].Items, 1)
	assert.Equal(t, 3, list[0].Items[0].Quantity)
}

func TestRepositoryTransitionStatus(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewRepository(db)

	product := seedProduct(t, db, "mug", 30)
	order := seedOrder(t, db, uuid.New(), product, 1, enums.OrderStatusPending, time.Now().UTC())

	moved, err := repo.TransitionStatus(context.Background(), order.ID, enums.OrderStatusPending, enums.OrderStatusPaid)
	require.NoError(t, err)
	assert.True(t, moved)

	reloaded, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPaid, reloaded.Status)

	// The flip is first-writer-wins; a second attempt matches no row.
	moved, err = repo.TransitionStatus(context.Background(), order.ID, enums.OrderStatusPending, enums.OrderStatusPaid)
	require.NoError(t, err)
	assert.False(t, moved)

	reloaded, err = repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPaid, reloaded.Status)
}
