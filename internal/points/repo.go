package points

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/puntoshop/puntoshop-backend/pkg/db/models"
	"github.com/puntoshop/puntoshop-backend/pkg/pagination"
)

// Repository manages persistence for balances and movements.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	GetBalance(ctx context.Context, userID uuid.UUID) (*models.PointsBalance, error)
	ListMovements(ctx context.Context, userID uuid.UUID, page pagination.Page) ([]models.PointsMovement, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a points repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// GetBalance returns the user's balance row, treating a missing row as a
// zero balance.
func (r *repository) GetBalance(ctx context.Context, userID uuid.UUID) (*models.PointsBalance, error) {
	var balance models.PointsBalance
	err := r.db.WithContext(ctx).First(&balance, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.PointsBalance{UserID: userID, Balance: 0}, nil
	}
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

func (r *repository) ListMovements(ctx context.Context, userID uuid.UUID, page pagination.Page) ([]models.PointsMovement, error) {
	var movements []models.PointsMovement
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&movements).Error
	if err != nil {
		return nil, err
	}
	return movements, nil
}
