package settings

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/puntoshop/puntoshop-backend/pkg/db/models"
	pkgerrors "github.com/puntoshop/puntoshop-backend/pkg/errors"
)

// KeyCopPerPoint is the exchange rate applied when a checkout is paid in
// currency instead of points.
const KeyCopPerPoint = "cop_per_point"

// Service exposes runtime configuration reads and writes.
type Service interface {
	GetCopPerPoint(ctx context.Context) (float64, error)
	SetCopPerPoint(ctx context.Context, value float64) (*models.Setting, error)
}

type service struct {
	repo Repository
}

// NewService wires the settings service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("settings repository required")
	}
	return &service{repo: repo}, nil
}

// GetCopPerPoint returns the configured exchange rate. Missing or
// non-positive rates block currency checkouts rather than producing a zero
// total.
func (s *service) GetCopPerPoint(ctx context.Context) (float64, error) {
	setting, err := s.repo.Get(ctx, KeyCopPerPoint)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "exchange rate not configured").
			WithDetails(map[string]any{"reason": "rate_not_configured"})
	}
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading exchange rate")
	}
	if setting.NumericValue <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "exchange rate not configured").
			WithDetails(map[string]any{"reason": "rate_not_configured"})
	}
	return setting.NumericValue, nil
}

func (s *service) SetCopPerPoint(ctx context.Context, value float64) (*models.Setting, error) {
	if value <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rate must be greater than zero")
	}
	setting := &models.Setting{Key: KeyCopPerPoint, NumericValue: value}
	if err := s.repo.Upsert(ctx, setting); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving exchange rate")
	}
	return setting, nil
}
