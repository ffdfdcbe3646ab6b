package points

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/puntoshop/puntoshop-backend/pkg/db/models"
	pkgerrors "github.com/puntoshop/puntoshop-backend/pkg/errors"
	"github.com/puntoshop/puntoshop-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the points ledger operations.
type Service interface {
	Credit(ctx context.Context, input MovementInput) (*models.PointsBalance, error)
	Debit(ctx context.Context, input MovementInput) (*models.PointsBalance, error)
	GetBalance(ctx context.Context, userID uuid.UUID) (*models.PointsBalance, error)
	ListMovements(ctx context.Context, userID uuid.UUID, page pagination.Page) ([]models.PointsMovement, error)
}

type service struct {
	tx   txRunner
	repo Repository
}

// NewService wires the points service with its transaction runner and repository.
func NewService(tx txRunner, repo Repository) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("points repository required")
	}
	return &service{tx: tx, repo: repo}, nil
}

// Credit adds points and returns the balance as of this movement, read inside
// the same transaction.
func (s *service) Credit(ctx context.Context, input MovementInput) (*models.PointsBalance, error) {
	var balance *models.PointsBalance
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := ApplyCredit(ctx, tx, input); err != nil {
			return err
		}
		updated, err := s.repo.WithTx(tx).GetBalance(ctx, input.UserID)
		if err != nil {
			return err
		}
		balance = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return balance, nil
}

// Debit removes points when the balance allows it and returns the remaining
// balance.
func (s *service) Debit(ctx context.Context, input MovementInput) (*models.PointsBalance, error) {
	var balance *models.PointsBalance
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := ApplyDebit(ctx, tx, input); err != nil {
			return err
		}
		updated, err := s.repo.WithTx(tx).GetBalance(ctx, input.UserID)
		if err != nil {
			return err
		}
		balance = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return balance, nil
}

func (s *service) GetBalance(ctx context.Context, userID uuid.UUID) (*models.PointsBalance, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	return s.repo.GetBalance(ctx, userID)
}

func (s *service) ListMovements(ctx context.Context, userID uuid.UUID, page pagination.Page) ([]models.PointsMovement, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	return s.repo.ListMovements(ctx, userID, pagination.Normalize(page.Limit, page.Offset))
}
