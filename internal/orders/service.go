package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	cartpkg "github.com/puntoshop/puntoshop-backend/internal/cart"
	"github.com/puntoshop/puntoshop-backend/internal/points"
	product "github.com/puntoshop/puntoshop-backend/internal/products"
	"github.com/puntoshop/puntoshop-backend/pkg/db/models"
	"github.com/puntoshop/puntoshop-backend/pkg/enums"
	pkgerrors "github.com/puntoshop/puntoshop-backend/pkg/errors"
)

const pointsPaymentMemo = "Pago con puntos"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type rateProvider interface {
	GetCopPerPoint(ctx context.Context) (float64, error)
}

// Service orchestrates checkout and payment confirmation.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID, mode enums.PaymentMode) (*models.Order, error)
	ConfirmPayment(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
}

type service struct {
	tx       txRunner
	repo     Repository
	cartRepo cartpkg.Repository
	products *product.Repository
	rates    rateProvider
}

// ServiceParams bundles the dependencies for the orders service.
type ServiceParams struct {
	Tx          txRunner
	Repo        Repository
	CartRepo    cartpkg.Repository
	ProductRepo *product.Repository
	Rates       rateProvider
}

// NewService builds the orders service.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.CartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.ProductRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if params.Rates == nil {
		return nil, fmt.Errorf("rate provider required")
	}
	return &service{
		tx:       params.Tx,
		repo:     params.Repo,
		cartRepo: params.CartRepo,
		products: params.ProductRepo,
		rates:    params.Rates,
	}, nil
}

// Checkout turns the user's cart into an order. Points mode debits the
// balance, takes stock and empties the cart atomically; currency mode only
// records a pending order and leaves cart and stock alone until the payment
// is confirmed.
func (s *service) Checkout(ctx context.Context, userID uuid.UUID, mode enums.PaymentMode) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if !mode.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment mode %q", mode))
	}

	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	totalPoints := 0
	for _, item := range cart.Items {
		if item.Product == nil {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "cart references a missing product")
		}
		if item.Quantity > item.Product.Stock {
			return nil, insufficientStock(item.Product, item.Quantity)
		}
		totalPoints += item.Product.Points * item.Quantity
	}

	order := &models.Order{
		UserID:      userID,
		TotalPoints: totalPoints,
		PaymentMode: mode,
		Items:       buildItems(cart.Items),
	}

	switch mode {
	case enums.PaymentModePoints:
		order.Status = enums.OrderStatusPaid
		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			if err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order")
			}

			memo := pointsPaymentMemo
			if _, err := points.ApplyDebit(ctx, tx, points.MovementInput{
				UserID:  userID,
				Amount:  totalPoints,
				OrderID: &order.ID,
				Memo:    &memo,
			}); err != nil {
				return err
			}

			txProducts := s.products.WithTx(tx)
			for _, item := range cart.Items {
				if err := txProducts.DecrementStockIfAvailable(ctx, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}

			if err := s.cartRepo.WithTx(tx).ClearItems(ctx, cart.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing cart")
			}
			return nil
		})

	case enums.PaymentModeCurrency:
		rate, rateErr := s.rates.GetCopPerPoint(ctx)
		if rateErr != nil {
			return nil, rateErr
		}
		// Half-up rounding on an exact decimal product, so float drift in the
		// configured rate cannot shave a peso off the invoice.
		totalCop := decimal.NewFromInt(int64(totalPoints)).
			Mul(decimal.NewFromFloat(rate)).
			Round(0).
			IntPart()
		order.TotalCurrency = &totalCop
		order.Status = enums.OrderStatusPending

		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			if err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order")
			}
			return nil
		})
	}
	if err != nil {
		return nil, err
	}

	return order, nil
}

// ConfirmPayment settles a pending currency order: stock is re-checked at
// confirmation time, taken, the user's cart is emptied and the order marked
// paid, all in one transaction.
func (s *service) ConfirmPayment(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, orderNotFound()
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	if order.PaymentMode != enums.PaymentModeCurrency {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order is not payable in currency").
			WithDetails(map[string]any{"reason": "not_currency_order"})
	}
	if order.Status != enums.OrderStatusPending {
		return nil, orderNotPending()
	}

	var confirmed *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		// The pre-check above is advisory; this conditional flip is what
		// guarantees at most one confirmation wins. A concurrent winner makes
		// it affect zero rows, and the loser rolls back before taking stock.
		moved, err := txRepo.TransitionStatus(ctx, orderID, enums.OrderStatusPending, enums.OrderStatusPaid)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order status")
		}
		if !moved {
			return orderNotPending()
		}

		full, err := txRepo.FindByIDWithItems(ctx, orderID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return orderNotFound()
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order items")
		}

		txProducts := s.products.WithTx(tx)
		for _, item := range full.Items {
			if err := txProducts.DecrementStockIfAvailable(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		// The cart may have been rebuilt since checkout; whatever is in it
		// now is dropped along with the settled order.
		userCart, err := s.cartRepo.WithTx(tx).FindByUserID(ctx, full.UserID)
		if err == nil {
			if err := s.cartRepo.WithTx(tx).ClearItems(ctx, userCart.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing cart")
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
		}

		full.Status = enums.OrderStatusPaid
		confirmed = full
		return nil
	})
	if err != nil {
		return nil, err
	}

	return confirmed, nil
}

func (s *service) FindByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	orders, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return orders, nil
}

func (s *service) loadCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, emptyCart()
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}
	if len(cart.Items) == 0 {
		return nil, emptyCart()
	}
	return cart, nil
}

func buildItems(cartItems []models.CartItem) []models.OrderItem {
	items := make([]models.OrderItem, len(cartItems))
	for i, ci := range cartItems {
		items[i] = models.OrderItem{
			ProductID:  ci.ProductID,
			Quantity:   ci.Quantity,
			PointsUnit: ci.Product.Points,
		}
	}
	return items
}

func emptyCart() error {
	return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty").
		WithDetails(map[string]any{"reason": "empty_cart"})
}

func orderNotFound() error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "order not found").
		WithDetails(map[string]any{"reason": "order_not_found"})
}

func orderNotPending() error {
	return pkgerrors.New(pkgerrors.CodeValidation, "order is not pending").
		WithDetails(map[string]any{"reason": "order_not_pending"})
}

func insufficientStock(p *models.Product, requested int) error {
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("insufficient stock for %s", p.Title)).
		WithDetails(map[string]any{
			"reason":     "insufficient_stock",
			"product_id": p.ID,
			"title":      p.Title,
			"available":  p.Stock,
			"requested":  requested,
		})
}
