package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"

	product "github.com/puntoshop/puntoshop-backend/internal/products"
	"github.com/puntoshop/puntoshop-backend/pkg/db/dbtest"
	"github.com/puntoshop/puntoshop-backend/pkg/db/models"
	pkgerrors "github.com/puntoshop/puntoshop-backend/pkg/errors"
)

type fixture struct {
	svc      Service
	products *product.Repository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	conn := dbtest.Open(t)
	productRepo := product.NewRepository(conn)
	svc, err := NewService(NewRepository(conn), productRepo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return fixture{svc: svc, products: productRepo}
}

func (f fixture) seedProduct(t *testing.T, title string, points, stock int) *models.Product {
	t.Helper()
	p := &models.Product{Title: title, Slug: product.Slugify(title), Points: points, Stock: stock}
	created, err := f.products.CreateProduct(context.Background(), p)
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return created
}

func TestService_GetCartCreatesEmptyCart(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	userID := uuid.New()

	view, err := f.svc.GetCart(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetCart: %v", err)
	}
	if view.Summary.Items != 0 || view.Summary.TotalPoints != 0 {
		t.Fatalf("expected empty summary, got %+v", view.Summary)
	}
	if view.Cart.UserID != userID {
		t.Fatalf("cart bound to wrong user: %+v", view.Cart)
	}

	// Same cart on subsequent calls.
	again, err := f.svc.GetCart(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetCart again: %v", err)
	}
	if again.Cart.ID != view.Cart.ID {
		t.Fatal("expected a single cart per user")
	}
}

func TestService_AddItemMergesQuantities(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	p := f.seedProduct(t, "Camiseta", 100, 10)

	if _, err := f.svc.AddItem(ctx, userID, p.ID, 2); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	view, err := f.svc.AddItem(ctx, userID, p.ID, 3)
	if err != nil {
		t.Fatalf("AddItem merge: %v", err)
	}

	if len(view.Cart.Items) != 1 {
		t.Fatalf("expected a single merged item, got %d", len(view.Cart.Items))
	}
	if view.Cart.Items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", view.Cart.Items[0].Quantity)
	}
	if view.Summary.TotalPoints != 500 {
		t.Fatalf("expected total 500, got %d", view.Summary.TotalPoints)
	}
}

func TestService_AddItemStockChecks(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	p := f.seedProduct(t, "Gorra", 50, 3)

	if _, err := f.svc.AddItem(ctx, userID, p.ID, 4); err == nil {
		t.Fatal("expected insufficient stock error")
	}

	if _, err := f.svc.AddItem(ctx, userID, p.ID, 2); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	// Merged quantity would exceed stock.
	_, err := f.svc.AddItem(ctx, userID, p.ID, 2)
	if err == nil {
		t.Fatal("expected insufficient stock on merge")
	}
	if pkgerrors.Reason(err) != "insufficient_stock" {
		t.Fatalf("unexpected reason: %q", pkgerrors.Reason(err))
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected details map, got %+v", typed.Details())
	}
	if details["title"] != "Gorra" || details["available"] != 3 || details["requested"] != 4 {
		t.Fatalf("unexpected stock details: %+v", details)
	}
}

func TestService_AddItemValidation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	if _, err := f.svc.AddItem(ctx, userID, uuid.New(), 0); err == nil {
		t.Fatal("expected validation error for zero quantity")
	}
	_, err := f.svc.AddItem(ctx, userID, uuid.New(), 1)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown product, got %v", err)
	}
}

func TestService_UpdateItem(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	p := f.seedProduct(t, "Taza", 30, 5)

	if _, err := f.svc.AddItem(ctx, userID, p.ID, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	view, err := f.svc.UpdateItem(ctx, userID, p.ID, 4)
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if view.Cart.Items[0].Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", view.Cart.Items[0].Quantity)
	}

	if _, err := f.svc.UpdateItem(ctx, userID, p.ID, 6); err == nil {
		t.Fatal("expected insufficient stock error")
	}
	if _, err := f.svc.UpdateItem(ctx, userID, uuid.New(), 1); err == nil {
		t.Fatal("expected not found for item missing from cart")
	}
}

func TestService_RemoveItemAndClear(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	a := f.seedProduct(t, "Uno", 10, 10)
	b := f.seedProduct(t, "Dos", 20, 10)

	if _, err := f.svc.AddItem(ctx, userID, a.ID, 1); err != nil {
		t.Fatalf("AddItem a: %v", err)
	}
	if _, err := f.svc.AddItem(ctx, userID, b.ID, 2); err != nil {
		t.Fatalf("AddItem b: %v", err)
	}

	view, err := f.svc.RemoveItem(ctx, userID, a.ID)
	if err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if view.Summary.Items != 1 || view.Summary.TotalPoints != 40 {
		t.Fatalf("unexpected summary after remove: %+v", view.Summary)
	}

	// Removing something not in the cart is a no-op.
	if _, err := f.svc.RemoveItem(ctx, userID, uuid.New()); err != nil {
		t.Fatalf("RemoveItem absent: %v", err)
	}

	view, err = f.svc.Clear(ctx, userID)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if view.Summary.Items != 0 || view.Summary.TotalPoints != 0 {
		t.Fatalf("expected empty cart after clear, got %+v", view.Summary)
	}
}
