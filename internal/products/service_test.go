package product

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/puntoshop/puntoshop-backend/pkg/db/dbtest"
	"github.com/puntoshop/puntoshop-backend/pkg/db/models"
	pkgerrors "github.com/puntoshop/puntoshop-backend/pkg/errors"
	"github.com/puntoshop/puntoshop-backend/pkg/pagination"
)

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	repo := NewRepository(dbtest.Open(t))
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, repo
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Camiseta Oficial":     "camiseta-oficial",
		"  Gorra   2024  ":     "gorra-2024",
		"Taza (Edición #1)":    "taza-edici-n-1",
		"---":                  "",
		"Sudadera con Capucha": "sudadera-con-capucha",
	}
	for input, want := range cases {
		if got := Slugify(input); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestService_CreateAndGet(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateProductInput{
		Title:  "Camiseta Oficial",
		Points: 500,
		Stock:  10,
		Sizes:  []string{"S", "M", "L"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Slug != "camiseta-oficial" {
		t.Fatalf("unexpected slug: %q", created.Slug)
	}

	byID, err := svc.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if byID.Title != "Camiseta Oficial" || byID.Points != 500 {
		t.Fatalf("unexpected product: %+v", byID)
	}

	bySlug, err := svc.GetBySlug(ctx, "camiseta-oficial")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if bySlug.ID != created.ID {
		t.Fatalf("slug lookup returned wrong product")
	}
}

func TestService_CreateDuplicateTitle(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateProductInput{Title: "Gorra", Points: 100, Stock: 5}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := svc.Create(ctx, CreateProductInput{Title: "Gorra", Points: 200, Stock: 1})
	if err == nil {
		t.Fatal("expected duplicate title error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestService_CreateValidation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateProductInput{Title: "   "}); err == nil {
		t.Fatal("expected error for empty title")
	}
	if _, err := svc.Create(ctx, CreateProductInput{Title: "x", Points: -1}); err == nil {
		t.Fatal("expected error for negative points")
	}
	if _, err := svc.Create(ctx, CreateProductInput{Title: "x", Stock: -1}); err == nil {
		t.Fatal("expected error for negative stock")
	}
}

func TestService_Update(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateProductInput{Title: "Taza", Points: 50, Stock: 3})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	newTitle := "Taza Grande"
	newPoints := 75
	updated, err := svc.Update(ctx, created.ID, UpdateProductInput{Title: &newTitle, Points: &newPoints})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "Taza Grande" || updated.Slug != "taza-grande" || updated.Points != 75 {
		t.Fatalf("unexpected product after update: %+v", updated)
	}
	if updated.Stock != 3 {
		t.Fatalf("stock should be untouched, got %d", updated.Stock)
	}

	if _, err := svc.Update(ctx, uuid.New(), UpdateProductInput{Title: &newTitle}); err == nil {
		t.Fatal("expected not found error")
	}
}

func TestService_Delete(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateProductInput{Title: "Llavero", Points: 20, Stock: 100})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	_, err = svc.GetByID(ctx, created.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestService_List(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, title := range []string{"Uno", "Dos", "Tres"} {
		if _, err := svc.Create(ctx, CreateProductInput{Title: title, Points: 10, Stock: 1}); err != nil {
			t.Fatalf("Create %s: %v", title, err)
		}
	}

	all, err := svc.List(ctx, pagination.Page{Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 products, got %d", len(all))
	}

	limited, err := svc.List(ctx, pagination.Page{Limit: 2})
	if err != nil {
		t.Fatalf("List limited: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected 2 products, got %d", len(limited))
	}
}

func TestRepository_DecrementStockIfAvailable(t *testing.T) {
	t.Parallel()

	svc, repo := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateProductInput{Title: "Botella", Points: 30, Stock: 5})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.DecrementStockIfAvailable(ctx, created.ID, 3); err != nil {
		t.Fatalf("decrement: %v", err)
	}

	err = repo.DecrementStockIfAvailable(ctx, created.ID, 3)
	if err == nil {
		t.Fatal("expected insufficient stock error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
	if pkgerrors.Reason(err) != "insufficient_stock" {
		t.Fatalf("unexpected reason: %q", pkgerrors.Reason(err))
	}
	if details, ok := typed.Details().(map[string]any); !ok || details["requested"] != 3 {
		t.Fatalf("expected requested quantity in details, got %+v", typed.Details())
	}

	// Exact remaining amount still succeeds.
	if err := repo.DecrementStockIfAvailable(ctx, created.ID, 2); err != nil {
		t.Fatalf("exact decrement: %v", err)
	}

	var reloaded models.Product
	if err := repo.db.First(&reloaded, "id = ?", created.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Stock != 0 {
		t.Fatalf("expected stock 0, got %d", reloaded.Stock)
	}

	if err := repo.DecrementStockIfAvailable(ctx, uuid.New(), 1); err == nil {
		t.Fatal("expected error for unknown product")
	}
	if err := repo.DecrementStockIfAvailable(ctx, created.ID, 0); err == nil {
		t.Fatal("expected validation error for zero qty")
	}
}
