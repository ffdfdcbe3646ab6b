package points

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/puntoshop/puntoshop-backend/pkg/db"
	"github.com/puntoshop/puntoshop-backend/pkg/db/dbtest"
	pkgerrors "github.com/puntoshop/puntoshop-backend/pkg/errors"
	"github.com/puntoshop/puntoshop-backend/pkg/pagination"
)

type gormRunner struct {
	conn *gorm.DB
}

func (r gormRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return db.RunInTx(r.conn, fn)
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := dbtest.Open(t)
	svc, err := NewService(gormRunner{conn: conn}, NewRepository(conn))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, conn
}

func TestService_CreditAndBalance(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	credited, err := svc.Credit(ctx, MovementInput{UserID: userID, Amount: 200})
	if err != nil {
		t.Fatalf("Credit: %v", err)
	}
	if credited.Balance != 200 {
		t.Fatalf("expected returned balance 200, got %d", credited.Balance)
	}

	balance, err := svc.GetBalance(ctx, userID)
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if balance.Balance != 200 {
		t.Fatalf("expected 200, got %d", balance.Balance)
	}
}

func TestService_GetBalanceUnknownUser(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	balance, err := svc.GetBalance(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if balance.Balance != 0 {
		t.Fatalf("expected zero balance, got %d", balance.Balance)
	}

	if _, err := svc.GetBalance(context.Background(), uuid.Nil); err == nil {
		t.Fatal("expected validation error for nil user id")
	}
}

func TestService_DebitInsufficient(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	if _, err := svc.Credit(ctx, MovementInput{UserID: userID, Amount: 10}); err != nil {
		t.Fatalf("Credit: %v", err)
	}
	_, err := svc.Debit(ctx, MovementInput{UserID: userID, Amount: 11})
	if err == nil {
		t.Fatal("expected insufficient balance error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestService_ListMovements(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	for _, amount := range []int{10, 20, 30} {
		if _, err := svc.Credit(ctx, MovementInput{UserID: userID, Amount: amount}); err != nil {
			t.Fatalf("Credit: %v", err)
		}
	}
	if _, err := svc.Debit(ctx, MovementInput{UserID: userID, Amount: 15}); err != nil {
		t.Fatalf("Debit: %v", err)
	}

	movements, err := svc.ListMovements(ctx, userID, pagination.Page{Limit: 10})
	if err != nil {
		t.Fatalf("ListMovements: %v", err)
	}
	if len(movements) != 4 {
		t.Fatalf("expected 4 movements, got %d", len(movements))
	}

	limited, err := svc.ListMovements(ctx, userID, pagination.Page{Limit: 2})
	if err != nil {
		t.Fatalf("ListMovements limited: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected 2 movements, got %d", len(limited))
	}

	other, err := svc.ListMovements(ctx, uuid.New(), pagination.Page{})
	if err != nil {
		t.Fatalf("ListMovements other user: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("expected no movements for other user, got %d", len(other))
	}
}
