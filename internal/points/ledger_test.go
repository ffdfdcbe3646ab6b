package points

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/puntoshop/puntoshop-backend/pkg/db"
	"github.com/puntoshop/puntoshop-backend/pkg/db/dbtest"
	"github.com/puntoshop/puntoshop-backend/pkg/db/models"
	"github.com/puntoshop/puntoshop-backend/pkg/enums"
	pkgerrors "github.com/puntoshop/puntoshop-backend/pkg/errors"
)

func TestApplyCredit(t *testing.T) {
	t.Parallel()

	conn := dbtest.Open(t)
	ctx := context.Background()
	userID := uuid.New()

	movement, err := ApplyCredit(ctx, conn, MovementInput{UserID: userID, Amount: 100})
	if err != nil {
		t.Fatalf("ApplyCredit: %v", err)
	}
	if movement.Kind != enums.MovementKindCredit || movement.Amount != 100 {
		t.Fatalf("unexpected movement: %+v", movement)
	}

	if _, err := ApplyCredit(ctx, conn, MovementInput{UserID: userID, Amount: 50}); err != nil {
		t.Fatalf("second ApplyCredit: %v", err)
	}

	var balance models.PointsBalance
	if err := conn.First(&balance, "user_id = ?", userID).Error; err != nil {
		t.Fatalf("load balance: %v", err)
	}
	if balance.Balance != 150 {
		t.Fatalf("expected balance 150, got %d", balance.Balance)
	}

	var count int64
	if err := conn.Model(&models.PointsMovement{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		t.Fatalf("count movements: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 movements, got %d", count)
	}
}

func TestApplyDebit(t *testing.T) {
	t.Parallel()

	conn := dbtest.Open(t)
	ctx := context.Background()
	userID := uuid.New()

	if _, err := ApplyCredit(ctx, conn, MovementInput{UserID: userID, Amount: 100}); err != nil {
		t.Fatalf("seed credit: %v", err)
	}

	movement, err := ApplyDebit(ctx, conn, MovementInput{UserID: userID, Amount: 60})
	if err != nil {
		t.Fatalf("ApplyDebit: %v", err)
	}
	if movement.Kind != enums.MovementKindDebit || movement.Amount != 60 {
		t.Fatalf("unexpected movement: %+v", movement)
	}

	var balance models.PointsBalance
	if err := conn.First(&balance, "user_id = ?", userID).Error; err != nil {
		t.Fatalf("load balance: %v", err)
	}
	if balance.Balance != 40 {
		t.Fatalf("expected balance 40, got %d", balance.Balance)
	}

	// Draining to exactly zero is allowed.
	if _, err := ApplyDebit(ctx, conn, MovementInput{UserID: userID, Amount: 40}); err != nil {
		t.Fatalf("exact debit: %v", err)
	}
	if err := conn.First(&balance, "user_id = ?", userID).Error; err != nil {
		t.Fatalf("reload balance: %v", err)
	}
	if balance.Balance != 0 {
		t.Fatalf("expected balance 0, got %d", balance.Balance)
	}
}

func TestApplyDebitInsufficient(t *testing.T) {
	t.Parallel()

	conn := dbtest.Open(t)
	ctx := context.Background()
	userID := uuid.New()

	if _, err := ApplyCredit(ctx, conn, MovementInput{UserID: userID, Amount: 30}); err != nil {
		t.Fatalf("seed credit: %v", err)
	}

	_, err := ApplyDebit(ctx, conn, MovementInput{UserID: userID, Amount: 31})
	if err == nil {
		t.Fatal("expected insufficient balance error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
	if pkgerrors.Reason(err) != "insufficient_balance" {
		t.Fatalf("unexpected reason: %q", pkgerrors.Reason(err))
	}
	details, ok := typed.Details().(map[string]any)
	if !ok || details["required"] != 31 {
		t.Fatalf("expected required amount in details, got %+v", typed.Details())
	}

	// Balance untouched, no debit movement written.
	var balance models.PointsBalance
	if err := conn.First(&balance, "user_id = ?", userID).Error; err != nil {
		t.Fatalf("load balance: %v", err)
	}
	if balance.Balance != 30 {
		t.Fatalf("expected balance 30, got %d", balance.Balance)
	}
	var debits int64
	if err := conn.Model(&models.PointsMovement{}).
		Where("user_id = ? AND kind = ?", userID, enums.MovementKindDebit).
		Count(&debits).Error; err != nil {
		t.Fatalf("count debits: %v", err)
	}
	if debits != 0 {
		t.Fatalf("expected no debit movements, got %d", debits)
	}
}

func TestApplyDebitConcurrentOverdraw(t *testing.T) {
	t.Parallel()

	conn := dbtest.OpenFile(t)
	ctx := context.Background()
	userID := uuid.New()

	if _, err := ApplyCredit(ctx, conn, MovementInput{UserID: userID, Amount: 40}); err != nil {
		t.Fatalf("seed credit: %v", err)
	}

	// Two debits that jointly overdraw the balance race on the guarded
	// update. Exactly one may win regardless of interleaving.
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			errs <- db.RunInTx(conn, func(tx *gorm.DB) error {
				_, err := ApplyDebit(ctx, tx, MovementInput{UserID: userID, Amount: 30})
				return err
			})
		}()
	}

	var failures int
	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil {
			if pkgerrors.Reason(err) != "insufficient_balance" {
				t.Fatalf("unexpected error: %v", err)
			}
			failures++
		}
	}
	if failures != 1 {
		t.Fatalf("expected exactly one debit to fail, got %d failures", failures)
	}

	var balance models.PointsBalance
	if err := conn.First(&balance, "user_id = ?", userID).Error; err != nil {
		t.Fatalf("load balance: %v", err)
	}
	if balance.Balance != 10 {
		t.Fatalf("expected balance 10, got %d", balance.Balance)
	}
	var debits int64
	if err := conn.Model(&models.PointsMovement{}).
		Where("user_id = ? AND kind = ?", userID, enums.MovementKindDebit).
		Count(&debits).Error; err != nil {
		t.Fatalf("count debits: %v", err)
	}
	if debits != 1 {
		t.Fatalf("expected exactly one debit movement, got %d", debits)
	}
}

func TestApplyDebitUnknownUser(t *testing.T) {
	t.Parallel()

	conn := dbtest.Open(t)

	_, err := ApplyDebit(context.Background(), conn, MovementInput{UserID: uuid.New(), Amount: 1})
	if err == nil {
		t.Fatal("expected insufficient balance error")
	}
	if pkgerrors.Reason(err) != "insufficient_balance" {
		t.Fatalf("unexpected reason: %q", pkgerrors.Reason(err))
	}
}

func TestApplyValidation(t *testing.T) {
	t.Parallel()

	conn := dbtest.Open(t)
	ctx := context.Background()

	for _, amount := range []int{0, -5} {
		if _, err := ApplyCredit(ctx, conn, MovementInput{UserID: uuid.New(), Amount: amount}); err == nil {
			t.Fatalf("expected validation error for amount %d", amount)
		} else if pkgerrors.Reason(err) != "invalid_amount" {
			t.Fatalf("unexpected reason: %q", pkgerrors.Reason(err))
		}
	}
	if _, err := ApplyDebit(ctx, conn, MovementInput{UserID: uuid.Nil, Amount: 10}); err == nil {
		t.Fatal("expected validation error for nil user id")
	}
}

func TestApplyDebitRollsBackWithTransaction(t *testing.T) {
	t.Parallel()

	conn := dbtest.Open(t)
	ctx := context.Background()
	userID := uuid.New()

	if _, err := ApplyCredit(ctx, conn, MovementInput{UserID: userID, Amount: 100}); err != nil {
		t.Fatalf("seed credit: %v", err)
	}

	failure := pkgerrors.New(pkgerrors.CodeInternal, "later step failed")
	err := db.RunInTx(conn, func(tx *gorm.DB) error {
		if _, err := ApplyDebit(ctx, tx, MovementInput{UserID: userID, Amount: 80}); err != nil {
			return err
		}
		return failure
	})
	if err == nil {
		t.Fatal("expected transaction to fail")
	}

	var balance models.PointsBalance
	if err := conn.First(&balance, "user_id = ?", userID).Error; err != nil {
		t.Fatalf("load balance: %v", err)
	}
	if balance.Balance != 100 {
		t.Fatalf("expected rollback to restore balance 100, got %d", balance.Balance)
	}
}
