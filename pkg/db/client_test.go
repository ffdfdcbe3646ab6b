package db

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/puntoshop/puntoshop-backend/pkg/db/models"
)

func newTestConn(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:dbclient_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.PointsBalance{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func TestRunInTxCommits(t *testing.T) {
	t.Parallel()

	conn := newTestConn(t)
	userID := uuid.New()

	err := RunInTx(conn, func(tx *gorm.DB) error {
		return tx.Create(&models.PointsBalance{UserID: userID, Balance: 10}).Error
	})
	if err != nil {
		t.Fatalf("RunInTx: %v", err)
	}

	var row models.PointsBalance
	if err := conn.First(&row, "user_id = ?", userID).Error; err != nil {
		t.Fatalf("load balance: %v", err)
	}
	if row.Balance != 10 {
		t.Fatalf("unexpected balance %d", row.Balance)
	}
}

func TestRunInTxRollsBackOnError(t *testing.T) {
	t.Parallel()

	conn := newTestConn(t)
	userID := uuid.New()
	boom := errors.New("boom")

	err := RunInTx(conn, func(tx *gorm.DB) error {
		if err := tx.Create(&models.PointsBalance{UserID: userID, Balance: 10}).Error; err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	var count int64
	if err := conn.Model(&models.PointsBalance{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected rollback, found %d rows", count)
	}
}

func TestRunInTxRollsBackOnPanic(t *testing.T) {
	t.Parallel()

	conn := newTestConn(t)
	userID := uuid.New()

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic to propagate")
			}
		}()
		_ = RunInTx(conn, func(tx *gorm.DB) error {
			if err := tx.Create(&models.PointsBalance{UserID: userID, Balance: 10}).Error; err != nil {
				return err
			}
			panic("checkout exploded")
		})
	}()

	var count int64
	if err := conn.Model(&models.PointsBalance{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected rollback after panic, found %d rows", count)
	}
}
