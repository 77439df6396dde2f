package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/calcledger/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func setupCalculationRepositoryTest(t *testing.T) (*GormCalculationRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:calculation_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Calculation{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewCalculationRepository(db), db
}

func newTestCalculation(userID, expression, result string, createdAt time.Time) models.Calculation {
	return models.Calculation{
		ID:         uuid.NewString(),
		UserID:     userID,
		Expression: expression,
		Result:     result,
		CreatedAt:  createdAt,
	}
}

func TestCalculationRepositoryListByUserNewestFirst(t *testing.T) {
	repo, _ := setupCalculationRepositoryTest(t)
	now := time.Now().UTC().Truncate(time.Second)

	older := newTestCalculation("subject-1", "1+1", "2", now.Add(-2*time.Minute))
	newer := newTestCalculation("subject-1", "2*3", "6", now)
	other := newTestCalculation("subject-2", "9-1", "8", now)
	for _, calc := range []models.Calculation{older, newer, other} {
		record := calc
		if err := repo.Create(&record); err != nil {
			t.Fatalf("create calculation failed: %v", err)
		}
	}

	calcs, err := repo.ListByUser("subject-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(calcs) != 2 {
		t.Fatalf("expected 2 calculations, got %d", len(calcs))
	}
	if calcs[0].ID != newer.ID || calcs[1].ID != older.ID {
		t.Fatalf("expected newest first, got %s then %s", calcs[0].ID, calcs[1].ID)
	}
}

func TestCalculationRepositoryListByUserEmpty(t *testing.T) {
	repo, _ := setupCalculationRepositoryTest(t)

	calcs, err := repo.ListByUser("subject-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(calcs) != 0 {
		t.Fatalf("expected empty list, got %d records", len(calcs))
	}
}

func TestCalculationRepositoryUpdateOwned(t *testing.T) {
	repo, db := setupCalculationRepositoryTest(t)
	now := time.Now().UTC()

	calc := newTestCalculation("subject-1", "1+1", "2", now)
	if err := repo.Create(&calc); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := repo.UpdateOwned(calc.ID, "subject-1", "1+2", "3")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated == nil {
		t.Fatalf("expected owned update to succeed")
	}
	if updated.Expression != "1+2" || updated.Result != "3" {
		t.Fatalf("unexpected returned record: %s = %s", updated.Expression, updated.Result)
	}

	var stored models.Calculation
	if err := db.First(&stored, "id = ?", calc.ID).Error; err != nil {
		t.Fatalf("load updated record failed: %v", err)
	}
	if stored.Expression != "1+2" || stored.Result != "3" {
		t.Fatalf("unexpected stored record: %s = %s", stored.Expression, stored.Result)
	}

	updated, err = repo.UpdateOwned(calc.ID, "subject-2", "5+5", "10")
	if err != nil {
		t.Fatalf("foreign update failed: %v", err)
	}
	if updated != nil {
		t.Fatalf("expected update by another user to miss")
	}
}

func TestCalculationRepositoryDeleteOwned(t *testing.T) {
	repo, _ := setupCalculationRepositoryTest(t)
	now := time.Now().UTC()

	calc := newTestCalculation("subject-1", "1+1", "2", now)
	if err := repo.Create(&calc); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	deleted, err := repo.DeleteOwned(calc.ID, "subject-2")
	if err != nil {
		t.Fatalf("foreign delete failed: %v", err)
	}
	if deleted != nil {
		t.Fatalf("expected delete by another user to miss")
	}

	deleted, err = repo.DeleteOwned(calc.ID, "subject-1")
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if deleted == nil || deleted.ID != calc.ID {
		t.Fatalf("expected deleted record to be returned")
	}

	calcs, err := repo.ListByUser("subject-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(calcs) != 0 {
		t.Fatalf("expected record to be gone, got %d", len(calcs))
	}

	deleted, err = repo.DeleteOwned(calc.ID, "subject-1")
	if err != nil {
		t.Fatalf("repeat delete failed: %v", err)
	}
	if deleted != nil {
		t.Fatalf("expected repeat delete to miss, got %+v", deleted)
	}
}
