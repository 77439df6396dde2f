package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/calcledger/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupVerificationCodeRepositoryTest(t *testing.T) (*GormVerificationCodeRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:verification_code_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.VerificationCode{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewVerificationCodeRepository(db), db
}

func TestVerificationCodeRepositoryReplaceKeepsSingleCode(t *testing.T) {
	repo, db := setupVerificationCodeRepositoryTest(t)
	now := time.Now().UTC()

	first := models.VerificationCode{
		UserID:    "subject-1",
		Code:      "111111",
		ExpiresAt: now.Add(10 * time.Minute),
	}
	if err := repo.Replace(&first); err != nil {
		t.Fatalf("replace first failed: %v", err)
	}
	second := models.VerificationCode{
		UserID:    "subject-1",
		Code:      "222222",
		ExpiresAt: now.Add(10 * time.Minute),
	}
	if err := repo.Replace(&second); err != nil {
		t.Fatalf("replace second failed: %v", err)
	}

	var count int64
	if err := db.Model(&models.VerificationCode{}).
		Where("user_id = ?", "subject-1").
		Count(&count).Error; err != nil {
		t.Fatalf("count codes failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 live code, got %d", count)
	}

	ok, err := repo.Consume("subject-1", "111111", now)
	if err != nil {
		t.Fatalf("consume old code failed: %v", err)
	}
	if ok {
		t.Fatalf("expected old code to be rejected after replace")
	}
}

func TestVerificationCodeRepositoryConsumeMatchingCode(t *testing.T) {
	repo, _ := setupVerificationCodeRepositoryTest(t)
	now := time.Now().UTC()

	code := models.VerificationCode{
		UserID:    "subject-1",
		Code:      "654321",
		ExpiresAt: now.Add(10 * time.Minute),
	}
	if err := repo.Replace(&code); err != nil {
		t.Fatalf("replace failed: %v", err)
	}

	ok, err := repo.Consume("subject-1", "654321", now)
	if err != nil {
		t.Fatalf("consume failed: %v", err)
	}
	if !ok {
		t.Fatalf("expected matching code to be consumed")
	}

	ok, err = repo.Consume("subject-1", "654321", now)
	if err != nil {
		t.Fatalf("second consume failed: %v", err)
	}
	if ok {
		t.Fatalf("expected consumed code to be rejected on reuse")
	}
}

func TestVerificationCodeRepositoryConsumeRejectsExpired(t *testing.T) {
	repo, _ := setupVerificationCodeRepositoryTest(t)
	now := time.Now().UTC()

	code := models.VerificationCode{
		UserID:    "subject-1",
		Code:      "654321",
		ExpiresAt: now.Add(-1 * time.Minute),
	}
	if err := repo.Replace(&code); err != nil {
		t.Fatalf("replace failed: %v", err)
	}

	ok, err := repo.Consume("subject-1", "654321", now)
	if err != nil {
		t.Fatalf("consume failed: %v", err)
	}
	if ok {
		t.Fatalf("expected expired code to be rejected")
	}
}

func TestVerificationCodeRepositoryConsumeScopedToUser(t *testing.T) {
	repo, _ := setupVerificationCodeRepositoryTest(t)
	now := time.Now().UTC()

	code := models.VerificationCode{
		UserID:    "subject-1",
		Code:      "654321",
		ExpiresAt: now.Add(10 * time.Minute),
	}
	if err := repo.Replace(&code); err != nil {
		t.Fatalf("replace failed: %v", err)
	}

	ok, err := repo.Consume("subject-2", "654321", now)
	if err != nil {
		t.Fatalf("consume failed: %v", err)
	}
	if ok {
		t.Fatalf("expected code of another user to be rejected")
	}

	ok, err = repo.Consume("subject-1", "654321", now)
	if err != nil {
		t.Fatalf("owner consume failed: %v", err)
	}
	if !ok {
		t.Fatalf("expected code to stay valid for its owner")
	}
}

func TestVerificationCodeRepositoryDeleteByUser(t *testing.T) {
	repo, _ := setupVerificationCodeRepositoryTest(t)
	now := time.Now().UTC()

	code := models.VerificationCode{
		UserID:    "subject-1",
		Code:      "654321",
		ExpiresAt: now.Add(10 * time.Minute),
	}
	if err := repo.Replace(&code); err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if err := repo.DeleteByUser("subject-1"); err != nil {
		t.Fatalf("delete by user failed: %v", err)
	}

	ok, err := repo.Consume("subject-1", "654321", now)
	if err != nil {
		t.Fatalf("consume failed: %v", err)
	}
	if ok {
		t.Fatalf("expected deleted code to be rejected")
	}
}
