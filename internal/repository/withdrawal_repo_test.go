package repository

import (
	"errors"
	"testing"

	"github.com/DAVIPRADIPTA/website-anemware/internal/domain"
	"github.com/DAVIPRADIPTA/website-anemware/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// One in-memory database per connection otherwise.
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.User{}, &models.Withdrawal{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedDoctorWithBalance(t *testing.T, db *gorm.DB, balance int64) *models.User {
	t.Helper()
	doctor := &models.User{
		Email:    "dr.sari@test.local",
		FullName: "Dr Sari",
		Role:     domain.RoleDoctor,
		Balance:  balance,
	}
	if err := db.Create(doctor).Error; err != nil {
		t.Fatalf("create doctor: %v", err)
	}
	return doctor
}

func TestApproveDebitsBalanceOnce(t *testing.T) {
	db := newTestDB(t)
	repo := NewWithdrawalRepository(db)
	doctor := seedDoctorWithBalance(t, db, 90000)

	w := &models.Withdrawal{
		DoctorID:      doctor.ID,
		Amount:        50000,
		BankName:      "BCA",
		AccountNumber: "1234567890",
		Status:        domain.WithdrawalPending,
	}
	if err := repo.Create(w); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.Approve(w.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := repo.Approve(w.ID); !errors.Is(err, ErrNotPending) {
		t.Fatalf("second approve: got %v, want ErrNotPending", err)
	}

	var fresh models.User
	db.First(&fresh, doctor.ID)
	if fresh.Balance != 40000 {
		t.Fatalf("balance = %d, expected a single 50000 debit", fresh.Balance)
	}
	var updated models.Withdrawal
	db.First(&updated, w.ID)
	if updated.Status != domain.WithdrawalApproved {
		t.Fatalf("status = %q, want approved", updated.Status)
	}
}

func TestApproveInsufficientBalance(t *testing.T) {
	db := newTestDB(t)
	repo := NewWithdrawalRepository(db)
	doctor := seedDoctorWithBalance(t, db, 10000)

	w := &models.Withdrawal{
		DoctorID:      doctor.ID,
		Amount:        50000,
		BankName:      "BCA",
		AccountNumber: "1234567890",
		Status:        domain.WithdrawalPending,
	}
	if err := repo.Create(w); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.Approve(w.ID); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("approve: got %v, want ErrInsufficientBalance", err)
	}
	var fresh models.User
	db.First(&fresh, doctor.ID)
	if fresh.Balance != 10000 {
		t.Fatalf("balance moved on a failed approval: %d", fresh.Balance)
	}
	var updated models.Withdrawal
	db.First(&updated, w.ID)
	if updated.Status != domain.WithdrawalPending {
		t.Fatalf("status = %q, expected still pending", updated.Status)
	}
}

func TestRejectLeavesBalanceUntouched(t *testing.T) {
	db := newTestDB(t)
	repo := NewWithdrawalRepository(db)
	doctor := seedDoctorWithBalance(t, db, 90000)

	w := &models.Withdrawal{
		DoctorID:      doctor.ID,
		Amount:        50000,
		BankName:      "BCA",
		AccountNumber: "1234567890",
		Status:        domain.WithdrawalPending,
	}
	if err := repo.Create(w); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.Reject(w.ID); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if err := repo.Reject(w.ID); !errors.Is(err, ErrNotPending) {
		t.Fatalf("second reject: got %v, want ErrNotPending", err)
	}
	if err := repo.Approve(w.ID); !errors.Is(err, ErrNotPending) {
		t.Fatalf("approve after reject: got %v, want ErrNotPending", err)
	}

	var fresh models.User
	db.First(&fresh, doctor.ID)
	if fresh.Balance != 90000 {
		t.Fatalf("balance = %d, reject must not move money", fresh.Balance)
	}
}
