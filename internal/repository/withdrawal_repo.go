package repository

import (
	"errors"

	"github.com/DAVIPRADIPTA/website-anemware/internal/domain"
	"github.com/DAVIPRADIPTA/website-anemware/internal/models"

	"gorm.io/gorm"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNotPending          = errors.New("withdrawal is not pending")
)

type WithdrawalRepository struct {
	db *gorm.DB
}

func NewWithdrawalRepository(db *gorm.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

func (r *WithdrawalRepository) Create(w *models.Withdrawal) error {
	return r.db.Create(w).Error
}

func (r *WithdrawalRepository) ListByDoctor(doctorID uint) ([]models.Withdrawal, error) {
	var list []models.Withdrawal
	err := r.db.Where("doctor_id = ?", doctorID).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *WithdrawalRepository) ListPending() ([]models.Withdrawal, error) {
	var list []models.Withdrawal
	err := r.db.Where("status = ?", domain.WithdrawalPending).Order("created_at ASC").Find(&list).Error
	return list, err
}

// Approve debits the doctor's balance and marks the withdrawal approved in one
// transaction. Both updates are guarded so concurrent approvals cannot
// overdraw the balance or approve twice.
func (r *WithdrawalRepository) Approve(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var w models.Withdrawal
		if err := tx.First(&w, id).Error; err != nil {
			return err
		}
		if w.Status != domain.WithdrawalPending {
			return ErrNotPending
		}
		res := tx.Model(&models.User{}).
			Where("id = ? AND balance >= ?", w.DoctorID, w.Amount).
			Update("balance", gorm.Expr("balance - ?", w.Amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientBalance
		}
		res = tx.Model(&models.Withdrawal{}).
			Where("id = ? AND status = ?", id, domain.WithdrawalPending).
			Update("status", domain.WithdrawalApproved)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost a race with another approval; roll the debit back.
			return ErrNotPending
		}
		return nil
	})
}

// Reject marks a pending withdrawal rejected; the balance is untouched.
func (r *WithdrawalRepository) Reject(id uint) error {
	res := r.db.Model(&models.Withdrawal{}).
		Where("id = ? AND status = ?", id, domain.WithdrawalPending).
		Update("status", domain.WithdrawalRejected)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotPending
	}
	return nil
}
