package models

import "time"

// Withdrawal is a doctor's request to pay out accumulated balance.
type Withdrawal struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	DoctorID      uint      `gorm:"not null;index" json:"doctor_id"`
	Amount        int64     `gorm:"not null" json:"amount"`
	BankName      string    `gorm:"size:50;not null" json:"bank_name"`
	AccountNumber string    `gorm:"size:50;not null" json:"account_number"`
	Status        string    `gorm:"size:20;not null;default:'pending';index" json:"status"` // pending | approved | rejected
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Doctor User `gorm:"foreignKey:DoctorID" json:"-"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}
