package models

import (
	"time"

	"github.com/DAVIPRADIPTA/website-anemware/internal/domain"
)

// Consultation is one booked chat session between a patient and a doctor.
// Rows are never deleted; the status column carries the lifecycle.
type Consultation struct {
	ID        uint                      `gorm:"primaryKey" json:"id"`
	PatientID uint                      `gorm:"not null;index" json:"patient_id"`
	DoctorID  uint                      `gorm:"not null;index" json:"doctor_id"`
	Status    domain.ConsultationStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	ExpiredAt *time.Time                `json:"expired_at"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at"`

	Patient User `gorm:"foreignKey:PatientID" json:"-"`
	Doctor  User `gorm:"foreignKey:DoctorID" json:"-"`
}

func (Consultation) TableName() string {
	return "consultations"
}

// IsParticipant reports whether userID is the patient or the doctor.
func (c *Consultation) IsParticipant(userID uint) bool {
	return userID == c.PatientID || userID == c.DoctorID
}

// Expired reports whether the session window has passed. Consultations without
// an expiry (still pending) never count as expired.
func (c *Consultation) Expired(now time.Time) bool {
	return c.ExpiredAt != nil && !now.Before(*c.ExpiredAt)
}

// Payment is one settlement attempt for a consultation. A consultation may
// accumulate several (retried bookings, gateway retries); the latest by
// created_at is authoritative.
type Payment struct {
	ID             uint                 `gorm:"primaryKey" json:"id"`
	ConsultationID uint                 `gorm:"not null;index" json:"consultation_id"`
	Amount         int64                `gorm:"not null" json:"amount"`
	PaymentMethod  string               `gorm:"size:50" json:"payment_method"`
	Status         domain.PaymentStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	TransactionID  string               `gorm:"size:100;uniqueIndex" json:"transaction_id"`
	CreatedAt      time.Time            `json:"created_at"`

	Consultation Consultation `gorm:"foreignKey:ConsultationID" json:"-"`
}

func (Payment) TableName() string {
	return "payments"
}

// ChatMessage is append-only; only the read flag ever changes after insert.
type ChatMessage struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ConsultationID uint      `gorm:"not null;index" json:"consultation_id"`
	SenderID       uint      `gorm:"not null;index" json:"sender_id"`
	Message        string    `gorm:"type:text;not null" json:"message"`
	IsRead         bool      `gorm:"default:false" json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`

	Consultation Consultation `gorm:"foreignKey:ConsultationID" json:"-"`
	Sender       User         `gorm:"foreignKey:SenderID" json:"-"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
