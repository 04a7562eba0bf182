package repository

import (
	"time"

	"github.com/DAVIPRADIPTA/website-anemware/internal/domain"
	"github.com/DAVIPRADIPTA/website-anemware/internal/models"

	"gorm.io/gorm"
)

// ConsultationRepository serves read paths over consultations and payments;
// state transitions live in the consultation service, which runs them in
// transactions on the shared handle.
type ConsultationRepository struct {
	db *gorm.DB
}

func NewConsultationRepository(db *gorm.DB) *ConsultationRepository {
	return &ConsultationRepository{db: db}
}

// ConsultationFilter narrows the admin listing.
type ConsultationFilter struct {
	Status        domain.ConsultationStatus
	PaymentStatus domain.PaymentStatus
	From, To      *time.Time
}

// ConsultationRow is one admin listing entry; LatestPayment is nil when the
// consultation has no payment (direct-start sessions).
type ConsultationRow struct {
	Consultation  models.Consultation
	LatestPayment *models.Payment
}

// ListAll returns consultations for the admin dashboard with their latest
// payment attached.
func (r *ConsultationRepository) ListAll(f ConsultationFilter) ([]ConsultationRow, error) {
	q := r.db.Model(&models.Consultation{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}
	var consultations []models.Consultation
	if err := q.Order("created_at DESC").Find(&consultations).Error; err != nil {
		return nil, err
	}
	rows := make([]ConsultationRow, 0, len(consultations))
	for _, c := range consultations {
		p, err := r.GetLatestPayment(c.ID)
		if err != nil {
			return nil, err
		}
		if f.PaymentStatus != "" && (p == nil || p.Status != f.PaymentStatus) {
			continue
		}
		rows = append(rows, ConsultationRow{Consultation: c, LatestPayment: p})
	}
	return rows, nil
}

func (r *ConsultationRepository) GetPaymentByID(id uint) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetLatestPayment returns the newest payment for a consultation, nil when none.
func (r *ConsultationRepository) GetLatestPayment(consultationID uint) (*models.Payment, error) {
	var p models.Payment
	err := r.db.Where("consultation_id = ?", consultationID).
		Order("created_at DESC, id DESC").First(&p).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
