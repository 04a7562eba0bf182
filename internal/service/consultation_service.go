package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/DAVIPRADIPTA/website-anemware/internal/domain"
	"github.com/DAVIPRADIPTA/website-anemware/internal/models"
	"github.com/DAVIPRADIPTA/website-anemware/pkg/midtrans"

	"gorm.io/gorm"
)

// ConsultationService owns every Consultation/Payment state transition and the
// money movement tied to them. All multi-row mutations run in one transaction.
type ConsultationService struct {
	db      *gorm.DB
	gateway midtrans.Client
}

func NewConsultationService(db *gorm.DB, gateway midtrans.Client) *ConsultationService {
	return &ConsultationService{db: db, gateway: gateway}
}

// BookingResult is what a patient gets back from a successful booking.
type BookingResult struct {
	ConsultationID uint   `json:"consultation_id"`
	PaymentID      uint   `json:"payment_id"`
	Amount         int64  `json:"amount"`
	OrderID        string `json:"order_id"`
	PaymentURL     string `json:"payment_url"`
	PaymentToken   string `json:"payment_token"`
}

// Book creates a pending consultation plus its pending payment and requests a
// hosted payment page. The gateway call happens inside the transaction: if the
// gateway cannot produce a link, no rows survive.
func (s *ConsultationService) Book(ctx context.Context, patientID, doctorID uint) (*BookingResult, error) {
	var patient models.User
	if err := s.db.WithContext(ctx).First(&patient, patientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var doctor models.User
	if err := s.db.WithContext(ctx).First(&doctor, doctorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}
	if !doctor.IsDoctor() {
		return nil, ErrDoctorNotFound
	}

	var result BookingResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		consultation := &models.Consultation{
			PatientID: patientID,
			DoctorID:  doctorID,
			Status:    domain.ConsultationPending,
		}
		if err := tx.Create(consultation).Error; err != nil {
			return err
		}

		// The gateway rejects reused order ids, so the id is chosen here and
		// never by the gateway: unique by construction via the consultation id.
		orderID := fmt.Sprintf("ORDER-%d-%d", time.Now().Unix(), consultation.ID)

		payment := &models.Payment{
			ConsultationID: consultation.ID,
			Amount:         doctor.ConsultationPrice,
			PaymentMethod:  "midtrans",
			Status:         domain.PaymentPending,
			TransactionID:  orderID,
		}
		if err := tx.Create(payment).Error; err != nil {
			return err
		}

		snap, err := s.gateway.CreateTransaction(ctx, orderID, payment.Amount, midtrans.CustomerDetails{
			FirstName: patient.FullName,
			Email:     patient.Email,
		})
		if err != nil {
			return fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
		}

		result = BookingResult{
			ConsultationID: consultation.ID,
			PaymentID:      payment.ID,
			Amount:         payment.Amount,
			OrderID:        orderID,
			PaymentURL:     snap.RedirectURL,
			PaymentToken:   snap.Token,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ReconcileSettlement maps a gateway notification onto the payment and, when
// the mapped status is success and the consultation is still pending, activates
// the session and credits the doctor. Safe to call any number of times for the
// same order: only the transition out of pending moves money.
func (s *ConsultationService) ReconcileSettlement(ctx context.Context, orderID, transactionStatus, fraudStatus string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.Where("transaction_id = ?", orderID).First(&payment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnknownTransaction
			}
			return err
		}

		mapped := domain.MapGatewayStatus(transactionStatus, fraudStatus)
		if err := tx.Model(&payment).Update("status", mapped).Error; err != nil {
			return err
		}
		if mapped != domain.PaymentSuccess {
			return nil
		}

		// Guarded transition: only the caller that flips pending->active
		// credits the doctor. A concurrent duplicate sees zero rows affected
		// and records the payment status only.
		expiry := time.Now().Add(domain.SessionDuration)
		res := tx.Model(&models.Consultation{}).
			Where("id = ? AND status = ?", payment.ConsultationID, domain.ConsultationPending).
			Updates(map[string]interface{}{
				"status":     domain.ConsultationActive,
				"expired_at": expiry,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		var consultation models.Consultation
		if err := tx.First(&consultation, payment.ConsultationID).Error; err != nil {
			return err
		}
		fee, doctorShare := domain.SplitAmount(payment.Amount)
		if err := tx.Model(&models.User{}).
			Where("id = ?", consultation.DoctorID).
			Update("balance", gorm.Expr("balance + ?", doctorShare)).Error; err != nil {
			return err
		}
		log.Printf("[SETTLEMENT] order=%s consultation=%d activated, doctor %d credited %d (fee %d)",
			orderID, consultation.ID, consultation.DoctorID, doctorShare, fee)
		return nil
	})
}

// DirectStart is the payment-bypass entry point for trial flows. It resumes
// the most recent consultation for the pair when one exists, otherwise starts
// an active session with no payment attached.
func (s *ConsultationService) DirectStart(ctx context.Context, patientID, doctorID uint) (uint, error) {
	if doctorID == 0 {
		return 0, ErrValidation
	}
	var existing models.Consultation
	err := s.db.WithContext(ctx).
		Where("patient_id = ? AND doctor_id = ?", patientID, doctorID).
		Order("created_at DESC").First(&existing).Error
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}
	expiry := time.Now().Add(domain.DirectStartDuration)
	consultation := &models.Consultation{
		PatientID: patientID,
		DoctorID:  doctorID,
		Status:    domain.ConsultationActive,
		ExpiredAt: &expiry,
	}
	if err := s.db.WithContext(ctx).Create(consultation).Error; err != nil {
		return 0, err
	}
	return consultation.ID, nil
}

// MarkPaid is the administrative convenience path: it drives the same
// settlement reconciliation as the webhook with a synthetic settlement status.
func (s *ConsultationService) MarkPaid(ctx context.Context, paymentID uint) error {
	var payment models.Payment
	if err := s.db.WithContext(ctx).First(&payment, paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.ReconcileSettlement(ctx, payment.TransactionID, domain.GatewaySettlement, "")
}

// RefreshStatus polls the gateway for an order's current status and feeds it
// through the settlement path; used when a webhook was missed.
func (s *ConsultationService) RefreshStatus(ctx context.Context, orderID string) error {
	st, err := s.gateway.GetStatus(ctx, orderID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	return s.ReconcileSettlement(ctx, orderID, st.TransactionStatus, st.FraudStatus)
}
