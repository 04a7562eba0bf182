package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DAVIPRADIPTA/website-anemware/internal/domain"
	"github.com/DAVIPRADIPTA/website-anemware/internal/models"
)

func TestBookCreatesPendingConsultationAndPayment(t *testing.T) {
	db := newTestDB(t)
	gw := &fakeGateway{}
	svc := NewConsultationService(db, gw)
	patient := createPatient(t, db, "rina@test.local")
	doctor := createDoctor(t, db, "dr.sari@test.local", 100000)

	result, err := svc.Book(context.Background(), patient.ID, doctor.ID)
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if !strings.HasPrefix(result.OrderID, "ORDER-") {
		t.Fatalf("unexpected order id %q", result.OrderID)
	}
	if result.Amount != 100000 {
		t.Fatalf("amount = %d, expected doctor price", result.Amount)
	}
	if result.PaymentURL == "" || result.PaymentToken == "" {
		t.Fatalf("missing payment link: %+v", result)
	}

	var consultation models.Consultation
	if err := db.First(&consultation, result.ConsultationID).Error; err != nil {
		t.Fatalf("load consultation: %v", err)
	}
	if consultation.Status != domain.ConsultationPending {
		t.Fatalf("consultation status = %q, expected pending", consultation.Status)
	}
	if consultation.ExpiredAt != nil {
		t.Fatalf("pending consultation must not have an expiry")
	}

	var payment models.Payment
	if err := db.First(&payment, result.PaymentID).Error; err != nil {
		t.Fatalf("load payment: %v", err)
	}
	if payment.Status != domain.PaymentPending {
		t.Fatalf("payment status = %q, expected pending", payment.Status)
	}
	if payment.TransactionID != result.OrderID {
		t.Fatalf("payment transaction id %q != order id %q", payment.TransactionID, result.OrderID)
	}
	if len(gw.orders) != 1 || gw.orders[0] != result.OrderID {
		t.Fatalf("gateway saw orders %v", gw.orders)
	}
}

func TestBookRollsBackWhenGatewayFails(t *testing.T) {
	db := newTestDB(t)
	svc := NewConsultationService(db, &fakeGateway{fail: true})
	patient := createPatient(t, db, "rina@test.local")
	doctor := createDoctor(t, db, "dr.sari@test.local", 50000)

	_, err := svc.Book(context.Background(), patient.ID, doctor.ID)
	if !errors.Is(err, ErrGatewayUnavailable) {
		t.Fatalf("expected ErrGatewayUnavailable, got %v", err)
	}

	var consultations, payments int64
	db.Model(&models.Consultation{}).Count(&consultations)
	db.Model(&models.Payment{}).Count(&payments)
	if consultations != 0 || payments != 0 {
		t.Fatalf("rows survived a failed booking: %d consultations, %d payments", consultations, payments)
	}
}

func TestBookRejectsNonDoctor(t *testing.T) {
	db := newTestDB(t)
	svc := NewConsultationService(db, &fakeGateway{})
	patient := createPatient(t, db, "rina@test.local")
	other := createPatient(t, db, "budi@test.local")

	if _, err := svc.Book(context.Background(), patient.ID, other.ID); !errors.Is(err, ErrDoctorNotFound) {
		t.Fatalf("expected ErrDoctorNotFound, got %v", err)
	}
	if _, err := svc.Book(context.Background(), patient.ID, 9999); !errors.Is(err, ErrDoctorNotFound) {
		t.Fatalf("expected ErrDoctorNotFound for missing user, got %v", err)
	}
}

func TestBookAllowsZeroPriceDoctor(t *testing.T) {
	db := newTestDB(t)
	svc := NewConsultationService(db, &fakeGateway{})
	patient := createPatient(t, db, "rina@test.local")
	doctor := createDoctor(t, db, "dr.free@test.local", 0)

	result, err := svc.Book(context.Background(), patient.ID, doctor.ID)
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if result.Amount != 0 {
		t.Fatalf("amount = %d, expected 0", result.Amount)
	}
}

func TestReconcileSettlementActivatesAndCreditsOnce(t *testing.T) {
	db := newTestDB(t)
	svc := NewConsultationService(db, &fakeGateway{})
	patient := createPatient(t, db, "rina@test.local")
	doctor := createDoctor(t, db, "dr.sari@test.local", 100000)

	result, err := svc.Book(context.Background(), patient.ID, doctor.ID)
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	// The gateway may send both capture and settlement for one transaction.
	for _, status := range []string{domain.GatewayCapture, domain.GatewaySettlement, domain.GatewaySettlement} {
		if err := svc.ReconcileSettlement(context.Background(), result.OrderID, status, domain.FraudAccept); err != nil {
			t.Fatalf("reconcile %s: %v", status, err)
		}
	}

	var consultation models.Consultation
	db.First(&consultation, result.ConsultationID)
	if consultation.Status != domain.ConsultationActive {
		t.Fatalf("consultation status = %q, expected active", consultation.Status)
	}
	if consultation.ExpiredAt == nil {
		t.Fatalf("active consultation must have an expiry")
	}
	until := time.Until(*consultation.ExpiredAt)
	if until < 55*time.Minute || until > 65*time.Minute {
		t.Fatalf("expiry %v from now, expected about one hour", until)
	}

	var fresh models.User
	db.First(&fresh, doctor.ID)
	if fresh.Balance != 90000 {
		t.Fatalf("doctor balance = %d, expected 90000 credited exactly once", fresh.Balance)
	}

	var payment models.Payment
	db.First(&payment, result.PaymentID)
	if payment.Status != domain.PaymentSuccess {
		t.Fatalf("payment status = %q, expected success", payment.Status)
	}
}

func TestReconcileSettlementConcurrentDuplicates(t *testing.T) {
	db := newTestDB(t)
	svc := NewConsultationService(db, &fakeGateway{})
	patient := createPatient(t, db, "rina@test.local")
	doctor := createDoctor(t, db, "dr.sari@test.local", 100000)

	result, err := svc.Book(context.Background(), patient.ID, doctor.ID)
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	// Identical success notifications racing each other: both transactions
	// must commit, but only the one that flips pending to active credits.
	const workers = 2
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = svc.ReconcileSettlement(context.Background(), result.OrderID, domain.GatewaySettlement, "")
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("reconcile %d: %v", i, err)
		}
	}

	var consultation models.Consultation
	db.First(&consultation, result.ConsultationID)
	if consultation.Status != domain.ConsultationActive {
		t.Fatalf("consultation status = %q, expected active", consultation.Status)
	}
	var fresh models.User
	db.First(&fresh, doctor.ID)
	if fresh.Balance != 90000 {
		t.Fatalf("doctor balance = %d, concurrent duplicates must credit exactly once", fresh.Balance)
	}
}

func TestReconcileChallengeDoesNotActivate(t *testing.T) {
	db := newTestDB(t)
	svc := NewConsultationService(db, &fakeGateway{})
	patient := createPatient(t, db, "rina@test.local")
	doctor := createDoctor(t, db, "dr.sari@test.local", 100000)

	result, _ := svc.Book(context.Background(), patient.ID, doctor.ID)
	if err := svc.ReconcileSettlement(context.Background(), result.OrderID, domain.GatewayCapture, domain.FraudChallenge); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	var payment models.Payment
	db.First(&payment, result.PaymentID)
	if payment.Status != domain.PaymentChallenge {
		t.Fatalf("payment status = %q, expected challenge", payment.Status)
	}
	var consultation models.Consultation
	db.First(&consultation, result.ConsultationID)
	if consultation.Status != domain.ConsultationPending {
		t.Fatalf("consultation activated on a challenged payment")
	}
	var fresh models.User
	db.First(&fresh, doctor.ID)
	if fresh.Balance != 0 {
		t.Fatalf("doctor credited on a challenged payment")
	}
}

func TestReconcileFailureStatuses(t *testing.T) {
	for _, status := range []string{domain.GatewayCancel, domain.GatewayDeny, domain.GatewayExpire} {
		db := newTestDB(t)
		svc := NewConsultationService(db, &fakeGateway{})
		patient := createPatient(t, db, "rina@test.local")
		doctor := createDoctor(t, db, "dr.sari@test.local", 100000)

		result, _ := svc.Book(context.Background(), patient.ID, doctor.ID)
		if err := svc.ReconcileSettlement(context.Background(), result.OrderID, status, ""); err != nil {
			t.Fatalf("reconcile %s: %v", status, err)
		}
		var payment models.Payment
		db.First(&payment, result.PaymentID)
		if payment.Status != domain.PaymentFailed {
			t.Fatalf("status %s: payment = %q, expected failed", status, payment.Status)
		}
		var consultation models.Consultation
		db.First(&consultation, result.ConsultationID)
		if consultation.Status != domain.ConsultationPending {
			t.Fatalf("status %s: consultation left pending state", status)
		}
	}
}

func TestReconcileUnknownTransaction(t *testing.T) {
	db := newTestDB(t)
	svc := NewConsultationService(db, &fakeGateway{})

	err := svc.ReconcileSettlement(context.Background(), "ORDER-0-404", domain.GatewaySettlement, "")
	if !errors.Is(err, ErrUnknownTransaction) {
		t.Fatalf("expected ErrUnknownTransaction, got %v", err)
	}
}

func TestReconcileAfterCompletionRecordsPaymentOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewConsultationService(db, &fakeGateway{})
	patient := createPatient(t, db, "rina@test.local")
	doctor := createDoctor(t, db, "dr.sari@test.local", 100000)

	result, _ := svc.Book(context.Background(), patient.ID, doctor.ID)
	if err := svc.ReconcileSettlement(context.Background(), result.OrderID, domain.GatewaySettlement, ""); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	// Session ran its course before a late duplicate arrives.
	db.Model(&models.Consultation{}).Where("id = ?", result.ConsultationID).
		Update("status", domain.ConsultationCompleted)

	if err := svc.ReconcileSettlement(context.Background(), result.OrderID, domain.GatewaySettlement, ""); err != nil {
		t.Fatalf("late reconcile: %v", err)
	}
	var consultation models.Consultation
	db.First(&consultation, result.ConsultationID)
	if consultation.Status != domain.ConsultationCompleted {
		t.Fatalf("late notification reopened a completed consultation")
	}
	var fresh models.User
	db.First(&fresh, doctor.ID)
	if fresh.Balance != 90000 {
		t.Fatalf("doctor balance = %d, late notification moved money", fresh.Balance)
	}
}

func TestDirectStartResumesExisting(t *testing.T) {
	db := newTestDB(t)
	svc := NewConsultationService(db, &fakeGateway{})
	patient := createPatient(t, db, "rina@test.local")
	doctor := createDoctor(t, db, "dr.sari@test.local", 100000)

	first, err := svc.DirectStart(context.Background(), patient.ID, doctor.ID)
	if err != nil {
		t.Fatalf("direct start: %v", err)
	}
	second, err := svc.DirectStart(context.Background(), patient.ID, doctor.ID)
	if err != nil {
		t.Fatalf("direct start resume: %v", err)
	}
	if first != second {
		t.Fatalf("resume returned %d, expected %d", second, first)
	}
	var count int64
	db.Model(&models.Consultation{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly one consultation row, got %d", count)
	}

	var consultation models.Consultation
	db.First(&consultation, first)
	if consultation.Status != domain.ConsultationActive {
		t.Fatalf("direct-start consultation status = %q", consultation.Status)
	}
	if consultation.ExpiredAt == nil {
		t.Fatalf("direct-start consultation must have an expiry")
	}
}

func TestMarkPaidDrivesSettlement(t *testing.T) {
	db := newTestDB(t)
	svc := NewConsultationService(db, &fakeGateway{})
	patient := createPatient(t, db, "rina@test.local")
	doctor := createDoctor(t, db, "dr.sari@test.local", 80000)

	result, _ := svc.Book(context.Background(), patient.ID, doctor.ID)
	if err := svc.MarkPaid(context.Background(), result.PaymentID); err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if err := svc.MarkPaid(context.Background(), result.PaymentID); err != nil {
		t.Fatalf("mark paid again: %v", err)
	}

	var consultation models.Consultation
	db.First(&consultation, result.ConsultationID)
	if consultation.Status != domain.ConsultationActive {
		t.Fatalf("consultation status = %q, expected active", consultation.Status)
	}
	var fresh models.User
	db.First(&fresh, doctor.ID)
	if fresh.Balance != 72000 {
		t.Fatalf("doctor balance = %d, expected 72000", fresh.Balance)
	}

	if err := svc.MarkPaid(context.Background(), 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing payment, got %v", err)
	}
}

func TestRefreshStatusFeedsSettlement(t *testing.T) {
	db := newTestDB(t)
	gw := &fakeGateway{}
	svc := NewConsultationService(db, gw)
	patient := createPatient(t, db, "rina@test.local")
	doctor := createDoctor(t, db, "dr.sari@test.local", 100000)

	result, _ := svc.Book(context.Background(), patient.ID, doctor.ID)
	if err := svc.RefreshStatus(context.Background(), result.OrderID); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	var consultation models.Consultation
	db.First(&consultation, result.ConsultationID)
	if consultation.Status != domain.ConsultationActive {
		t.Fatalf("consultation status = %q after refresh, expected active", consultation.Status)
	}

	gw.fail = true
	if err := svc.RefreshStatus(context.Background(), result.OrderID); !errors.Is(err, ErrGatewayUnavailable) {
		t.Fatalf("expected ErrGatewayUnavailable, got %v", err)
	}
}
