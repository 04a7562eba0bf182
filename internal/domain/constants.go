package domain

import "time"

const (
	RolePatient = "PASIEN"
	RoleDoctor  = "DOKTER"
	RoleAdmin   = "ADMIN"
)

// ConsultationStatus is the closed set of consultation lifecycle states.
type ConsultationStatus string

const (
	ConsultationPending   ConsultationStatus = "pending"
	ConsultationActive    ConsultationStatus = "active"
	ConsultationCompleted ConsultationStatus = "completed"
)

// PaymentStatus is the closed set of local payment states.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSuccess   PaymentStatus = "success"
	PaymentFailed    PaymentStatus = "failed"
	PaymentChallenge PaymentStatus = "challenge"
)

const (
	WithdrawalPending  = "pending"
	WithdrawalApproved = "approved"
	WithdrawalRejected = "rejected"
)

// SessionDuration is how long a paid consultation stays open after activation.
const SessionDuration = time.Hour

// DirectStartDuration is the window granted by the payment-bypass start path.
const DirectStartDuration = 24 * time.Hour

// PlatformFeePercent is the platform's cut of every settled consultation payment.
const PlatformFeePercent = 10
