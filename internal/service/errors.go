package service

import "errors"

var (
	// ErrValidation covers bad or missing input (e.g. empty doctor id or message body).
	ErrValidation = errors.New("invalid input")

	// ErrNotFound means the consultation, payment, or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDoctorNotFound means the booking target is missing or not a doctor.
	ErrDoctorNotFound = errors.New("doctor not found")

	// ErrForbidden means the caller is not a participant of the consultation.
	ErrForbidden = errors.New("forbidden")

	// ErrSessionNotActive covers both not-yet-paid and already-closed sessions.
	ErrSessionNotActive = errors.New("session not active")

	// ErrSessionExpired means the session window has passed; the consultation
	// is closed as a side effect of the call that observed it.
	ErrSessionExpired = errors.New("session expired")

	// ErrGatewayUnavailable means the payment gateway could not produce a
	// payment link; the booking that triggered it was rolled back.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrUnknownTransaction means a settlement notification referenced an
	// order id this system never issued.
	ErrUnknownTransaction = errors.New("unknown transaction")
)
