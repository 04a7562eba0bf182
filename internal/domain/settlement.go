package domain

// Gateway-reported transaction statuses (Midtrans vocabulary).
const (
	GatewayCapture    = "capture"
	GatewaySettlement = "settlement"
	GatewayPending    = "pending"
	GatewayCancel     = "cancel"
	GatewayDeny       = "deny"
	GatewayExpire     = "expire"
)

// Fraud statuses attached to "capture" notifications.
const (
	FraudAccept    = "accept"
	FraudChallenge = "challenge"
)

// MapGatewayStatus translates a gateway notification into a local payment status.
//
//	capture + accept/absent  -> success
//	capture + challenge      -> challenge (held, not activated)
//	settlement               -> success
//	cancel | deny | expire   -> failed
//	pending                  -> pending
//
// Anything unrecognized maps to pending; a payment is never marked success on
// a status we do not know.
func MapGatewayStatus(transactionStatus, fraudStatus string) PaymentStatus {
	switch transactionStatus {
	case GatewayCapture:
		if fraudStatus == FraudChallenge {
			return PaymentChallenge
		}
		return PaymentSuccess
	case GatewaySettlement:
		return PaymentSuccess
	case GatewayCancel, GatewayDeny, GatewayExpire:
		return PaymentFailed
	case GatewayPending:
		return PaymentPending
	default:
		return PaymentPending
	}
}

// SplitAmount divides a payment amount into the platform fee and the doctor's
// share. The fee truncates, so fee + share always equals amount.
func SplitAmount(amount int64) (fee, doctorShare int64) {
	fee = amount * PlatformFeePercent / 100
	return fee, amount - fee
}
