package domain

import "testing"

func TestMapGatewayStatus(t *testing.T) {
	cases := []struct {
		transactionStatus string
		fraudStatus       string
		expected          PaymentStatus
	}{
		{GatewayCapture, FraudAccept, PaymentSuccess},
		{GatewayCapture, "", PaymentSuccess},
		{GatewayCapture, FraudChallenge, PaymentChallenge},
		{GatewaySettlement, "", PaymentSuccess},
		{GatewaySettlement, FraudChallenge, PaymentSuccess},
		{GatewayCancel, "", PaymentFailed},
		{GatewayDeny, "", PaymentFailed},
		{GatewayExpire, "", PaymentFailed},
		{GatewayPending, "", PaymentPending},
		{"refund", "", PaymentPending},
		{"", "", PaymentPending},
	}
	for _, c := range cases {
		got := MapGatewayStatus(c.transactionStatus, c.fraudStatus)
		if got != c.expected {
			t.Fatalf("MapGatewayStatus(%q, %q) = %q, expected %q",
				c.transactionStatus, c.fraudStatus, got, c.expected)
		}
	}
}

func TestSplitAmount(t *testing.T) {
	cases := []struct {
		amount      int64
		expectedFee int64
	}{
		{0, 0},
		{1, 0},
		{9, 0},
		{10, 1},
		{99, 9},
		{100, 10},
		{100000, 10000},
		{123456, 12345},
	}
	for _, c := range cases {
		fee, share := SplitAmount(c.amount)
		if fee != c.expectedFee {
			t.Fatalf("SplitAmount(%d) fee = %d, expected %d", c.amount, fee, c.expectedFee)
		}
		if fee+share != c.amount {
			t.Fatalf("SplitAmount(%d): fee %d + share %d != amount", c.amount, fee, share)
		}
	}
}
