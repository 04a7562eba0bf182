package midtrans

import (
	"context"
	"fmt"
)

// StubClient is a no-op gateway for development when no server key is set.
// Every order gets a fake payment page; statuses always report pending.
type StubClient struct{}

func (s *StubClient) CreateTransaction(ctx context.Context, orderID string, amount int64, customer CustomerDetails) (*SnapResponse, error) {
	return &SnapResponse{
		Token:       "stub-" + orderID,
		RedirectURL: fmt.Sprintf("https://example.invalid/pay/%s", orderID),
	}, nil
}

func (s *StubClient) GetStatus(ctx context.Context, orderID string) (*TransactionStatus, error) {
	return &TransactionStatus{
		OrderID:           orderID,
		TransactionStatus: "pending",
	}, nil
}
