package midtrans

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/DAVIPRADIPTA/website-anemware/config"
)

// CustomerDetails pre-fills the hosted payment page.
type CustomerDetails struct {
	FirstName string `json:"first_name,omitempty"`
	Email     string `json:"email,omitempty"`
}

// SnapResponse is the hosted-payment-page handle returned by Snap.
type SnapResponse struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// TransactionStatus is the gateway's view of one order, fetched on demand.
type TransactionStatus struct {
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	PaymentType       string `json:"payment_type"`
	StatusCode        string `json:"status_code"`
}

// Client is the payment-gateway contract consumed by the booking and
// settlement flows.
type Client interface {
	CreateTransaction(ctx context.Context, orderID string, amount int64, customer CustomerDetails) (*SnapResponse, error)
	GetStatus(ctx context.Context, orderID string) (*TransactionStatus, error)
}

const (
	sandboxSnapURL    = "https://app.sandbox.midtrans.com"
	sandboxAPIURL     = "https://api.sandbox.midtrans.com"
	productionSnapURL = "https://app.midtrans.com"
	productionAPIURL  = "https://api.midtrans.com"
)

// SnapClient talks to the Midtrans Snap and Core APIs.
type SnapClient struct {
	snapURL   string
	apiURL    string
	serverKey string
	client    *http.Client
}

func NewSnapClient(cfg *config.MidtransConfig) *SnapClient {
	snapURL, apiURL := sandboxSnapURL, sandboxAPIURL
	if cfg.IsProduction {
		snapURL, apiURL = productionSnapURL, productionAPIURL
	}
	if cfg.BaseURL != "" {
		snapURL = cfg.BaseURL
	}
	return &SnapClient{
		snapURL:   snapURL,
		apiURL:    apiURL,
		serverKey: cfg.ServerKey,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

type snapRequest struct {
	TransactionDetails struct {
		OrderID     string `json:"order_id"`
		GrossAmount int64  `json:"gross_amount"`
	} `json:"transaction_details"`
	CreditCard struct {
		Secure bool `json:"secure"`
	} `json:"credit_card"`
	CustomerDetails CustomerDetails `json:"customer_details"`
}

// CreateTransaction requests a hosted payment page for the given order.
func (c *SnapClient) CreateTransaction(ctx context.Context, orderID string, amount int64, customer CustomerDetails) (*SnapResponse, error) {
	var payload snapRequest
	payload.TransactionDetails.OrderID = orderID
	payload.TransactionDetails.GrossAmount = amount
	payload.CreditCard.Secure = true
	payload.CustomerDetails = customer

	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.snapURL+"/snap/v1/transactions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("midtrans snap: %d %s", resp.StatusCode, string(respBody))
	}
	var out SnapResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, err
	}
	if out.Token == "" || out.RedirectURL == "" {
		return nil, fmt.Errorf("midtrans snap: empty token in response")
	}
	return &out, nil
}

// GetStatus fetches the current transaction status for an order (used by the
// administrative refresh path, not the webhook path).
func (c *SnapClient) GetStatus(ctx context.Context, orderID string) (*TransactionStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/v2/"+orderID+"/status", nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("midtrans status: %d %s", resp.StatusCode, string(respBody))
	}
	var out TransactionStatus
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *SnapClient) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	// Midtrans uses the server key as a basic-auth username with empty password.
	cred := base64.StdEncoding.EncodeToString([]byte(c.serverKey + ":"))
	req.Header.Set("Authorization", "Basic "+cred)
}
