package handler

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/DAVIPRADIPTA/website-anemware/config"
	"github.com/DAVIPRADIPTA/website-anemware/internal/service"

	"github.com/gin-gonic/gin"
)

// midtransNotification is the settlement callback body. Midtrans sends more
// fields; only these drive reconciliation and signature verification.
type midtransNotification struct {
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	PaymentType       string `json:"payment_type"`
}

type PaymentWebhookHandler struct {
	consultationSvc *service.ConsultationService
	cfg             *config.Config
}

func NewPaymentWebhookHandler(consultationSvc *service.ConsultationService, cfg *config.Config) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{consultationSvc: consultationSvc, cfg: cfg}
}

// Handle processes the gateway's asynchronous settlement notification.
// Permanent mismatches (bad body, unknown order) get a deterministic non-2xx
// so the gateway stops retrying; transient failures get a 500 so it retries.
func (h *PaymentWebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	var payload midtransNotification
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Printf("[MIDTRANS callback] json unmarshal error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if payload.OrderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order_id required"})
		return
	}
	// When a server key is configured every notification must carry a valid
	// signature; an absent signature_key fails the compare like a wrong one.
	if h.cfg.Midtrans.ServerKey != "" && !h.verifySignature(&payload) {
		log.Printf("[MIDTRANS callback] bad signature for order_id=%s", payload.OrderID)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}
	log.Printf("[MIDTRANS callback] order_id=%s transaction_status=%s fraud_status=%s",
		payload.OrderID, payload.TransactionStatus, payload.FraudStatus)

	err = h.consultationSvc.ReconcileSettlement(c.Request.Context(), payload.OrderID, payload.TransactionStatus, payload.FraudStatus)
	if errors.Is(err, service.ErrUnknownTransaction) {
		c.JSON(http.StatusNotFound, gin.H{"error": "order_id not found"})
		return
	}
	if err != nil {
		// Transaction rolled back; a gateway retry can succeed later.
		c.JSON(http.StatusInternalServerError, gin.H{"error": "settlement failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

// verifySignature checks the Midtrans signature:
// sha512(order_id + status_code + gross_amount + server_key).
func (h *PaymentWebhookHandler) verifySignature(p *midtransNotification) bool {
	sum := sha512.Sum512([]byte(p.OrderID + p.StatusCode + p.GrossAmount + h.cfg.Midtrans.ServerKey))
	expected := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(expected), []byte(p.SignatureKey)) == 1
}
