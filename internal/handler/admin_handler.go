package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/DAVIPRADIPTA/website-anemware/internal/domain"
	"github.com/DAVIPRADIPTA/website-anemware/internal/repository"
	"github.com/DAVIPRADIPTA/website-anemware/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	consultationRepo *repository.ConsultationRepository
	consultationSvc  *service.ConsultationService
	userRepo         *repository.UserRepository
	withdrawalRepo   *repository.WithdrawalRepository
}

func NewAdminHandler(
	consultationRepo *repository.ConsultationRepository,
	consultationSvc *service.ConsultationService,
	userRepo *repository.UserRepository,
	withdrawalRepo *repository.WithdrawalRepository,
) *AdminHandler {
	return &AdminHandler{
		consultationRepo: consultationRepo,
		consultationSvc:  consultationSvc,
		userRepo:         userRepo,
		withdrawalRepo:   withdrawalRepo,
	}
}

// ListConsultations handles GET /admin/consultations. Storage keeps expired
// sessions nominally active until someone touches them; the listing recomputes
// an effective status so the dashboard shows the truth.
func (h *AdminHandler) ListConsultations(c *gin.Context) {
	filter := repository.ConsultationFilter{
		Status:        domain.ConsultationStatus(c.Query("status")),
		PaymentStatus: domain.PaymentStatus(c.Query("pay_status")),
	}
	if from, err := time.Parse("2006-01-02", c.Query("from")); err == nil {
		filter.From = &from
	}
	if to, err := time.Parse("2006-01-02", c.Query("to")); err == nil {
		end := to.AddDate(0, 0, 1)
		filter.To = &end
	}
	rows, err := h.consultationRepo.ListAll(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	now := time.Now()
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		cons := row.Consultation
		effective := cons.Status
		if cons.Status == domain.ConsultationActive && cons.Expired(now) {
			effective = domain.ConsultationCompleted
		}
		entry := gin.H{
			"id":               cons.ID,
			"patient_id":       cons.PatientID,
			"doctor_id":        cons.DoctorID,
			"status":           cons.Status,
			"effective_status": effective,
			"expired_at":       cons.ExpiredAt,
			"created_at":       cons.CreatedAt,
		}
		if row.LatestPayment != nil {
			entry["payment"] = gin.H{
				"id":             row.LatestPayment.ID,
				"amount":         row.LatestPayment.Amount,
				"status":         row.LatestPayment.Status,
				"transaction_id": row.LatestPayment.TransactionID,
			}
		}
		out = append(out, entry)
	}
	c.JSON(http.StatusOK, gin.H{"consultations": out})
}

// MarkPaid handles POST /admin/payments/:id/mark-paid: drives the idempotent
// settlement path without a gateway notification.
func (h *AdminHandler) MarkPaid(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
		return
	}
	if err := h.consultationSvc.MarkPaid(c.Request.Context(), uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked": true})
}

// RefreshPayment handles POST /admin/payments/:id/refresh: polls the gateway
// for the order's status and reconciles it, for missed webhooks.
func (h *AdminHandler) RefreshPayment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
		return
	}
	p, err := h.consultationRepo.GetPaymentByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
		return
	}
	if err := h.consultationSvc.RefreshStatus(c.Request.Context(), p.TransactionID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"refreshed": true})
}

// VerifyDoctor handles PATCH /admin/doctors/:id/verify.
func (h *AdminHandler) VerifyDoctor(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid doctor id"})
		return
	}
	var req struct {
		Verified bool `json:"verified"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "verified required"})
		return
	}
	if err := h.userRepo.SetVerified(uint(id), req.Verified); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"verified": req.Verified})
}

// ListWithdrawals handles GET /admin/withdrawals.
func (h *AdminHandler) ListWithdrawals(c *gin.Context) {
	list, err := h.withdrawalRepo.ListPending()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": list})
}

// ResolveWithdrawal handles POST /admin/withdrawals/:id/resolve.
func (h *AdminHandler) ResolveWithdrawal(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid withdrawal id"})
		return
	}
	var req struct {
		Approve bool `json:"approve"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "approve required"})
		return
	}
	if req.Approve {
		err = h.withdrawalRepo.Approve(uint(id))
	} else {
		err = h.withdrawalRepo.Reject(uint(id))
	}
	switch err {
	case nil:
		c.JSON(http.StatusOK, gin.H{"resolved": true})
	case repository.ErrNotPending:
		c.JSON(http.StatusConflict, gin.H{"error": "withdrawal already resolved"})
	case repository.ErrInsufficientBalance:
		c.JSON(http.StatusConflict, gin.H{"error": "insufficient balance"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "resolve failed"})
	}
}
