package handler

import (
	"net/http"

	"github.com/DAVIPRADIPTA/website-anemware/internal/domain"
	"github.com/DAVIPRADIPTA/website-anemware/internal/middleware"
	"github.com/DAVIPRADIPTA/website-anemware/internal/models"
	"github.com/DAVIPRADIPTA/website-anemware/internal/repository"

	"github.com/gin-gonic/gin"
)

type WithdrawalHandler struct {
	userRepo       *repository.UserRepository
	withdrawalRepo *repository.WithdrawalRepository
}

func NewWithdrawalHandler(userRepo *repository.UserRepository, withdrawalRepo *repository.WithdrawalRepository) *WithdrawalHandler {
	return &WithdrawalHandler{userRepo: userRepo, withdrawalRepo: withdrawalRepo}
}

// Balance handles GET /me/balance for doctors.
func (h *WithdrawalHandler) Balance(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": u.Balance})
}

type withdrawalRequest struct {
	Amount        int64  `json:"amount" binding:"required,gt=0"`
	BankName      string `json:"bank_name" binding:"required"`
	AccountNumber string `json:"account_number" binding:"required"`
}

// Request handles POST /me/withdrawals: files a pending withdrawal. The
// balance is only debited when an admin approves it.
func (h *WithdrawalHandler) Request(c *gin.Context) {
	var req withdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := middleware.GetUserID(c)
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if u.Balance < req.Amount {
		c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient balance"})
		return
	}
	w := &models.Withdrawal{
		DoctorID:      userID,
		Amount:        req.Amount,
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		Status:        domain.WithdrawalPending,
	}
	if err := h.withdrawalRepo.Create(w); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": w.ID, "status": w.Status})
}

// List handles GET /me/withdrawals.
func (h *WithdrawalHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	list, err := h.withdrawalRepo.ListByDoctor(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": list})
}
