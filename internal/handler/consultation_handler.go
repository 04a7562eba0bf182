package handler

import (
	"net/http"

	"github.com/DAVIPRADIPTA/website-anemware/internal/middleware"
	"github.com/DAVIPRADIPTA/website-anemware/internal/repository"
	"github.com/DAVIPRADIPTA/website-anemware/internal/service"

	"github.com/gin-gonic/gin"
)

type ConsultationHandler struct {
	consultationSvc *service.ConsultationService
	chatSvc         *service.ChatService
	userRepo        *repository.UserRepository
}

func NewConsultationHandler(consultationSvc *service.ConsultationService, chatSvc *service.ChatService, userRepo *repository.UserRepository) *ConsultationHandler {
	return &ConsultationHandler{consultationSvc: consultationSvc, chatSvc: chatSvc, userRepo: userRepo}
}

type bookRequest struct {
	DoctorID uint `json:"doctor_id" binding:"required"`
}

// Book handles POST /consultation/book: creates the pending consultation and
// payment and returns the hosted payment page link.
func (h *ConsultationHandler) Book(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "doctor_id required"})
		return
	}
	patientID := middleware.GetUserID(c)
	result, err := h.consultationSvc.Book(c.Request.Context(), patientID, req.DoctorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"consultation_id": result.ConsultationID,
		"payment_id":      result.PaymentID,
		"amount":          result.Amount,
		"status":          "waiting for payment",
		"payment_url":     result.PaymentURL,
		"payment_token":   result.PaymentToken,
	})
}

type startRequest struct {
	DoctorID uint `json:"doctor_id" binding:"required"`
}

// Start handles POST /consultation/start: the payment-bypass path. Repeated
// calls for the same pair resume the existing consultation.
func (h *ConsultationHandler) Start(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "doctor_id required"})
		return
	}
	patientID := middleware.GetUserID(c)
	id, err := h.consultationSvc.DirectStart(c.Request.Context(), patientID, req.DoctorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"consultation_id": id})
}

// Mine handles GET /consultation/mine: the chat inbox.
func (h *ConsultationHandler) Mine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	list, err := h.chatSvc.ListMine(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"consultations": list})
}

// Doctors handles GET /consultation/doctors?q=&spec=: verified doctors only.
func (h *ConsultationHandler) Doctors(c *gin.Context) {
	doctors, err := h.userRepo.ListDoctors(c.Query("q"), c.Query("spec"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	out := make([]gin.H, 0, len(doctors))
	for _, d := range doctors {
		spec := d.Specialization
		if spec == "" {
			spec = "Dokter Umum"
		}
		out = append(out, gin.H{
			"id":             d.ID,
			"full_name":      d.FullName,
			"specialization": spec,
			"price":          d.ConsultationPrice,
			"is_online":      d.IsOnline,
			"image":          d.ProfileImage,
			"bio":            d.Bio,
		})
	}
	c.JSON(http.StatusOK, gin.H{"doctors": out})
}
