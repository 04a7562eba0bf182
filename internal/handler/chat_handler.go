package handler

import (
	"net/http"
	"strconv"

	"github.com/DAVIPRADIPTA/website-anemware/internal/middleware"
	"github.com/DAVIPRADIPTA/website-anemware/internal/service"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatSvc *service.ChatService
}

func NewChatHandler(chatSvc *service.ChatService) *ChatHandler {
	return &ChatHandler{chatSvc: chatSvc}
}

type sendMessageRequest struct {
	ConsultationID uint   `json:"consultation_id" binding:"required"`
	Message        string `json:"message" binding:"required"`
}

// Send handles POST /consultation/send.
func (h *ChatHandler) Send(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "consultation_id and message required"})
		return
	}
	senderID := middleware.GetUserID(c)
	msg, err := h.chatSvc.PostMessage(c.Request.Context(), req.ConsultationID, senderID, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": msg.ID, "created_at": msg.CreatedAt})
}

// History handles GET /consultation/:id/messages.
func (h *ChatHandler) History(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid consultation id"})
		return
	}
	requesterID := middleware.GetUserID(c)
	history, err := h.chatSvc.ListHistory(c.Request.Context(), uint(id), requesterID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}
