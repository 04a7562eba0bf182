package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/DAVIPRADIPTA/website-anemware/internal/domain"
	"github.com/DAVIPRADIPTA/website-anemware/internal/models"

	"gorm.io/gorm"
)

// ChatService gates and persists chat messages, enforces the session window,
// and fans out new-message notifications.
type ChatService struct {
	db       *gorm.DB
	notifier Notifier
}

func NewChatService(db *gorm.DB, notifier Notifier) *ChatService {
	return &ChatService{db: db, notifier: notifier}
}

// PostMessage validates the sender's right to post and appends the message.
// Checks run in a fixed order so every failure has one distinct reason:
// existence, membership, active status, expiry. A send that observes the
// window already closed completes the consultation on the spot (lazy expiry).
func (s *ChatService) PostMessage(ctx context.Context, consultationID, senderID uint, body string) (*models.ChatMessage, error) {
	if consultationID == 0 || body == "" {
		return nil, ErrValidation
	}
	var consultation models.Consultation
	if err := s.db.WithContext(ctx).First(&consultation, consultationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !consultation.IsParticipant(senderID) {
		return nil, ErrForbidden
	}
	if consultation.Status != domain.ConsultationActive {
		return nil, ErrSessionNotActive
	}
	if consultation.Expired(time.Now()) {
		// No background sweeper exists; expiry is enforced here, when the
		// session is next touched.
		err := s.db.WithContext(ctx).Model(&models.Consultation{}).
			Where("id = ? AND status = ?", consultationID, domain.ConsultationActive).
			Update("status", domain.ConsultationCompleted).Error
		if err != nil {
			return nil, err
		}
		return nil, ErrSessionExpired
	}

	msg := &models.ChatMessage{
		ConsultationID: consultationID,
		SenderID:       senderID,
		Message:        body,
	}
	if err := s.db.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, err
	}

	// Message durability beats real-time delivery: a failed publish is logged,
	// never rolled back.
	payload := map[string]interface{}{
		"id":        msg.ID,
		"sender_id": msg.SenderID,
		"message":   msg.Message,
		"timestamp": msg.CreatedAt.Format(time.RFC3339),
		"is_me":     false,
	}
	if err := s.notifier.Publish(RoomName(consultationID), "new_message", payload); err != nil {
		log.Printf("[CHAT] publish to %s failed: %v", RoomName(consultationID), err)
	}
	return msg, nil
}

// ChatOpponent is the other party shown in the chat header.
type ChatOpponent struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Role           string `json:"role"`
	Image          string `json:"image,omitempty"`
	Specialization string `json:"specialization,omitempty"`
}

type ChatHistoryMessage struct {
	ID        uint      `json:"id"`
	SenderID  uint      `json:"sender_id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	IsMe      bool      `json:"is_me"`
}

type ChatHistory struct {
	ConsultationID uint                      `json:"consultation_id"`
	Status         domain.ConsultationStatus `json:"status"`
	ExpiredAt      *time.Time                `json:"expired_at"`
	Opponent       ChatOpponent              `json:"opponent"`
	Messages       []ChatHistoryMessage      `json:"messages"`
}

// ListHistory returns the header and full transcript for a participant.
// History stays readable after completion; only existence and membership gate it.
func (s *ChatService) ListHistory(ctx context.Context, consultationID, requesterID uint) (*ChatHistory, error) {
	var consultation models.Consultation
	if err := s.db.WithContext(ctx).First(&consultation, consultationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !consultation.IsParticipant(requesterID) {
		return nil, ErrForbidden
	}

	opponentID := consultation.DoctorID
	if requesterID == consultation.DoctorID {
		opponentID = consultation.PatientID
	}
	var opponent models.User
	if err := s.db.WithContext(ctx).First(&opponent, opponentID).Error; err != nil {
		return nil, err
	}

	var messages []models.ChatMessage
	err := s.db.WithContext(ctx).
		Where("consultation_id = ?", consultationID).
		Order("created_at ASC, id ASC").Find(&messages).Error
	if err != nil {
		return nil, err
	}

	history := &ChatHistory{
		ConsultationID: consultation.ID,
		Status:         consultation.Status,
		ExpiredAt:      consultation.ExpiredAt,
		Opponent: ChatOpponent{
			ID:             opponent.ID,
			Name:           opponent.FullName,
			Role:           opponent.Role,
			Image:          opponent.ProfileImage,
			Specialization: opponent.Specialization,
		},
		Messages: make([]ChatHistoryMessage, 0, len(messages)),
	}
	for _, m := range messages {
		history.Messages = append(history.Messages, ChatHistoryMessage{
			ID:        m.ID,
			SenderID:  m.SenderID,
			Message:   m.Message,
			Timestamp: m.CreatedAt,
			IsMe:      m.SenderID == requesterID,
		})
	}
	return history, nil
}

// ConsultationSummary is one inbox entry.
type ConsultationSummary struct {
	ID        uint                      `json:"id"`
	Status    domain.ConsultationStatus `json:"status"`
	UpdatedAt time.Time                 `json:"updated_at"`
	Opponent  ChatOpponent              `json:"opponent"`
}

// ListMine returns the user's consultations, most recently updated first.
func (s *ChatService) ListMine(ctx context.Context, userID uint) ([]ConsultationSummary, error) {
	var consultations []models.Consultation
	err := s.db.WithContext(ctx).
		Where("patient_id = ? OR doctor_id = ?", userID, userID).
		Order("updated_at DESC").Find(&consultations).Error
	if err != nil {
		return nil, err
	}
	out := make([]ConsultationSummary, 0, len(consultations))
	for _, c := range consultations {
		opponentID := c.DoctorID
		if userID == c.DoctorID {
			opponentID = c.PatientID
		}
		var opponent models.User
		if err := s.db.WithContext(ctx).First(&opponent, opponentID).Error; err != nil {
			return nil, err
		}
		out = append(out, ConsultationSummary{
			ID:        c.ID,
			Status:    c.Status,
			UpdatedAt: c.UpdatedAt,
			Opponent: ChatOpponent{
				ID:             opponent.ID,
				Name:           opponent.FullName,
				Role:           opponent.Role,
				Image:          opponent.ProfileImage,
				Specialization: opponent.Specialization,
			},
		})
	}
	return out, nil
}

// AuthorizeMember checks existence and membership only; used by the websocket
// join path which must admit participants regardless of session state.
func (s *ChatService) AuthorizeMember(ctx context.Context, consultationID, userID uint) (*models.Consultation, error) {
	var consultation models.Consultation
	if err := s.db.WithContext(ctx).First(&consultation, consultationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !consultation.IsParticipant(userID) {
		return nil, ErrForbidden
	}
	return &consultation, nil
}
