package service

import "fmt"

// Notifier fans a room-scoped event out to connected clients. Delivery is
// best-effort: chat persistence never depends on a publish succeeding.
type Notifier interface {
	Publish(room, event string, payload interface{}) error
}

// RoomName is the notification room for a consultation.
func RoomName(consultationID uint) string {
	return fmt.Sprintf("consultation_%d", consultationID)
}
