package ws

import (
	"time"

	"fileshare/internal/service"
)

// ProgressPublisher adapts the hub to the upload manager's notifier.
type ProgressPublisher struct {
	hub *Hub
}

func NewProgressPublisher(hub *Hub) *ProgressPublisher {
	return &ProgressPublisher{hub: hub}
}

func (p *ProgressPublisher) NotifyProgress(userID uint, status service.UploadStatus) {
	p.hub.Publish(userID, Event{
		Type:      EventTypeUploadProgress,
		Payload:   status,
		Timestamp: time.Now(),
	})
}
