package kafkahandlers

import (
	"context"
	"encoding/json"
	"log"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"social-go/internal/models"
	"social-go/internal/services"
	"social-go/internal/storage"
)

// NotificationConsumerLogic persists notification events published after
// relationship mutations. It is the handler wired into the cmd/notifier
// consumer loop.
type NotificationConsumerLogic struct {
	notifications storage.NotificationRepository
}

// NewNotificationConsumerLogic creates a new NotificationConsumerLogic.
func NewNotificationConsumerLogic(notifications storage.NotificationRepository) *NotificationConsumerLogic {
	if notifications == nil {
		log.Panic("NotificationRepository cannot be nil")
	}
	return &NotificationConsumerLogic{notifications: notifications}
}

// HandleNotificationEvent processes one event from the notifications topic.
// Malformed payloads are skipped (offset committed); store failures are
// returned so the message is redelivered.
func (h *NotificationConsumerLogic) HandleNotificationEvent(ctx context.Context, msg *kafka.Message) error {
	var event services.NotificationEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Printf("Error unmarshalling notification event (Value: %q): %v. Skipping message.", string(msg.Value), err)
		return nil
	}

	notification := &models.Notification{
		UserID:  event.UserID,
		ActorID: event.ActorID,
		Kind:    event.Kind,
	}
	if err := h.notifications.Create(ctx, notification); err != nil {
		log.Printf("Error persisting notification %s for user %d: %v", event.Kind, event.UserID, err)
		return err
	}
	return nil
}
