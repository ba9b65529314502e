package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"social-go/internal/config"
	"social-go/internal/kafka"
	"social-go/internal/models"
)

// NotificationEvent is the payload published to the notifications topic after
// a relationship mutation. cmd/notifier consumes these and persists
// Notification rows; the mutation itself never depends on the publish
// succeeding.
type NotificationEvent struct {
	EventID uuid.UUID               `json:"eventId"`
	Kind    models.NotificationKind `json:"kind"`
	UserID  uint                    `json:"userId"`  // recipient of the notification
	ActorID uint                    `json:"actorId"` // user whose action triggered it
	At      time.Time               `json:"at"`
}

// eventPublisher publishes notification events best-effort: failures are
// logged and swallowed so an unavailable broker never fails a mutation that
// already committed.
type eventPublisher struct {
	producer kafka.MessageProducer
	cfg      config.KafkaConfig
}

func newEventPublisher(producer kafka.MessageProducer, cfg config.KafkaConfig) *eventPublisher {
	return &eventPublisher{producer: producer, cfg: cfg}
}

// publish sends a notification event for userID about actorID's action.
// A nil producer disables publishing (tests, tooling).
func (p *eventPublisher) publish(ctx context.Context, kind models.NotificationKind, userID, actorID uint) {
	if p == nil || p.producer == nil {
		return
	}

	event := NotificationEvent{
		EventID: uuid.New(),
		Kind:    kind,
		UserID:  userID,
		ActorID: actorID,
		At:      time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshalling notification event %s: %v", kind, err)
		return
	}

	key := []byte(fmt.Sprintf("%d", userID))
	if err := p.producer.SendMessage(ctx, p.cfg.NotificationsTopic, key, payload); err != nil {
		log.Printf("Error publishing notification event %s for user %d: %v", kind, userID, err)
	}
}
