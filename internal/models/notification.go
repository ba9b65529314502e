package models

// NotificationKind classifies a notification row.
type NotificationKind string

const (
	NotificationRequestReceived NotificationKind = "friend.request.received"
	NotificationRequestAccepted NotificationKind = "friend.request.accepted"
)

// Notification is a persisted notification for a user, written by the Kafka
// consumer in cmd/notifier after a relationship mutation.
type Notification struct {
	BaseModel
	UserID  uint             `gorm:"not null;index:idx_notifications_user" json:"userId"`
	ActorID uint             `gorm:"not null" json:"actorId"`
	Kind    NotificationKind `gorm:"type:varchar(50);not null" json:"kind"`
	Read    bool             `gorm:"not null;default:false" json:"read"`
}

// TableName specifies the table name for the Notification model.
func (Notification) TableName() string {
	return "notifications"
}
