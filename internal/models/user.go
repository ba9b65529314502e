package models

// User represents an identity in the social graph.
// FriendCount and PostCount are denormalized aggregates owned by the counter
// synchronizer in internal/services; they are derived caches, never the
// source of truth.
type User struct {
	BaseModel
	Name      string `gorm:"type:varchar(100);not null;index" json:"name"`
	Email     string `gorm:"type:varchar(100);uniqueIndex" json:"email,omitempty"`
	AvatarURL string `gorm:"type:varchar(255)" json:"avatarUrl,omitempty"`
	Bio       string `gorm:"type:text" json:"bio,omitempty"`

	FriendCount int64 `gorm:"not null;default:0" json:"friendCount"`
	PostCount   int64 `gorm:"not null;default:0" json:"postCount"`
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// UserWithFriendship is a DTO for relationship list responses: a user plus
// the relationship row that connects them to the requesting user.
type UserWithFriendship struct {
	User
	Friendship *Friend `json:"friendship"`
}
