package models

import "gorm.io/gorm"

// FriendStatus is the lifecycle state of a Friend record.
type FriendStatus string

const (
	FriendStatusPending  FriendStatus = "pending"
	FriendStatusAccepted FriendStatus = "accepted"
	FriendStatusDeclined FriendStatus = "declined"
)

// Valid reports whether s is one of the known statuses. Anything else stored
// in the database is an invariant violation and must be surfaced, not coerced.
func (s FriendStatus) Valid() bool {
	switch s {
	case FriendStatusPending, FriendStatusAccepted, FriendStatusDeclined:
		return true
	}
	return false
}

// Friend is the single canonical record for a relationship between two users.
// A pending record is a directed request from FromUserID to ToUserID; an
// accepted record is an undirected friendship edge. A declined record is kept
// and reused: re-requesting reopens it with From/To reassigned to the new
// direction.
//
// UserLowID/UserHighID are the unordered pair in canonical order, maintained
// by the BeforeSave hook and covered by a unique index so the store itself
// rejects a second record for the same pair regardless of direction.
type Friend struct {
	BaseModel
	FromUserID uint         `gorm:"not null;index:idx_friends_from" json:"from"`
	ToUserID   uint         `gorm:"not null;index:idx_friends_to" json:"to"`
	Status     FriendStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	UserLowID  uint `gorm:"not null;uniqueIndex:idx_friends_pair" json:"-"`
	UserHighID uint `gorm:"not null;uniqueIndex:idx_friends_pair" json:"-"`
}

// TableName specifies the table name for the Friend model.
func (Friend) TableName() string {
	return "friends"
}

// BeforeSave keeps the canonical pair columns in sync with From/To.
func (f *Friend) BeforeSave(tx *gorm.DB) error {
	f.UserLowID, f.UserHighID = f.FromUserID, f.ToUserID
	if f.UserLowID > f.UserHighID {
		f.UserLowID, f.UserHighID = f.UserHighID, f.UserLowID
	}
	return nil
}

// Involves reports whether userID is on either side of the relationship.
func (f *Friend) Involves(userID uint) bool {
	return f.FromUserID == userID || f.ToUserID == userID
}

// OtherParty returns the counterpart of selfID in the relationship. Both list
// and mutate operations go through this helper instead of branching on
// direction themselves.
func (f *Friend) OtherParty(selfID uint) uint {
	if f.FromUserID == selfID {
		return f.ToUserID
	}
	return f.FromUserID
}
