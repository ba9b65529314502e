package models

import "fmt"

// TargetKind identifies what a reaction points at. The set is closed: every
// kind maps to a concrete entity accessor at the service layer, and anything
// else is rejected as an invalid state rather than looked up dynamically.
type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
)

// ParseTargetKind validates a raw discriminator value.
func ParseTargetKind(s string) (TargetKind, error) {
	switch TargetKind(s) {
	case TargetPost:
		return TargetPost, nil
	case TargetComment:
		return TargetComment, nil
	}
	return "", fmt.Errorf("unknown reaction target kind %q", s)
}

// Emoji is the stance a reaction expresses.
type Emoji string

const (
	EmojiLike    Emoji = "like"
	EmojiDislike Emoji = "dislike"
)

// Valid reports whether e is a known emoji.
func (e Emoji) Valid() bool {
	return e == EmojiLike || e == EmojiDislike
}

// Reaction is one user's stance on one target. The unique index enforces at
// most one reaction per (author, kind, target); concurrent writers race on
// find-then-write but the operation is idempotent per author, so last writer
// wins is acceptable.
type Reaction struct {
	BaseModel
	AuthorID   uint       `gorm:"not null;uniqueIndex:idx_reactions_author_target" json:"author"`
	TargetKind TargetKind `gorm:"type:varchar(20);not null;uniqueIndex:idx_reactions_author_target" json:"targetType"`
	TargetID   uint       `gorm:"not null;uniqueIndex:idx_reactions_author_target;index:idx_reactions_target" json:"targetId"`
	Emoji      Emoji      `gorm:"type:varchar(20);not null" json:"emoji"`
}

// TableName specifies the table name for the Reaction model.
func (Reaction) TableName() string {
	return "reactions"
}
