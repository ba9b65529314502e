package models

// Comment is a comment on a post. Reactions is a derived aggregate owned by
// the counter synchronizer.
type Comment struct {
	BaseModel
	Content  string `gorm:"type:text;not null" json:"content"`
	AuthorID uint   `gorm:"not null;index:idx_comments_author" json:"author"`
	PostID   uint   `gorm:"not null;index:idx_comments_post" json:"post"`

	IsDeleted bool           `gorm:"not null;default:false" json:"isDeleted"`
	Reactions ReactionCounts `gorm:"embedded;embeddedPrefix:reactions_" json:"reactions"`
}

// TableName specifies the table name for the Comment model.
func (Comment) TableName() string {
	return "comments"
}
