package models

// ReactionCounts is the denormalized like/dislike tally carried by a
// reaction target. Recomputed from reaction rows after every mutation.
type ReactionCounts struct {
	Like    int64 `gorm:"not null;default:0" json:"like"`
	Dislike int64 `gorm:"not null;default:0" json:"dislike"`
}

// Post is a user's post. CommentCount and Reactions are derived aggregates
// owned by the counter synchronizer.
type Post struct {
	BaseModel
	Content  string `gorm:"type:text;not null" json:"content"`
	Image    string `gorm:"type:varchar(255)" json:"image,omitempty"`
	AuthorID uint   `gorm:"not null;index:idx_posts_author" json:"author"`

	IsDeleted    bool           `gorm:"not null;default:false" json:"isDeleted"`
	CommentCount int64          `gorm:"not null;default:0" json:"commentCount"`
	Reactions    ReactionCounts `gorm:"embedded;embeddedPrefix:reactions_" json:"reactions"`
}

// TableName specifies the table name for the Post model.
func (Post) TableName() string {
	return "posts"
}
