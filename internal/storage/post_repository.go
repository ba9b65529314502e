package storage

import (
	"context"

	"gorm.io/gorm"

	"social-go/internal/models"
)

// PostRepository defines the interface for post data operations. Only the
// pieces the relationship/reaction core needs are exposed; field-level post
// CRUD belongs to the excluded HTTP layer.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	// GetByID retrieves a post that has not been soft-deleted.
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	SoftDelete(ctx context.Context, id uint) error
	// CountActiveByAuthor counts non-deleted posts by authorID; authoritative
	// source for the postCount aggregate.
	CountActiveByAuthor(ctx context.Context, authorID uint) (int64, error)
	UpdateCommentCount(ctx context.Context, id uint, count int64) error
	UpdateReactionCounts(ctx context.Context, id uint, counts models.ReactionCounts) error
	// AllActiveIDs returns every non-deleted post ID; used by the counter
	// resync job.
	AllActiveIDs(ctx context.Context) ([]uint, error)
}

// gormPostRepository implements PostRepository using GORM.
type gormPostRepository struct {
	db *gorm.DB
}

// NewGormPostRepository creates a new GORM-based PostRepository.
func NewGormPostRepository(db *gorm.DB) PostRepository {
	return &gormPostRepository{db: db}
}

// Create creates a new post record.
func (r *gormPostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// GetByID retrieves a non-deleted post by ID.
func (r *gormPostRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// SoftDelete marks a post as deleted without removing the row.
func (r *gormPostRepository) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Update("is_deleted", true).Error
}

// CountActiveByAuthor counts non-deleted posts authored by authorID.
func (r *gormPostRepository) CountActiveByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("author_id = ? AND is_deleted = ?", authorID, false).
		Count(&count).Error
	return count, err
}

// AllActiveIDs returns every non-deleted post ID.
func (r *gormPostRepository) AllActiveIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("is_deleted = ?", false).
		Pluck("id", &ids).Error
	return ids, err
}

// UpdateCommentCount writes the denormalized comment count aggregate.
func (r *gormPostRepository) UpdateCommentCount(ctx context.Context, id uint, count int64) error {
	return r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Update("comment_count", count).Error
}

// UpdateReactionCounts writes the denormalized like/dislike tallies.
func (r *gormPostRepository) UpdateReactionCounts(ctx context.Context, id uint, counts models.ReactionCounts) error {
	return r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"reactions_like":    counts.Like,
			"reactions_dislike": counts.Dislike,
		}).Error
}
