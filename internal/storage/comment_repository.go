package storage

import (
	"context"

	"gorm.io/gorm"

	"social-go/internal/models"
)

// CommentRepository defines the interface for comment data operations.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	// GetByID retrieves a comment that has not been soft-deleted.
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	SoftDelete(ctx context.Context, id uint) error
	// CountActiveByPost counts non-deleted comments on postID; authoritative
	// source for the commentCount aggregate.
	CountActiveByPost(ctx context.Context, postID uint) (int64, error)
	UpdateReactionCounts(ctx context.Context, id uint, counts models.ReactionCounts) error
	// AllActiveIDs returns every non-deleted comment ID; used by the counter
	// resync job.
	AllActiveIDs(ctx context.Context) ([]uint, error)
}

// gormCommentRepository implements CommentRepository using GORM.
type gormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository creates a new GORM-based CommentRepository.
func NewGormCommentRepository(db *gorm.DB) CommentRepository {
	return &gormCommentRepository{db: db}
}

// Create creates a new comment record.
func (r *gormCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// GetByID retrieves a non-deleted comment by ID.
func (r *gormCommentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// SoftDelete marks a comment as deleted without removing the row.
func (r *gormCommentRepository) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).Update("is_deleted", true).Error
}

// CountActiveByPost counts non-deleted comments referencing postID.
func (r *gormCommentRepository) CountActiveByPost(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("post_id = ? AND is_deleted = ?", postID, false).
		Count(&count).Error
	return count, err
}

// AllActiveIDs returns every non-deleted comment ID.
func (r *gormCommentRepository) AllActiveIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("is_deleted = ?", false).
		Pluck("id", &ids).Error
	return ids, err
}

// UpdateReactionCounts writes the denormalized like/dislike tallies.
func (r *gormCommentRepository) UpdateReactionCounts(ctx context.Context, id uint, counts models.ReactionCounts) error {
	return r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"reactions_like":    counts.Like,
			"reactions_dislike": counts.Dislike,
		}).Error
}
