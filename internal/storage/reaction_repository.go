package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"social-go/internal/models"
)

// ReactionRepository defines the interface for reaction data operations.
type ReactionRepository interface {
	Create(ctx context.Context, reaction *models.Reaction) error
	Save(ctx context.Context, reaction *models.Reaction) error
	Delete(ctx context.Context, reaction *models.Reaction) error
	// FindByAuthorAndTarget returns the author's reaction on a target, or nil
	// when the author has no stance on it.
	FindByAuthorAndTarget(ctx context.Context, authorID uint, kind models.TargetKind, targetID uint) (*models.Reaction, error)
	// CountByTarget tallies the surviving reactions on a target grouped by
	// emoji; authoritative source for the reaction aggregates.
	CountByTarget(ctx context.Context, kind models.TargetKind, targetID uint) (models.ReactionCounts, error)
}

// gormReactionRepository implements ReactionRepository using GORM.
type gormReactionRepository struct {
	db *gorm.DB
}

// NewGormReactionRepository creates a new GORM-based ReactionRepository.
func NewGormReactionRepository(db *gorm.DB) ReactionRepository {
	return &gormReactionRepository{db: db}
}

// Create inserts a new reaction record.
func (r *gormReactionRepository) Create(ctx context.Context, reaction *models.Reaction) error {
	return r.db.WithContext(ctx).Create(reaction).Error
}

// Save persists all fields of an existing reaction (emoji switch).
func (r *gormReactionRepository) Save(ctx context.Context, reaction *models.Reaction) error {
	return r.db.WithContext(ctx).Save(reaction).Error
}

// Delete removes a reaction record by primary key (toggle-off).
func (r *gormReactionRepository) Delete(ctx context.Context, reaction *models.Reaction) error {
	return r.db.WithContext(ctx).Delete(reaction).Error
}

// FindByAuthorAndTarget looks up the single reaction for (author, kind, target).
func (r *gormReactionRepository) FindByAuthorAndTarget(ctx context.Context, authorID uint, kind models.TargetKind, targetID uint) (*models.Reaction, error) {
	var reaction models.Reaction
	err := r.db.WithContext(ctx).
		Where("author_id = ? AND target_kind = ? AND target_id = ?", authorID, kind, targetID).
		First(&reaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reaction, nil
}

// CountByTarget groups the target's reaction rows by emoji.
func (r *gormReactionRepository) CountByTarget(ctx context.Context, kind models.TargetKind, targetID uint) (models.ReactionCounts, error) {
	type emojiCount struct {
		Emoji models.Emoji
		Count int64
	}
	var rows []emojiCount
	err := r.db.WithContext(ctx).Model(&models.Reaction{}).
		Select("emoji, COUNT(*) AS count").
		Where("target_kind = ? AND target_id = ?", kind, targetID).
		Group("emoji").
		Scan(&rows).Error
	if err != nil {
		return models.ReactionCounts{}, err
	}

	var counts models.ReactionCounts
	for _, row := range rows {
		switch row.Emoji {
		case models.EmojiLike:
			counts.Like = row.Count
		case models.EmojiDislike:
			counts.Dislike = row.Count
		}
	}
	return counts, nil
}
