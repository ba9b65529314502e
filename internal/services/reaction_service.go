package services

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"social-go/internal/apperrors"
	"social-go/internal/models"
	"social-go/internal/storage"
)

var (
	ErrTargetNotFound    = apperrors.NotFound("target not found")
	ErrInvalidEmoji      = apperrors.InvalidState("unknown reaction emoji")
	ErrInvalidTargetKind = apperrors.InvalidState("unknown reaction target kind")
)

// CounterCache caches reaction tallies for hot targets. Implementations are
// expected to be best-effort; the authoritative tallies always live on the
// target row. The Redis implementation is in internal/redis.
type CounterCache interface {
	SetReactionCounts(ctx context.Context, kind models.TargetKind, targetID uint, counts models.ReactionCounts) error
	GetReactionCounts(ctx context.Context, kind models.TargetKind, targetID uint) (models.ReactionCounts, bool, error)
}

// ReactionService owns toggle/switch/delete semantics for one user's stance
// on one target: re-submitting the held emoji clears it, submitting the other
// emoji switches the existing record in place.
type ReactionService interface {
	SetReaction(ctx context.Context, authorID uint, kind models.TargetKind, targetID uint, emoji models.Emoji) (models.ReactionCounts, error)
}

// reactionService is the ReactionService implementation.
type reactionService struct {
	reactions storage.ReactionRepository
	posts     storage.PostRepository
	comments  storage.CommentRepository
	cache     CounterCache
}

// NewReactionService creates a new ReactionService instance. cache may be nil
// to disable tally caching.
func NewReactionService(
	reactions storage.ReactionRepository,
	posts storage.PostRepository,
	comments storage.CommentRepository,
	cache CounterCache,
) ReactionService {
	return &reactionService{
		reactions: reactions,
		posts:     posts,
		comments:  comments,
		cache:     cache,
	}
}

// SetReaction applies authorID's stance on a target and returns the fresh
// like/dislike tally recomputed from the surviving reaction rows. Concurrent
// calls from the same author race on find-then-write; last writer wins, which
// is acceptable because re-running converges to the same toggle state.
func (s *reactionService) SetReaction(ctx context.Context, authorID uint, kind models.TargetKind, targetID uint, emoji models.Emoji) (models.ReactionCounts, error) {
	if !emoji.Valid() {
		return models.ReactionCounts{}, ErrInvalidEmoji
	}
	if err := s.ensureTargetExists(ctx, kind, targetID); err != nil {
		return models.ReactionCounts{}, err
	}

	reaction, err := s.reactions.FindByAuthorAndTarget(ctx, authorID, kind, targetID)
	if err != nil {
		return models.ReactionCounts{}, apperrors.StoreUnavailable("looking up reaction", err)
	}

	switch {
	case reaction == nil:
		reaction = &models.Reaction{
			AuthorID:   authorID,
			TargetKind: kind,
			TargetID:   targetID,
			Emoji:      emoji,
		}
		if err := s.reactions.Create(ctx, reaction); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost a same-author race; the surviving row already holds a
				// stance, and the tally below reflects it either way.
				break
			}
			return models.ReactionCounts{}, apperrors.StoreUnavailable("creating reaction", err)
		}
	case reaction.Emoji == emoji:
		// Toggle off.
		if err := s.reactions.Delete(ctx, reaction); err != nil {
			return models.ReactionCounts{}, apperrors.StoreUnavailable("deleting reaction", err)
		}
	default:
		// Switch in place, keeping the reaction's identity.
		reaction.Emoji = emoji
		if err := s.reactions.Save(ctx, reaction); err != nil {
			return models.ReactionCounts{}, apperrors.StoreUnavailable("updating reaction", err)
		}
	}

	counts, err := SyncReactionCounts(ctx, s.reactions, s.posts, s.comments, kind, targetID)
	if err != nil {
		return models.ReactionCounts{}, err
	}

	if s.cache != nil {
		if err := s.cache.SetReactionCounts(ctx, kind, targetID, counts); err != nil {
			log.Printf("Error caching reaction counts for %s %d: %v", kind, targetID, err)
		}
	}
	return counts, nil
}

// ensureTargetExists resolves the target through the closed kind dispatch.
func (s *reactionService) ensureTargetExists(ctx context.Context, kind models.TargetKind, targetID uint) error {
	var err error
	switch kind {
	case models.TargetPost:
		_, err = s.posts.GetByID(ctx, targetID)
	case models.TargetComment:
		_, err = s.comments.GetByID(ctx, targetID)
	default:
		return ErrInvalidTargetKind
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTargetNotFound
		}
		return apperrors.StoreUnavailable("looking up reaction target", err)
	}
	return nil
}
