package services

import (
	"context"

	"social-go/internal/apperrors"
	"social-go/internal/models"
	"social-go/internal/storage"
)

// Counter synchronization. Each function recomputes one denormalized
// aggregate from its authoritative rows and writes it back onto the owning
// entity, returning the fresh value. The recompute-from-source strategy is
// deliberate: it costs a count query per mutation but cannot drift the way
// incremental increments/decrements can, and re-running any of these
// functions is always safe.
//
// The repositories are explicit parameters so every function can be called
// on its own, in tests or from a repair job, without a wired-up service.

// SyncFriendCount recomputes userID's friend count from accepted
// relationship rows touching either side.
func SyncFriendCount(ctx context.Context, friends storage.FriendRepository, users storage.UserRepository, userID uint) (int64, error) {
	count, err := friends.CountAcceptedFor(ctx, userID)
	if err != nil {
		return 0, apperrors.StoreUnavailable("counting accepted relationships", err)
	}
	if err := users.UpdateFriendCount(ctx, userID, count); err != nil {
		return 0, apperrors.StoreUnavailable("writing friend count", err)
	}
	return count, nil
}

// SyncPostCount recomputes authorID's post count from non-deleted post rows.
func SyncPostCount(ctx context.Context, posts storage.PostRepository, users storage.UserRepository, authorID uint) (int64, error) {
	count, err := posts.CountActiveByAuthor(ctx, authorID)
	if err != nil {
		return 0, apperrors.StoreUnavailable("counting posts", err)
	}
	if err := users.UpdatePostCount(ctx, authorID, count); err != nil {
		return 0, apperrors.StoreUnavailable("writing post count", err)
	}
	return count, nil
}

// SyncCommentCount recomputes postID's comment count from non-deleted
// comment rows.
func SyncCommentCount(ctx context.Context, comments storage.CommentRepository, posts storage.PostRepository, postID uint) (int64, error) {
	count, err := comments.CountActiveByPost(ctx, postID)
	if err != nil {
		return 0, apperrors.StoreUnavailable("counting comments", err)
	}
	if err := posts.UpdateCommentCount(ctx, postID, count); err != nil {
		return 0, apperrors.StoreUnavailable("writing comment count", err)
	}
	return count, nil
}

// SyncReactionCounts recomputes a target's like/dislike tallies from the
// surviving reaction rows and writes them onto the target entity selected by
// kind. The kind dispatch is a closed set; anything else is an invalid state,
// not a dynamic lookup.
func SyncReactionCounts(ctx context.Context, reactions storage.ReactionRepository, posts storage.PostRepository, comments storage.CommentRepository, kind models.TargetKind, targetID uint) (models.ReactionCounts, error) {
	counts, err := reactions.CountByTarget(ctx, kind, targetID)
	if err != nil {
		return models.ReactionCounts{}, apperrors.StoreUnavailable("counting reactions", err)
	}

	switch kind {
	case models.TargetPost:
		err = posts.UpdateReactionCounts(ctx, targetID, counts)
	case models.TargetComment:
		err = comments.UpdateReactionCounts(ctx, targetID, counts)
	default:
		return models.ReactionCounts{}, apperrors.InvalidState("unknown reaction target kind: " + string(kind))
	}
	if err != nil {
		return models.ReactionCounts{}, apperrors.StoreUnavailable("writing reaction counts", err)
	}
	return counts, nil
}
