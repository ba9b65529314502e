package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"social-go/internal/apperrors"
	"social-go/internal/models"
	"social-go/internal/storage"
)

var (
	ErrCommentNotFound  = apperrors.NotFound("comment not found")
	ErrNotCommentAuthor = apperrors.Forbidden("only the author can delete this comment")
)

// CommentService covers the comment mutations the counter core cares about:
// creating and soft-deleting comments, each followed by a commentCount sync
// on the parent post.
type CommentService interface {
	CreateComment(ctx context.Context, authorID, postID uint, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, authorID, commentID uint) error
}

// commentService is the CommentService implementation.
type commentService struct {
	comments storage.CommentRepository
	posts    storage.PostRepository
	users    storage.UserRepository
}

// NewCommentService creates a new CommentService instance.
func NewCommentService(comments storage.CommentRepository, posts storage.PostRepository, users storage.UserRepository) CommentService {
	return &commentService{comments: comments, posts: posts, users: users}
}

// CreateComment creates a comment on an existing post and recomputes the
// post's comment count.
func (s *commentService) CreateComment(ctx context.Context, authorID, postID uint, content string) (*models.Comment, error) {
	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		return nil, mapUserLookupErr(err, ErrUserNotFound)
	}
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, apperrors.StoreUnavailable("looking up post", err)
	}

	comment := &models.Comment{
		Content:  content,
		AuthorID: authorID,
		PostID:   postID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.StoreUnavailable("creating comment", err)
	}

	if _, err := SyncCommentCount(ctx, s.comments, s.posts, postID); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment soft-deletes an author's own comment and recomputes the
// parent post's comment count.
func (s *commentService) DeleteComment(ctx context.Context, authorID, commentID uint) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return apperrors.StoreUnavailable("looking up comment", err)
	}
	if comment.AuthorID != authorID {
		return ErrNotCommentAuthor
	}

	if err := s.comments.SoftDelete(ctx, commentID); err != nil {
		return apperrors.StoreUnavailable("deleting comment", err)
	}
	if _, err := SyncCommentCount(ctx, s.comments, s.posts, comment.PostID); err != nil {
		return err
	}
	return nil
}
