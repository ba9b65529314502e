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
	ErrPostNotFound  = apperrors.NotFound("post not found")
	ErrNotPostAuthor = apperrors.Forbidden("only the author can delete this post")
)

// PostService covers the post mutations the counter core cares about:
// creating and soft-deleting posts, each followed by a postCount sync.
// Field-level post CRUD belongs to the excluded HTTP layer.
type PostService interface {
	CreatePost(ctx context.Context, authorID uint, content, image string) (*models.Post, error)
	DeletePost(ctx context.Context, authorID, postID uint) error
}

// postService is the PostService implementation.
type postService struct {
	posts storage.PostRepository
	users storage.UserRepository
}

// NewPostService creates a new PostService instance.
func NewPostService(posts storage.PostRepository, users storage.UserRepository) PostService {
	return &postService{posts: posts, users: users}
}

// CreatePost creates a post and recomputes the author's post count.
func (s *postService) CreatePost(ctx context.Context, authorID uint, content, image string) (*models.Post, error) {
	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		return nil, mapUserLookupErr(err, ErrUserNotFound)
	}

	post := &models.Post{
		Content:  content,
		Image:    image,
		AuthorID: authorID,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, apperrors.StoreUnavailable("creating post", err)
	}

	if _, err := SyncPostCount(ctx, s.posts, s.users, authorID); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost soft-deletes an author's own post and recomputes their post
// count. Deleting someone else's post is forbidden.
func (s *postService) DeletePost(ctx context.Context, authorID, postID uint) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return apperrors.StoreUnavailable("looking up post", err)
	}
	if post.AuthorID != authorID {
		return ErrNotPostAuthor
	}

	if err := s.posts.SoftDelete(ctx, postID); err != nil {
		return apperrors.StoreUnavailable("deleting post", err)
	}
	if _, err := SyncPostCount(ctx, s.posts, s.users, authorID); err != nil {
		return err
	}
	return nil
}
