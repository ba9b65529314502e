package storage

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"social-go/internal/models"
)

// UserRepository defines the interface for user data operations. Aggregate
// columns (friend_count, post_count) are only written through the dedicated
// update methods so the counter synchronizer stays the single writer.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	// ListByIDs returns users whose ID is in userIDs, optionally filtered by a
	// case-insensitive name substring, newest first, with offset pagination.
	ListByIDs(ctx context.Context, userIDs []uint, nameFilter string, offset, limit int) ([]models.User, error)
	// CountByIDs counts the users ListByIDs would match before pagination.
	CountByIDs(ctx context.Context, userIDs []uint, nameFilter string) (int64, error)
	UpdateFriendCount(ctx context.Context, id uint, count int64) error
	UpdatePostCount(ctx context.Context, id uint, count int64) error
	// AllIDs returns every user ID; used by the counter resync job.
	AllIDs(ctx context.Context) ([]uint, error)
}

// gormUserRepository implements UserRepository using GORM.
type gormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM-based UserRepository.
func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

// Create creates a new user record in the database.
func (r *gormUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID retrieves a user by their ID.
func (r *gormUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, err // Includes gorm.ErrRecordNotFound.
	}
	return &user, nil
}

// listQuery builds the shared filter for ListByIDs and CountByIDs.
func (r *gormUserRepository) listQuery(ctx context.Context, userIDs []uint, nameFilter string) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.User{}).Where("id IN ?", userIDs)
	if nameFilter != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(nameFilter)+"%")
	}
	return q
}

// ListByIDs retrieves the given users newest first.
func (r *gormUserRepository) ListByIDs(ctx context.Context, userIDs []uint, nameFilter string, offset, limit int) ([]models.User, error) {
	users := []models.User{}
	if len(userIDs) == 0 {
		return users, nil
	}
	err := r.listQuery(ctx, userIDs, nameFilter).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// CountByIDs counts users matching the list filter.
func (r *gormUserRepository) CountByIDs(ctx context.Context, userIDs []uint, nameFilter string) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.listQuery(ctx, userIDs, nameFilter).Count(&count).Error
	return count, err
}

// AllIDs returns every user ID.
func (r *gormUserRepository) AllIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.User{}).Pluck("id", &ids).Error
	return ids, err
}

// UpdateFriendCount writes the denormalized friend count aggregate.
func (r *gormUserRepository) UpdateFriendCount(ctx context.Context, id uint, count int64) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("friend_count", count).Error
}

// UpdatePostCount writes the denormalized post count aggregate.
func (r *gormUserRepository) UpdatePostCount(ctx context.Context, id uint, count int64) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("post_count", count).Error
}
