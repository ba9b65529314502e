package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"social-go/internal/models"
)

// FriendRepository defines the interface for relationship data operations.
// There is at most one Friend row per unordered pair; the pair-level finders
// therefore return a single record regardless of direction.
type FriendRepository interface {
	Create(ctx context.Context, friend *models.Friend) error
	Save(ctx context.Context, friend *models.Friend) error
	Delete(ctx context.Context, friend *models.Friend) error
	// FindByPair returns the single record for the unordered pair {a, b} in
	// any status, or nil when the pair has no record.
	FindByPair(ctx context.Context, a, b uint) (*models.Friend, error)
	// FindPendingFrom returns the pending request from -> to, or nil.
	// Direction matters here: only the recipient may resolve a request and
	// only the requester may cancel it.
	FindPendingFrom(ctx context.Context, from, to uint) (*models.Friend, error)
	// FindAcceptedPair returns the accepted record for the unordered pair, or nil.
	FindAcceptedPair(ctx context.Context, a, b uint) (*models.Friend, error)
	ListPendingTo(ctx context.Context, userID uint) ([]models.Friend, error)
	ListPendingFrom(ctx context.Context, userID uint) ([]models.Friend, error)
	ListAcceptedFor(ctx context.Context, userID uint) ([]models.Friend, error)
	// CountAcceptedFor counts accepted rows touching userID on either side;
	// this is the authoritative source for the friendCount aggregate.
	CountAcceptedFor(ctx context.Context, userID uint) (int64, error)
}

// gormFriendRepository implements FriendRepository using GORM.
type gormFriendRepository struct {
	db *gorm.DB
}

// NewGormFriendRepository creates a new GORM-based FriendRepository.
func NewGormFriendRepository(db *gorm.DB) FriendRepository {
	return &gormFriendRepository{db: db}
}

// Create inserts a new relationship record. The unique index on the canonical
// pair columns makes the database reject a concurrent duplicate; GORM
// surfaces that as gorm.ErrDuplicatedKey.
func (r *gormFriendRepository) Create(ctx context.Context, friend *models.Friend) error {
	return r.db.WithContext(ctx).Create(friend).Error
}

// Save persists all fields of an existing record.
func (r *gormFriendRepository) Save(ctx context.Context, friend *models.Friend) error {
	return r.db.WithContext(ctx).Save(friend).Error
}

// Delete removes a relationship record by primary key.
func (r *gormFriendRepository) Delete(ctx context.Context, friend *models.Friend) error {
	return r.db.WithContext(ctx).Delete(friend).Error
}

// findOne runs query and maps gorm.ErrRecordNotFound to (nil, nil).
func findOne(query *gorm.DB) (*models.Friend, error) {
	var friend models.Friend
	err := query.First(&friend).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &friend, nil
}

// FindByPair looks up the record for the unordered pair via the canonical
// pair columns.
func (r *gormFriendRepository) FindByPair(ctx context.Context, a, b uint) (*models.Friend, error) {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	return findOne(r.db.WithContext(ctx).Where("user_low_id = ? AND user_high_id = ?", lo, hi))
}

// FindPendingFrom looks up the directed pending request from -> to.
func (r *gormFriendRepository) FindPendingFrom(ctx context.Context, from, to uint) (*models.Friend, error) {
	return findOne(r.db.WithContext(ctx).
		Where("from_user_id = ? AND to_user_id = ?", from, to).
		Where("status = ?", models.FriendStatusPending))
}

// FindAcceptedPair looks up the accepted record for the unordered pair.
func (r *gormFriendRepository) FindAcceptedPair(ctx context.Context, a, b uint) (*models.Friend, error) {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	return findOne(r.db.WithContext(ctx).
		Where("user_low_id = ? AND user_high_id = ?", lo, hi).
		Where("status = ?", models.FriendStatusAccepted))
}

// ListPendingTo lists incoming pending requests for userID.
func (r *gormFriendRepository) ListPendingTo(ctx context.Context, userID uint) ([]models.Friend, error) {
	var friends []models.Friend
	err := r.db.WithContext(ctx).
		Where("to_user_id = ? AND status = ?", userID, models.FriendStatusPending).
		Find(&friends).Error
	return friends, err
}

// ListPendingFrom lists outgoing pending requests sent by userID.
func (r *gormFriendRepository) ListPendingFrom(ctx context.Context, userID uint) ([]models.Friend, error) {
	var friends []models.Friend
	err := r.db.WithContext(ctx).
		Where("from_user_id = ? AND status = ?", userID, models.FriendStatusPending).
		Find(&friends).Error
	return friends, err
}

// ListAcceptedFor lists accepted relationships touching userID on either side.
func (r *gormFriendRepository) ListAcceptedFor(ctx context.Context, userID uint) ([]models.Friend, error) {
	var friends []models.Friend
	err := r.db.WithContext(ctx).
		Where("(from_user_id = ? OR to_user_id = ?) AND status = ?", userID, userID, models.FriendStatusAccepted).
		Find(&friends).Error
	return friends, err
}

// CountAcceptedFor counts accepted relationships touching userID.
func (r *gormFriendRepository) CountAcceptedFor(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Friend{}).
		Where("(from_user_id = ? OR to_user_id = ?) AND status = ?", userID, userID, models.FriendStatusAccepted).
		Count(&count).Error
	return count, err
}
