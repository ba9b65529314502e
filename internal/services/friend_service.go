package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"social-go/internal/apperrors"
	"social-go/internal/config"
	"social-go/internal/kafka"
	"social-go/internal/models"
	"social-go/internal/storage"
)

var (
	ErrSelfRequest            = apperrors.Conflict("cannot send a friend request to yourself")
	ErrUserNotFound           = apperrors.NotFound("user not found")
	ErrRecipientNotFound      = apperrors.NotFound("recipient not found")
	ErrRequestAlreadySent     = apperrors.Conflict("you have already sent a request to this user")
	ErrRequestAlreadyReceived = apperrors.Conflict("you have received a request from this user")
	ErrAlreadyFriends         = apperrors.Conflict("users are already friends")
	ErrRequestNotFound        = apperrors.NotFound("friend request not found")
	ErrFriendNotFound         = apperrors.NotFound("friend not found")
	ErrInvalidDecision        = apperrors.InvalidState("decision must be accepted or declined")
)

// ListOptions carries the optional filter and pagination arguments shared by
// the relationship list operations.
type ListOptions struct {
	Name  string // case-insensitive name substring filter
	Page  int    // 1-based
	Limit int
}

// FriendPage is the result of a relationship list operation: the counterpart
// users annotated with their relationship row, plus pagination totals.
type FriendPage struct {
	Users      []models.UserWithFriendship `json:"users"`
	Count      int64                       `json:"count"`
	TotalPages int                         `json:"totalPage"`
}

// FriendService owns the friend-request state machine: the lifecycle of the
// single canonical relationship record per unordered pair of users.
type FriendService interface {
	SendRequest(ctx context.Context, requesterID, recipientID uint) (*models.Friend, error)
	ReactToRequest(ctx context.Context, recipientID, requesterID uint, decision models.FriendStatus) (*models.Friend, error)
	CancelRequest(ctx context.Context, requesterID, recipientID uint) error
	RemoveFriend(ctx context.Context, userID, friendID uint) error
	ListIncoming(ctx context.Context, userID uint, opts ListOptions) (*FriendPage, error)
	ListOutgoing(ctx context.Context, userID uint, opts ListOptions) (*FriendPage, error)
	ListFriends(ctx context.Context, userID uint, opts ListOptions) (*FriendPage, error)
}

// friendService is the FriendService implementation.
type friendService struct {
	users      storage.UserRepository
	friends    storage.FriendRepository
	events     *eventPublisher
	pagination config.PaginationConfig
}

// NewFriendService creates a new FriendService instance. producer may be nil
// to disable notification events.
func NewFriendService(
	users storage.UserRepository,
	friends storage.FriendRepository,
	producer kafka.MessageProducer,
	kafkaCfg config.KafkaConfig,
	pagination config.PaginationConfig,
) FriendService {
	return &friendService{
		users:      users,
		friends:    friends,
		events:     newEventPublisher(producer, kafkaCfg),
		pagination: pagination,
	}
}

// SendRequest creates a pending request from requesterID to recipientID, or
// reopens a previously declined relationship between the pair. At most one
// relationship record exists per unordered pair in any status; a concurrent
// duplicate creation loses against the store's unique pair index and is
// reported as a conflict.
func (s *friendService) SendRequest(ctx context.Context, requesterID, recipientID uint) (*models.Friend, error) {
	if requesterID == recipientID {
		return nil, ErrSelfRequest
	}
	if _, err := s.users.GetByID(ctx, requesterID); err != nil {
		return nil, mapUserLookupErr(err, ErrUserNotFound)
	}
	if _, err := s.users.GetByID(ctx, recipientID); err != nil {
		return nil, mapUserLookupErr(err, ErrRecipientNotFound)
	}

	friend, err := s.friends.FindByPair(ctx, requesterID, recipientID)
	if err != nil {
		return nil, apperrors.StoreUnavailable("looking up relationship", err)
	}

	if friend == nil {
		friend = &models.Friend{
			FromUserID: requesterID,
			ToUserID:   recipientID,
			Status:     models.FriendStatusPending,
		}
		if err := s.friends.Create(ctx, friend); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost a concurrent sendRequest race for the same pair.
				return nil, apperrors.Wrap(apperrors.KindConflict, "a request between these users already exists", err)
			}
			return nil, apperrors.StoreUnavailable("creating friend request", err)
		}
		s.events.publish(ctx, models.NotificationRequestReceived, recipientID, requesterID)
		return friend, nil
	}

	switch friend.Status {
	case models.FriendStatusPending:
		if friend.FromUserID == requesterID {
			return nil, ErrRequestAlreadySent
		}
		return nil, ErrRequestAlreadyReceived
	case models.FriendStatusAccepted:
		return nil, ErrAlreadyFriends
	case models.FriendStatusDeclined:
		// Reopen: the record is reused with the new direction, never duplicated.
		friend.FromUserID = requesterID
		friend.ToUserID = recipientID
		friend.Status = models.FriendStatusPending
		if err := s.friends.Save(ctx, friend); err != nil {
			return nil, apperrors.StoreUnavailable("reopening friend request", err)
		}
		s.events.publish(ctx, models.NotificationRequestReceived, recipientID, requesterID)
		return friend, nil
	default:
		return nil, apperrors.InvalidState("stored friend status out of range: " + string(friend.Status))
	}
}

// ReactToRequest resolves a pending request addressed to recipientID. Only
// the recipient of a still-pending request may resolve it; anything else is
// reported as the request not being found. Accepting syncs both users' friend
// counts; declining updates no aggregates.
func (s *friendService) ReactToRequest(ctx context.Context, recipientID, requesterID uint, decision models.FriendStatus) (*models.Friend, error) {
	if decision != models.FriendStatusAccepted && decision != models.FriendStatusDeclined {
		return nil, ErrInvalidDecision
	}

	friend, err := s.friends.FindPendingFrom(ctx, requesterID, recipientID)
	if err != nil {
		return nil, apperrors.StoreUnavailable("looking up friend request", err)
	}
	if friend == nil {
		return nil, ErrRequestNotFound
	}

	friend.Status = decision
	if err := s.friends.Save(ctx, friend); err != nil {
		return nil, apperrors.StoreUnavailable("updating friend request", err)
	}

	if decision == models.FriendStatusAccepted {
		if _, err := SyncFriendCount(ctx, s.friends, s.users, recipientID); err != nil {
			return nil, err
		}
		if _, err := SyncFriendCount(ctx, s.friends, s.users, requesterID); err != nil {
			return nil, err
		}
		s.events.publish(ctx, models.NotificationRequestAccepted, requesterID, recipientID)
	}
	return friend, nil
}

// CancelRequest deletes requesterID's still-pending outgoing request to
// recipientID. Only the original requester may cancel.
func (s *friendService) CancelRequest(ctx context.Context, requesterID, recipientID uint) error {
	friend, err := s.friends.FindPendingFrom(ctx, requesterID, recipientID)
	if err != nil {
		return apperrors.StoreUnavailable("looking up friend request", err)
	}
	if friend == nil {
		return ErrRequestNotFound
	}
	if err := s.friends.Delete(ctx, friend); err != nil {
		return apperrors.StoreUnavailable("deleting friend request", err)
	}
	return nil
}

// RemoveFriend deletes the accepted relationship between userID and friendID,
// direction irrelevant, and syncs both friend counts.
func (s *friendService) RemoveFriend(ctx context.Context, userID, friendID uint) error {
	friend, err := s.friends.FindAcceptedPair(ctx, userID, friendID)
	if err != nil {
		return apperrors.StoreUnavailable("looking up friendship", err)
	}
	if friend == nil {
		return ErrFriendNotFound
	}
	if err := s.friends.Delete(ctx, friend); err != nil {
		return apperrors.StoreUnavailable("deleting friendship", err)
	}

	if _, err := SyncFriendCount(ctx, s.friends, s.users, userID); err != nil {
		return err
	}
	if _, err := SyncFriendCount(ctx, s.friends, s.users, friendID); err != nil {
		return err
	}
	return nil
}

// ListIncoming lists users with a pending request addressed to userID.
func (s *friendService) ListIncoming(ctx context.Context, userID uint, opts ListOptions) (*FriendPage, error) {
	rows, err := s.friends.ListPendingTo(ctx, userID)
	if err != nil {
		return nil, apperrors.StoreUnavailable("listing incoming requests", err)
	}
	return s.pageFor(ctx, userID, rows, opts)
}

// ListOutgoing lists users userID has sent a still-pending request to.
func (s *friendService) ListOutgoing(ctx context.Context, userID uint, opts ListOptions) (*FriendPage, error) {
	rows, err := s.friends.ListPendingFrom(ctx, userID)
	if err != nil {
		return nil, apperrors.StoreUnavailable("listing outgoing requests", err)
	}
	return s.pageFor(ctx, userID, rows, opts)
}

// ListFriends lists userID's accepted friends, either direction.
func (s *friendService) ListFriends(ctx context.Context, userID uint, opts ListOptions) (*FriendPage, error) {
	rows, err := s.friends.ListAcceptedFor(ctx, userID)
	if err != nil {
		return nil, apperrors.StoreUnavailable("listing friends", err)
	}
	return s.pageFor(ctx, userID, rows, opts)
}

// pageFor maps relationship rows to the counterpart users, applies the name
// filter and pagination, and annotates each user with its relationship row.
func (s *friendService) pageFor(ctx context.Context, userID uint, rows []models.Friend, opts ListOptions) (*FriendPage, error) {
	page, limit := s.normalize(opts)

	byOther := make(map[uint]*models.Friend, len(rows))
	otherIDs := make([]uint, 0, len(rows))
	for i := range rows {
		other := rows[i].OtherParty(userID)
		byOther[other] = &rows[i]
		otherIDs = append(otherIDs, other)
	}

	count, err := s.users.CountByIDs(ctx, otherIDs, opts.Name)
	if err != nil {
		return nil, apperrors.StoreUnavailable("counting listed users", err)
	}
	offset := limit * (page - 1)
	users, err := s.users.ListByIDs(ctx, otherIDs, opts.Name, offset, limit)
	if err != nil {
		return nil, apperrors.StoreUnavailable("listing users", err)
	}

	result := &FriendPage{
		Users:      make([]models.UserWithFriendship, 0, len(users)),
		Count:      count,
		TotalPages: int((count + int64(limit) - 1) / int64(limit)),
	}
	for _, u := range users {
		result.Users = append(result.Users, models.UserWithFriendship{
			User:       u,
			Friendship: byOther[u.ID],
		})
	}
	return result, nil
}

// normalize applies pagination defaults and bounds.
func (s *friendService) normalize(opts ListOptions) (page, limit int) {
	page = opts.Page
	if page < 1 {
		page = 1
	}
	limit = opts.Limit
	if limit < 1 {
		limit = s.pagination.DefaultPageSize
		if limit < 1 {
			limit = 10
		}
	}
	if s.pagination.MaxPageSize > 0 && limit > s.pagination.MaxPageSize {
		limit = s.pagination.MaxPageSize
	}
	return page, limit
}

// mapUserLookupErr turns a repository lookup failure into the right typed
// error: notFound for a missing row, StoreUnavailable for anything else.
func mapUserLookupErr(err error, notFound *apperrors.Error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return apperrors.StoreUnavailable("looking up user", err)
}
