package services

// In-memory repository fakes. The pack of operations the managers run is
// defined by the storage interfaces, so the state machines can be exercised
// without a database. The friend and reaction fakes enforce the same unique
// constraints the real schema carries, surfacing gorm.ErrDuplicatedKey the
// way the postgres driver does with TranslateError enabled.

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"social-go/internal/models"
	"social-go/internal/storage"
)

var testEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type memUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uint]models.User)}
}

func (r *memUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = testEpoch.Add(time.Duration(r.nextID) * time.Second)
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *memUserRepo) matching(userIDs []uint, nameFilter string) []models.User {
	var out []models.User
	filter := strings.ToLower(nameFilter)
	for _, id := range userIDs {
		u, ok := r.users[id]
		if !ok {
			continue
		}
		if filter != "" && !strings.Contains(strings.ToLower(u.Name), filter) {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *memUserRepo) ListByIDs(ctx context.Context, userIDs []uint, nameFilter string, offset, limit int) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.matching(userIDs, nameFilter)
	if offset >= len(out) {
		return []models.User{}, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memUserRepo) CountByIDs(ctx context.Context, userIDs []uint, nameFilter string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.matching(userIDs, nameFilter))), nil
}

func (r *memUserRepo) UpdateFriendCount(ctx context.Context, id uint, count int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.FriendCount = count
	r.users[id] = u
	return nil
}

func (r *memUserRepo) UpdatePostCount(ctx context.Context, id uint, count int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.PostCount = count
	r.users[id] = u
	return nil
}

func (r *memUserRepo) AllIDs(ctx context.Context) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]uint, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

type memFriendRepo struct {
	mu      sync.Mutex
	nextID  uint
	friends map[uint]models.Friend

	// createErr, when set, fails the next Create; used to simulate losing
	// the unique-index race against a concurrent writer.
	createErr error
}

func newMemFriendRepo() *memFriendRepo {
	return &memFriendRepo{friends: make(map[uint]models.Friend)}
}

func pairOf(f *models.Friend) (uint, uint) {
	lo, hi := f.FromUserID, f.ToUserID
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

func (r *memFriendRepo) Create(ctx context.Context, friend *models.Friend) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		err := r.createErr
		r.createErr = nil
		return err
	}
	lo, hi := pairOf(friend)
	for _, existing := range r.friends {
		if existing.UserLowID == lo && existing.UserHighID == hi {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	friend.ID = r.nextID
	friend.UserLowID, friend.UserHighID = lo, hi
	r.friends[friend.ID] = *friend
	return nil
}

func (r *memFriendRepo) Save(ctx context.Context, friend *models.Friend) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.friends[friend.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	friend.UserLowID, friend.UserHighID = pairOf(friend)
	r.friends[friend.ID] = *friend
	return nil
}

func (r *memFriendRepo) Delete(ctx context.Context, friend *models.Friend) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.friends, friend.ID)
	return nil
}

func (r *memFriendRepo) FindByPair(ctx context.Context, a, b uint) (*models.Friend, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	for _, f := range r.friends {
		if f.UserLowID == lo && f.UserHighID == hi {
			found := f
			return &found, nil
		}
	}
	return nil, nil
}

func (r *memFriendRepo) FindPendingFrom(ctx context.Context, from, to uint) (*models.Friend, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.friends {
		if f.FromUserID == from && f.ToUserID == to && f.Status == models.FriendStatusPending {
			found := f
			return &found, nil
		}
	}
	return nil, nil
}

func (r *memFriendRepo) FindAcceptedPair(ctx context.Context, a, b uint) (*models.Friend, error) {
	f, err := r.FindByPair(ctx, a, b)
	if err != nil || f == nil || f.Status != models.FriendStatusAccepted {
		return nil, err
	}
	return f, nil
}

func (r *memFriendRepo) list(match func(models.Friend) bool) []models.Friend {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Friend
	for _, f := range r.friends {
		if match(f) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *memFriendRepo) ListPendingTo(ctx context.Context, userID uint) ([]models.Friend, error) {
	return r.list(func(f models.Friend) bool {
		return f.ToUserID == userID && f.Status == models.FriendStatusPending
	}), nil
}

func (r *memFriendRepo) ListPendingFrom(ctx context.Context, userID uint) ([]models.Friend, error) {
	return r.list(func(f models.Friend) bool {
		return f.FromUserID == userID && f.Status == models.FriendStatusPending
	}), nil
}

func (r *memFriendRepo) ListAcceptedFor(ctx context.Context, userID uint) ([]models.Friend, error) {
	return r.list(func(f models.Friend) bool {
		return f.Involves(userID) && f.Status == models.FriendStatusAccepted
	}), nil
}

func (r *memFriendRepo) CountAcceptedFor(ctx context.Context, userID uint) (int64, error) {
	rows, _ := r.ListAcceptedFor(ctx, userID)
	return int64(len(rows)), nil
}

// all returns every stored record, for invariant assertions.
func (r *memFriendRepo) all() []models.Friend {
	return r.list(func(models.Friend) bool { return true })
}

type memPostRepo struct {
	mu     sync.Mutex
	nextID uint
	posts  map[uint]models.Post
}

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{posts: make(map[uint]models.Post)}
}

func (r *memPostRepo) Create(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	post.ID = r.nextID
	r.posts[post.ID] = *post
	return nil
}

func (r *memPostRepo) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok || p.IsDeleted {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *memPostRepo) SoftDelete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.IsDeleted = true
	r.posts[id] = p
	return nil
}

func (r *memPostRepo) CountActiveByAuthor(ctx context.Context, authorID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, p := range r.posts {
		if p.AuthorID == authorID && !p.IsDeleted {
			count++
		}
	}
	return count, nil
}

func (r *memPostRepo) UpdateCommentCount(ctx context.Context, id uint, count int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.CommentCount = count
	r.posts[id] = p
	return nil
}

func (r *memPostRepo) UpdateReactionCounts(ctx context.Context, id uint, counts models.ReactionCounts) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Reactions = counts
	r.posts[id] = p
	return nil
}

func (r *memPostRepo) AllActiveIDs(ctx context.Context) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uint
	for id, p := range r.posts {
		if !p.IsDeleted {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

type memCommentRepo struct {
	mu       sync.Mutex
	nextID   uint
	comments map[uint]models.Comment
}

func newMemCommentRepo() *memCommentRepo {
	return &memCommentRepo{comments: make(map[uint]models.Comment)}
}

func (r *memCommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	comment.ID = r.nextID
	r.comments[comment.ID] = *comment
	return nil
}

func (r *memCommentRepo) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok || c.IsDeleted {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *memCommentRepo) SoftDelete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.IsDeleted = true
	r.comments[id] = c
	return nil
}

func (r *memCommentRepo) CountActiveByPost(ctx context.Context, postID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, c := range r.comments {
		if c.PostID == postID && !c.IsDeleted {
			count++
		}
	}
	return count, nil
}

func (r *memCommentRepo) UpdateReactionCounts(ctx context.Context, id uint, counts models.ReactionCounts) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Reactions = counts
	r.comments[id] = c
	return nil
}

func (r *memCommentRepo) AllActiveIDs(ctx context.Context) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uint
	for id, c := range r.comments {
		if !c.IsDeleted {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

type memReactionRepo struct {
	mu        sync.Mutex
	nextID    uint
	reactions map[uint]models.Reaction
}

func newMemReactionRepo() *memReactionRepo {
	return &memReactionRepo{reactions: make(map[uint]models.Reaction)}
}

func (r *memReactionRepo) Create(ctx context.Context, reaction *models.Reaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.reactions {
		if existing.AuthorID == reaction.AuthorID &&
			existing.TargetKind == reaction.TargetKind &&
			existing.TargetID == reaction.TargetID {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	reaction.ID = r.nextID
	r.reactions[reaction.ID] = *reaction
	return nil
}

func (r *memReactionRepo) Save(ctx context.Context, reaction *models.Reaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reactions[reaction.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.reactions[reaction.ID] = *reaction
	return nil
}

func (r *memReactionRepo) Delete(ctx context.Context, reaction *models.Reaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.reactions, reaction.ID)
	return nil
}

func (r *memReactionRepo) FindByAuthorAndTarget(ctx context.Context, authorID uint, kind models.TargetKind, targetID uint) (*models.Reaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, re := range r.reactions {
		if re.AuthorID == authorID && re.TargetKind == kind && re.TargetID == targetID {
			found := re
			return &found, nil
		}
	}
	return nil, nil
}

func (r *memReactionRepo) CountByTarget(ctx context.Context, kind models.TargetKind, targetID uint) (models.ReactionCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var counts models.ReactionCounts
	for _, re := range r.reactions {
		if re.TargetKind != kind || re.TargetID != targetID {
			continue
		}
		switch re.Emoji {
		case models.EmojiLike:
			counts.Like++
		case models.EmojiDislike:
			counts.Dislike++
		}
	}
	return counts, nil
}

// rowsFor returns the stored reaction rows for a target, for invariant
// assertions.
func (r *memReactionRepo) rowsFor(kind models.TargetKind, targetID uint) []models.Reaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Reaction
	for _, re := range r.reactions {
		if re.TargetKind == kind && re.TargetID == targetID {
			out = append(out, re)
		}
	}
	return out
}

// capturingProducer records published messages instead of talking to Kafka.
type capturingProducer struct {
	mu       sync.Mutex
	messages []capturedMessage
}

type capturedMessage struct {
	topic   string
	key     string
	payload []byte
}

func (p *capturingProducer) SendMessage(ctx context.Context, topic string, key []byte, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, capturedMessage{topic: topic, key: string(key), payload: payload})
	return nil
}

func (p *capturingProducer) Close() {}

func (p *capturingProducer) published() []capturedMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]capturedMessage(nil), p.messages...)
}

// Interface conformance checks.
var (
	_ storage.UserRepository     = (*memUserRepo)(nil)
	_ storage.FriendRepository   = (*memFriendRepo)(nil)
	_ storage.PostRepository     = (*memPostRepo)(nil)
	_ storage.CommentRepository  = (*memCommentRepo)(nil)
	_ storage.ReactionRepository = (*memReactionRepo)(nil)
)
