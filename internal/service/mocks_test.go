package service

// Function-field mocks for the repository interfaces. Each test sets only
// the functions it cares about; unset functions return zero values or the
// matching not-found sentinel.

import (
	"context"

	"musicgram/internal/model"
	"musicgram/internal/notify"
)

type mockUserRepository struct {
	getByIDFn      func(ctx context.Context, id int64) (*model.User, error)
	getSummariesFn func(ctx context.Context, ids []int64) (map[int64]model.UserSummary, error)
	existsFn       func(ctx context.Context, id int64) (bool, error)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetSummaries(ctx context.Context, ids []int64) (map[int64]model.UserSummary, error) {
	if m.getSummariesFn != nil {
		return m.getSummariesFn(ctx, ids)
	}
	summaries := make(map[int64]model.UserSummary, len(ids))
	for _, id := range ids {
		summaries[id] = model.UserSummary{ID: id}
	}
	return summaries, nil
}

func (m *mockUserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, id)
	}
	return true, nil
}

type mockSongRepository struct {
	getByIDFn            func(ctx context.Context, id int64) (*model.Song, error)
	getByIDsFn           func(ctx context.Context, ids []int64) (map[int64]model.Song, error)
	existsFn             func(ctx context.Context, id int64) (bool, error)
	incrementPlayCountFn func(ctx context.Context, songID int64) (int, error)
}

func (m *mockSongRepository) GetByID(ctx context.Context, id int64) (*model.Song, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrSongNotFound
}

func (m *mockSongRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]model.Song, error) {
	if m.getByIDsFn != nil {
		return m.getByIDsFn(ctx, ids)
	}
	songs := make(map[int64]model.Song, len(ids))
	for _, id := range ids {
		songs[id] = model.Song{ID: id}
	}
	return songs, nil
}

func (m *mockSongRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, id)
	}
	return true, nil
}

func (m *mockSongRepository) IncrementPlayCount(ctx context.Context, songID int64) (int, error) {
	if m.incrementPlayCountFn != nil {
		return m.incrementPlayCountFn(ctx, songID)
	}
	return 1, nil
}

type mockFollowRepository struct {
	createFn          func(ctx context.Context, followerID, followingID int64) (bool, error)
	deleteFn          func(ctx context.Context, followerID, followingID int64) error
	existsFn          func(ctx context.Context, followerID, followingID int64) (bool, error)
	isMutualFn        func(ctx context.Context, a, b int64) (bool, error)
	listFollowersFn   func(ctx context.Context, userID int64) ([]model.FollowUser, error)
	listFollowingFn   func(ctx context.Context, userID int64) ([]model.FollowUser, error)
	getFollowingIDsFn func(ctx context.Context, userID int64) ([]int64, error)

	createCalls []followEdge
	deleteCalls []followEdge
}

type followEdge struct {
	FollowerID  int64
	FollowingID int64
}

func (m *mockFollowRepository) Create(ctx context.Context, followerID, followingID int64) (bool, error) {
	m.createCalls = append(m.createCalls, followEdge{followerID, followingID})
	if m.createFn != nil {
		return m.createFn(ctx, followerID, followingID)
	}
	return true, nil
}

func (m *mockFollowRepository) Delete(ctx context.Context, followerID, followingID int64) error {
	m.deleteCalls = append(m.deleteCalls, followEdge{followerID, followingID})
	if m.deleteFn != nil {
		return m.deleteFn(ctx, followerID, followingID)
	}
	return nil
}

func (m *mockFollowRepository) Exists(ctx context.Context, followerID, followingID int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, followerID, followingID)
	}
	return false, nil
}

func (m *mockFollowRepository) IsMutual(ctx context.Context, a, b int64) (bool, error) {
	if m.isMutualFn != nil {
		return m.isMutualFn(ctx, a, b)
	}
	return false, nil
}

func (m *mockFollowRepository) ListFollowers(ctx context.Context, userID int64) ([]model.FollowUser, error) {
	if m.listFollowersFn != nil {
		return m.listFollowersFn(ctx, userID)
	}
	return []model.FollowUser{}, nil
}

func (m *mockFollowRepository) ListFollowing(ctx context.Context, userID int64) ([]model.FollowUser, error) {
	if m.listFollowingFn != nil {
		return m.listFollowingFn(ctx, userID)
	}
	return []model.FollowUser{}, nil
}

func (m *mockFollowRepository) GetFollowingIDs(ctx context.Context, userID int64) ([]int64, error) {
	if m.getFollowingIDsFn != nil {
		return m.getFollowingIDsFn(ctx, userID)
	}
	return []int64{}, nil
}

type mockLikeRepository struct {
	likeFn   func(ctx context.Context, userID, songID int64) (int, error)
	unlikeFn func(ctx context.Context, userID, songID int64) (int, error)
	existsFn func(ctx context.Context, userID, songID int64) (bool, error)
}

func (m *mockLikeRepository) Like(ctx context.Context, userID, songID int64) (int, error) {
	if m.likeFn != nil {
		return m.likeFn(ctx, userID, songID)
	}
	return 1, nil
}

func (m *mockLikeRepository) Unlike(ctx context.Context, userID, songID int64) (int, error) {
	if m.unlikeFn != nil {
		return m.unlikeFn(ctx, userID, songID)
	}
	return 0, nil
}

func (m *mockLikeRepository) Exists(ctx context.Context, userID, songID int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, userID, songID)
	}
	return false, nil
}

type mockCommentRepository struct {
	createFn        func(ctx context.Context, c *model.Comment) error
	getByIDFn       func(ctx context.Context, id int64) (*model.Comment, error)
	deleteFn        func(ctx context.Context, id int64) error
	listTopLevelFn  func(ctx context.Context, songID int64, limit, offset int) ([]model.Comment, error)
	countTopLevelFn func(ctx context.Context, songID int64) (int, error)
	listRepliesFn   func(ctx context.Context, parentIDs []int64) (map[int64][]model.Comment, error)
	likeCommentFn   func(ctx context.Context, userID, commentID int64) (int, error)
	unlikeCommentFn func(ctx context.Context, userID, commentID int64) (int, error)

	deleteCalls []int64
}

func (m *mockCommentRepository) Create(ctx context.Context, c *model.Comment) error {
	if m.createFn != nil {
		return m.createFn(ctx, c)
	}
	c.ID = 1
	return nil
}

func (m *mockCommentRepository) GetByID(ctx context.Context, id int64) (*model.Comment, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrCommentNotFound
}

func (m *mockCommentRepository) Delete(ctx context.Context, id int64) error {
	m.deleteCalls = append(m.deleteCalls, id)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockCommentRepository) ListTopLevel(ctx context.Context, songID int64, limit, offset int) ([]model.Comment, error) {
	if m.listTopLevelFn != nil {
		return m.listTopLevelFn(ctx, songID, limit, offset)
	}
	return []model.Comment{}, nil
}

func (m *mockCommentRepository) CountTopLevel(ctx context.Context, songID int64) (int, error) {
	if m.countTopLevelFn != nil {
		return m.countTopLevelFn(ctx, songID)
	}
	return 0, nil
}

func (m *mockCommentRepository) ListReplies(ctx context.Context, parentIDs []int64) (map[int64][]model.Comment, error) {
	if m.listRepliesFn != nil {
		return m.listRepliesFn(ctx, parentIDs)
	}
	return map[int64][]model.Comment{}, nil
}

func (m *mockCommentRepository) LikeComment(ctx context.Context, userID, commentID int64) (int, error) {
	if m.likeCommentFn != nil {
		return m.likeCommentFn(ctx, userID, commentID)
	}
	return 1, nil
}

func (m *mockCommentRepository) UnlikeComment(ctx context.Context, userID, commentID int64) (int, error) {
	if m.unlikeCommentFn != nil {
		return m.unlikeCommentFn(ctx, userID, commentID)
	}
	return 0, nil
}

type mockMessageRepository struct {
	createFn               func(ctx context.Context, msg *model.Message) error
	getByIDFn              func(ctx context.Context, id int64) (*model.Message, error)
	listBetweenFn          func(ctx context.Context, a, b int64, limit, offset int) ([]model.Message, error)
	countBetweenFn         func(ctx context.Context, a, b int64) (int, error)
	latestPerPartnerFn     func(ctx context.Context, userID int64) ([]model.Message, error)
	unreadCountsBySenderFn func(ctx context.Context, receiverID int64) (map[int64]int, error)
	unreadTotalFn          func(ctx context.Context, receiverID int64) (int, error)
	markReadFn             func(ctx context.Context, messageID int64) error
	markConversationReadFn func(ctx context.Context, receiverID, senderID int64) (int64, error)
	deleteFn               func(ctx context.Context, messageID int64) error

	createCalls []*model.Message
}

func (m *mockMessageRepository) Create(ctx context.Context, msg *model.Message) error {
	m.createCalls = append(m.createCalls, msg)
	if m.createFn != nil {
		return m.createFn(ctx, msg)
	}
	msg.ID = 1
	return nil
}

func (m *mockMessageRepository) GetByID(ctx context.Context, id int64) (*model.Message, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrMessageNotFound
}

func (m *mockMessageRepository) ListBetween(ctx context.Context, a, b int64, limit, offset int) ([]model.Message, error) {
	if m.listBetweenFn != nil {
		return m.listBetweenFn(ctx, a, b, limit, offset)
	}
	return []model.Message{}, nil
}

func (m *mockMessageRepository) CountBetween(ctx context.Context, a, b int64) (int, error) {
	if m.countBetweenFn != nil {
		return m.countBetweenFn(ctx, a, b)
	}
	return 0, nil
}

func (m *mockMessageRepository) LatestPerPartner(ctx context.Context, userID int64) ([]model.Message, error) {
	if m.latestPerPartnerFn != nil {
		return m.latestPerPartnerFn(ctx, userID)
	}
	return []model.Message{}, nil
}

func (m *mockMessageRepository) UnreadCountsBySender(ctx context.Context, receiverID int64) (map[int64]int, error) {
	if m.unreadCountsBySenderFn != nil {
		return m.unreadCountsBySenderFn(ctx, receiverID)
	}
	return map[int64]int{}, nil
}

func (m *mockMessageRepository) UnreadTotal(ctx context.Context, receiverID int64) (int, error) {
	if m.unreadTotalFn != nil {
		return m.unreadTotalFn(ctx, receiverID)
	}
	return 0, nil
}

func (m *mockMessageRepository) MarkRead(ctx context.Context, messageID int64) error {
	if m.markReadFn != nil {
		return m.markReadFn(ctx, messageID)
	}
	return nil
}

func (m *mockMessageRepository) MarkConversationRead(ctx context.Context, receiverID, senderID int64) (int64, error) {
	if m.markConversationReadFn != nil {
		return m.markConversationReadFn(ctx, receiverID, senderID)
	}
	return 0, nil
}

func (m *mockMessageRepository) Delete(ctx context.Context, messageID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, messageID)
	}
	return nil
}

type mockBehaviorRepository struct {
	insertFn          func(ctx context.Context, entry *model.BehaviorLog) error
	listActivitiesFn  func(ctx context.Context, userIDs []int64, limit, offset int) ([]model.BehaviorLog, error)
	countActivitiesFn func(ctx context.Context, userIDs []int64) (int, error)

	insertCalls []*model.BehaviorLog
}

func (m *mockBehaviorRepository) Insert(ctx context.Context, entry *model.BehaviorLog) error {
	m.insertCalls = append(m.insertCalls, entry)
	if m.insertFn != nil {
		return m.insertFn(ctx, entry)
	}
	return nil
}

func (m *mockBehaviorRepository) ListActivities(ctx context.Context, userIDs []int64, limit, offset int) ([]model.BehaviorLog, error) {
	if m.listActivitiesFn != nil {
		return m.listActivitiesFn(ctx, userIDs, limit, offset)
	}
	return []model.BehaviorLog{}, nil
}

func (m *mockBehaviorRepository) CountActivities(ctx context.Context, userIDs []int64) (int, error) {
	if m.countActivitiesFn != nil {
		return m.countActivitiesFn(ctx, userIDs)
	}
	return 0, nil
}

type mockPlayHistoryRepository struct {
	createFn    func(ctx context.Context, ph *model.PlayHistory) error
	createCalls []*model.PlayHistory
}

func (m *mockPlayHistoryRepository) Create(ctx context.Context, ph *model.PlayHistory) error {
	m.createCalls = append(m.createCalls, ph)
	if m.createFn != nil {
		return m.createFn(ctx, ph)
	}
	return nil
}

type mockPublisher struct {
	publishFn    func(ctx context.Context, channel string, event notify.Event) error
	publishCalls []publishCall
}

type publishCall struct {
	Channel string
	Event   notify.Event
}

func (m *mockPublisher) Publish(ctx context.Context, channel string, event notify.Event) error {
	m.publishCalls = append(m.publishCalls, publishCall{Channel: channel, Event: event})
	if m.publishFn != nil {
		return m.publishFn(ctx, channel, event)
	}
	return nil
}

type mockUnreadCache struct {
	incrementFn  func(ctx context.Context, userID int64) error
	getFn        func(ctx context.Context, userID int64) (int64, bool, error)
	setFn        func(ctx context.Context, userID int64, count int64) error
	invalidateFn func(ctx context.Context, userID int64) error

	incrementCalls  []int64
	setCalls        []int64
	invalidateCalls []int64
}

func (m *mockUnreadCache) Increment(ctx context.Context, userID int64) error {
	m.incrementCalls = append(m.incrementCalls, userID)
	if m.incrementFn != nil {
		return m.incrementFn(ctx, userID)
	}
	return nil
}

func (m *mockUnreadCache) Get(ctx context.Context, userID int64) (int64, bool, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID)
	}
	return 0, false, nil
}

func (m *mockUnreadCache) Set(ctx context.Context, userID int64, count int64) error {
	m.setCalls = append(m.setCalls, userID)
	if m.setFn != nil {
		return m.setFn(ctx, userID, count)
	}
	return nil
}

func (m *mockUnreadCache) Invalidate(ctx context.Context, userID int64) error {
	m.invalidateCalls = append(m.invalidateCalls, userID)
	if m.invalidateFn != nil {
		return m.invalidateFn(ctx, userID)
	}
	return nil
}
