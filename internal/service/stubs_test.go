package service

import (
	"context"
	"errors"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// txMock runs fn directly and records each transaction opened.
type txMock struct {
	mock.Mock
}

func (m *txMock) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}

func newTx() *txMock {
	tx := &txMock{}
	tx.On("WithinTransaction", mock.Anything).Return(nil)
	return tx
}

// userRepoStub is a stub for repository.UserRepository. Unset functions
// behave as an empty store.
type userRepoStub struct {
	getByIDFn    func(context.Context, uint) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
	createFn     func(context.Context, *models.User) error
	updateFn     func(context.Context, *models.User) error
	deleteFn     func(context.Context, uint) error
	listFn       func(context.Context) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if s.getByIDFn == nil {
		return nil, models.NewNotFoundError("User", id)
	}
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.getByEmailFn == nil {
		return nil, nil
	}
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, u *models.User) error {
	if s.createFn == nil {
		u.ID = 1
		return nil
	}
	return s.createFn(ctx, u)
}
func (s *userRepoStub) Update(ctx context.Context, u *models.User) error {
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(ctx, u)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context) ([]models.User, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

// activeUsers finds every user ID.
func activeUsers() *userRepoStub {
	return &userRepoStub{getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id}, nil
	}}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn         func(context.Context, *models.Post) error
	getByIDFn        func(context.Context, uint) (*models.Post, error)
	getDetailedFn    func(context.Context, uint) (*models.Post, error)
	listDetailedFn   func(context.Context) ([]models.Post, error)
	listByCategoryFn func(context.Context, string) ([]models.Post, error)
	listCompactFn    func(context.Context) ([]models.Post, error)
	listByAuthorFn   func(context.Context, uint) ([]models.Post, error)
	updateFn         func(context.Context, *models.Post) error
	deleteFn         func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, p *models.Post) error {
	if s.createFn == nil {
		p.ID = 1
		return nil
	}
	return s.createFn(ctx, p)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	if s.getByIDFn == nil {
		return nil, models.NewNotFoundError("Post", id)
	}
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) GetDetailed(ctx context.Context, id uint) (*models.Post, error) {
	if s.getDetailedFn == nil {
		return nil, models.NewNotFoundError("Post", id)
	}
	return s.getDetailedFn(ctx, id)
}
func (s *postRepoStub) ListDetailed(ctx context.Context) ([]models.Post, error) {
	if s.listDetailedFn == nil {
		return nil, nil
	}
	return s.listDetailedFn(ctx)
}
func (s *postRepoStub) ListDetailedByCategory(ctx context.Context, q string) ([]models.Post, error) {
	if s.listByCategoryFn == nil {
		return nil, nil
	}
	return s.listByCategoryFn(ctx, q)
}
func (s *postRepoStub) ListCompact(ctx context.Context) ([]models.Post, error) {
	if s.listCompactFn == nil {
		return nil, nil
	}
	return s.listCompactFn(ctx)
}
func (s *postRepoStub) ListByAuthor(ctx context.Context, id uint) ([]models.Post, error) {
	if s.listByAuthorFn == nil {
		return nil, nil
	}
	return s.listByAuthorFn(ctx, id)
}
func (s *postRepoStub) Update(ctx context.Context, p *models.Post) error {
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(ctx, p)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, id)
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn       func(context.Context, *models.Comment) error
	getByIDFn      func(context.Context, uint) (*models.Comment, error)
	listByPostFn   func(context.Context, uint) ([]models.Comment, error)
	listByAuthorFn func(context.Context, uint) ([]models.Comment, error)
	updateFn       func(context.Context, *models.Comment) error
	deleteFn       func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	if s.createFn == nil {
		c.ID = 1
		return nil
	}
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	if s.getByIDFn == nil {
		return nil, models.NewNotFoundError("Comment", id)
	}
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, id uint) ([]models.Comment, error) {
	if s.listByPostFn == nil {
		return nil, nil
	}
	return s.listByPostFn(ctx, id)
}
func (s *commentRepoStub) ListByAuthor(ctx context.Context, id uint) ([]models.Comment, error) {
	if s.listByAuthorFn == nil {
		return nil, nil
	}
	return s.listByAuthorFn(ctx, id)
}
func (s *commentRepoStub) Update(ctx context.Context, c *models.Comment) error {
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(ctx, c)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, id)
}

// categoryRepoStub is a stub for repository.CategoryRepository.
type categoryRepoStub struct {
	createFn func(context.Context, *models.Category) error
	getFn    func(context.Context, uint, string) (*models.Category, error)
	existsFn func(context.Context, uint, string) (bool, error)
	deleteFn func(context.Context, uint) error
}

func (s *categoryRepoStub) Create(ctx context.Context, c *models.Category) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, c)
}
func (s *categoryRepoStub) GetByPostAndName(ctx context.Context, postID uint, name string) (*models.Category, error) {
	if s.getFn == nil {
		return nil, &models.AppError{Code: models.CodeNotFound, Message: "category does not exist"}
	}
	return s.getFn(ctx, postID, name)
}
func (s *categoryRepoStub) Exists(ctx context.Context, postID uint, name string) (bool, error) {
	if s.existsFn == nil {
		return false, nil
	}
	return s.existsFn(ctx, postID, name)
}
func (s *categoryRepoStub) Delete(ctx context.Context, id uint) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, id)
}

// likeRepoStub is a stub for repository.LikeRepository.
type likeRepoStub struct {
	createFn         func(context.Context, *models.Like) error
	findFn           func(context.Context, uint, models.LikeTarget) (*models.Like, error)
	deleteFn         func(context.Context, uint) error
	listByTargetFn   func(context.Context, models.LikeTarget) ([]models.Like, error)
	listByLikerFn    func(context.Context, uint) ([]models.Like, error)
	countForPosts    map[uint]int64
	countForComments map[uint]int64
	countForPostsErr error
}

func (s *likeRepoStub) Create(ctx context.Context, l *models.Like) error {
	if s.createFn == nil {
		l.ID = 1
		return nil
	}
	return s.createFn(ctx, l)
}
func (s *likeRepoStub) Find(ctx context.Context, likerID uint, t models.LikeTarget) (*models.Like, error) {
	if s.findFn == nil {
		return nil, &models.AppError{Code: models.CodeNotFound, Message: "like doesn't exist"}
	}
	return s.findFn(ctx, likerID, t)
}
func (s *likeRepoStub) Delete(ctx context.Context, id uint) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, id)
}
func (s *likeRepoStub) ListByTarget(ctx context.Context, t models.LikeTarget) ([]models.Like, error) {
	if s.listByTargetFn == nil {
		return nil, nil
	}
	return s.listByTargetFn(ctx, t)
}
func (s *likeRepoStub) ListByLiker(ctx context.Context, id uint) ([]models.Like, error) {
	if s.listByLikerFn == nil {
		return nil, nil
	}
	return s.listByLikerFn(ctx, id)
}
func (s *likeRepoStub) Count(_ context.Context, t models.LikeTarget) (int64, error) {
	if t.Kind == models.TargetComment {
		return s.countForComments[t.ID], nil
	}
	return s.countForPosts[t.ID], nil
}
func (s *likeRepoStub) CountForPosts(_ context.Context, ids []uint) (map[uint]int64, error) {
	if s.countForPostsErr != nil {
		return nil, s.countForPostsErr
	}
	return pick(s.countForPosts, ids), nil
}
func (s *likeRepoStub) CountForComments(_ context.Context, ids []uint) (map[uint]int64, error) {
	return pick(s.countForComments, ids), nil
}

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	createFn        func(context.Context, *models.Follow) error
	findFn          func(context.Context, uint, uint) (*models.Follow, error)
	deleteFn        func(context.Context, uint) error
	listFollowersFn func(context.Context, uint) ([]models.Follow, error)
	followerCounts  map[uint]int64
}

func (s *followRepoStub) Create(ctx context.Context, f *models.Follow) error {
	if s.createFn == nil {
		f.ID = 1
		return nil
	}
	return s.createFn(ctx, f)
}
func (s *followRepoStub) Find(ctx context.Context, follower, followed uint) (*models.Follow, error) {
	if s.findFn == nil {
		return nil, &models.AppError{Code: models.CodeNotFound, Message: "this follow doesn't exist"}
	}
	return s.findFn(ctx, follower, followed)
}
func (s *followRepoStub) Delete(ctx context.Context, id uint) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, id)
}
func (s *followRepoStub) ListFollowers(ctx context.Context, id uint) ([]models.Follow, error) {
	if s.listFollowersFn == nil {
		return nil, nil
	}
	return s.listFollowersFn(ctx, id)
}
func (s *followRepoStub) CountFollowers(_ context.Context, id uint) (int64, error) {
	return s.followerCounts[id], nil
}
func (s *followRepoStub) CountFollowersFor(_ context.Context, ids []uint) (map[uint]int64, error) {
	return pick(s.followerCounts, ids), nil
}

func pick(all map[uint]int64, ids []uint) map[uint]int64 {
	out := make(map[uint]int64)
	for _, id := range ids {
		if n, ok := all[id]; ok {
			out[id] = n
		}
	}
	return out
}

func ptr(s string) *string { return &s }

// assertCode asserts that err is an AppError carrying code.
func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code, appErr.Message)
}
