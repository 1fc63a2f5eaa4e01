package service

import (
	"context"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeService_Like(t *testing.T) {
	comments := &commentRepoStub{getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
		return &models.Comment{ID: id, AuthorID: 9}, nil
	}}

	tests := []struct {
		name     string
		likes    *likeRepoStub
		target   models.LikeTarget
		actor    uint
		wantCode string
	}{
		{"unauthenticated", &likeRepoStub{}, models.PostTarget(1), 0, models.CodeUnauthorized},
		{"missing post", &likeRepoStub{}, models.PostTarget(99), 1, models.CodeNotFound},
		{
			name: "already liked",
			likes: &likeRepoStub{createFn: func(context.Context, *models.Like) error {
				return models.NewConflictError(models.CodeAlreadyLiked, "Like already exists.")
			}},
			target:   models.PostTarget(1),
			actor:    1,
			wantCode: models.CodeAlreadyLiked,
		},
		{"like own post", &likeRepoStub{}, models.PostTarget(1), 1, ""},
		{"like someone's comment", &likeRepoStub{}, models.CommentTarget(4), 1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts := &postRepoStub{getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
				if id == 99 {
					return nil, models.NewNotFoundError("Post", id)
				}
				return &models.Post{ID: id, AuthorID: 1}, nil
			}}
			svc := NewLikeService(tt.likes, posts, comments, activeUsers(), newTx())
			like, err := svc.Like(context.Background(), tt.actor, tt.target)
			if tt.wantCode != "" {
				assertCode(t, err, tt.wantCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.actor, like.LikerID)
			if tt.target.Kind == models.TargetComment {
				require.NotNil(t, like.CommentID)
				assert.Nil(t, like.PostID)
				assert.Equal(t, tt.target.ID, *like.CommentID)
			} else {
				require.NotNil(t, like.PostID)
				assert.Nil(t, like.CommentID)
			}
		})
	}
}

func TestLikeService_Unlike(t *testing.T) {
	var deleted uint
	likes := &likeRepoStub{
		findFn: func(_ context.Context, likerID uint, target models.LikeTarget) (*models.Like, error) {
			return &models.Like{ID: 12, LikerID: likerID}, nil
		},
		deleteFn: func(_ context.Context, id uint) error {
			deleted = id
			return nil
		},
	}
	svc := NewLikeService(likes, &postRepoStub{}, &commentRepoStub{}, activeUsers(), newTx())

	like, err := svc.Unlike(context.Background(), 3, models.PostTarget(1))
	require.NoError(t, err)
	assert.Equal(t, uint(12), like.ID)
	assert.Equal(t, uint(12), deleted)

	_, err = NewLikeService(&likeRepoStub{}, &postRepoStub{}, &commentRepoStub{}, activeUsers(), newTx()).
		Unlike(context.Background(), 3, models.PostTarget(1))
	assertCode(t, err, models.CodeNotFound)
}

func TestLikeService_Likers(t *testing.T) {
	likes := &likeRepoStub{listByTargetFn: func(context.Context, models.LikeTarget) ([]models.Like, error) {
		return []models.Like{{ID: 2, LikerID: 5, Liker: models.User{ID: 5, Name: "eve"}}}, nil
	}}
	views, err := NewLikeService(likes, nil, nil, activeUsers(), newTx()).Likers(context.Background(), models.PostTarget(1))
	require.NoError(t, err)
	assert.Equal(t, []models.LikerView{{LikeID: 2, LikerInfo: models.AuthorInfo{UserID: 5, Name: "eve"}}}, views)
}

func TestFollowService_Follow(t *testing.T) {
	users := &userRepoStub{getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
		if id == 99 {
			return nil, models.NewNotFoundError("User", id)
		}
		return &models.User{ID: id}, nil
	}}

	tests := []struct {
		name     string
		follows  *followRepoStub
		actor    uint
		followed uint
		wantCode string
	}{
		{"self", &followRepoStub{}, 2, 2, models.CodeSelfFollow},
		{"unauthenticated", &followRepoStub{}, 0, 2, models.CodeUnauthorized},
		{"missing user", &followRepoStub{}, 1, 99, models.CodeNotFound},
		{
			name: "already following",
			follows: &followRepoStub{createFn: func(context.Context, *models.Follow) error {
				return models.NewConflictError(models.CodeAlreadyFollowing, "You already follow this user")
			}},
			actor:    1,
			followed: 2,
			wantCode: models.CodeAlreadyFollowing,
		},
		{"ok", &followRepoStub{}, 1, 2, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			follow, err := NewFollowService(tt.follows, users, newTx()).Follow(context.Background(), tt.actor, tt.followed)
			if tt.wantCode != "" {
				assertCode(t, err, tt.wantCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.actor, follow.FollowerID)
			assert.Equal(t, tt.followed, follow.FollowedID)
		})
	}
}

func TestFollowService_UnfollowAndList(t *testing.T) {
	follows := &followRepoStub{
		findFn: func(_ context.Context, follower, followed uint) (*models.Follow, error) {
			return &models.Follow{ID: 8, FollowerID: follower, FollowedID: followed}, nil
		},
		listFollowersFn: func(_ context.Context, id uint) ([]models.Follow, error) {
			return []models.Follow{{ID: 8, FollowerID: 1, FollowedID: id, Follower: models.User{ID: 1, Name: "ada"}}}, nil
		},
	}
	svc := NewFollowService(follows, &userRepoStub{}, newTx())

	follow, err := svc.Unfollow(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, uint(8), follow.ID)

	_, err = NewFollowService(&followRepoStub{}, &userRepoStub{}, newTx()).Unfollow(context.Background(), 1, 2)
	assertCode(t, err, models.CodeNotFound)

	views, err := svc.Followers(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []models.FollowerView{{FollowID: 8, FollowerID: 1, FollowerName: "ada"}}, views)
}

func TestUserService_GetUser(t *testing.T) {
	users := &userRepoStub{getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Name: "ada", Email: "ada@example.com"}, nil
	}}
	postID := uint(3)
	likes := &likeRepoStub{listByLikerFn: func(context.Context, uint) ([]models.Like, error) {
		return []models.Like{{ID: 6, PostID: &postID}}, nil
	}}
	follows := &followRepoStub{listFollowersFn: func(context.Context, uint) ([]models.Follow, error) {
		return []models.Follow{{ID: 1, FollowerID: 2}, {ID: 2, FollowerID: 5}}, nil
	}}
	posts := &postRepoStub{listByAuthorFn: func(context.Context, uint) ([]models.Post, error) {
		return []models.Post{{ID: 3, Title: "hello"}}, nil
	}}
	svc := NewUserService(users, posts, &commentRepoStub{}, likes, follows, NewEnricher(likes, follows))

	view, err := svc.GetUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), view.FollowerCount)
	assert.Equal(t, []models.FollowRef{{FollowID: 1, FollowerID: 2}, {FollowID: 2, FollowerID: 5}}, view.Followers)
	require.Len(t, view.Likes, 1)
	assert.Nil(t, view.Likes[0].CommentID)
	assert.Equal(t, []models.PostRef{{PostID: 3, PostTitle: "hello"}}, view.BlogPosts)
}

func TestUserService_MissingUser(t *testing.T) {
	svc := NewUserService(&userRepoStub{}, &postRepoStub{}, &commentRepoStub{}, &likeRepoStub{}, &followRepoStub{},
		NewEnricher(&likeRepoStub{}, &followRepoStub{}))
	ctx := context.Background()

	_, err := svc.GetUser(ctx, 1)
	assertCode(t, err, models.CodeNotFound)
	_, err = svc.UserPosts(ctx, 1)
	assertCode(t, err, models.CodeNotFound)
	_, err = svc.UserComments(ctx, 1)
	assertCode(t, err, models.CodeNotFound)
	_, err = svc.UserLikes(ctx, 1)
	assertCode(t, err, models.CodeNotFound)
}

func TestUserService_ListUsers(t *testing.T) {
	users := &userRepoStub{listFn: func(context.Context) ([]models.User, error) {
		return []models.User{{ID: 1, Name: "ada"}, {ID: 2, Name: "bob"}}, nil
	}}
	follows := &followRepoStub{followerCounts: map[uint]int64{2: 1}}
	svc := NewUserService(users, nil, nil, nil, follows, NewEnricher(&likeRepoStub{}, follows))

	views, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, int64(0), views[0].FollowerCount)
	assert.Equal(t, int64(1), views[1].FollowerCount)
}

func TestDeletedAccountCannotEngage(t *testing.T) {
	// Only user 2 still exists.
	users := &userRepoStub{getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
		if id != 2 {
			return nil, models.NewNotFoundError("User", id)
		}
		return &models.User{ID: id}, nil
	}}
	likes := &likeRepoStub{createFn: func(context.Context, *models.Like) error {
		t.Fatal("like stored for a deleted account")
		return nil
	}}
	ctx := context.Background()

	_, err := NewLikeService(likes, existingPost(2), &commentRepoStub{}, users, newTx()).
		Like(ctx, 7, models.PostTarget(1))
	assertCode(t, err, models.CodeUnauthorized)
	assert.EqualError(t, err, "account no longer exists")

	_, err = NewCommentService(&commentRepoStub{}, existingPost(2), users, newTx(), nil).
		CreateComment(ctx, CreateCommentInput{AuthorID: 7, PostID: 1, Text: "hi"})
	assertCode(t, err, models.CodeUnauthorized)

	_, err = NewFollowService(&followRepoStub{}, users, newTx()).Follow(ctx, 7, 2)
	assertCode(t, err, models.CodeUnauthorized)
}
