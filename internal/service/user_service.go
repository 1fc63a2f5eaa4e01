package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"golang.org/x/sync/errgroup"
)

// UserService serves the read-only user views.
type UserService struct {
	users    repository.UserRepository
	posts    repository.PostRepository
	comments repository.CommentRepository
	likes    repository.LikeRepository
	follows  repository.FollowRepository
	enricher *Enricher
}

func NewUserService(
	users repository.UserRepository,
	posts repository.PostRepository,
	comments repository.CommentRepository,
	likes repository.LikeRepository,
	follows repository.FollowRepository,
	enricher *Enricher,
) *UserService {
	return &UserService{
		users:    users,
		posts:    posts,
		comments: comments,
		likes:    likes,
		follows:  follows,
		enricher: enricher,
	}
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.UserSummaryView, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.enricher.UserSummaries(ctx, users)
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.UserDetailView, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var (
		follows []models.Follow
		likes   []models.Like
		posts   []models.Post
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		follows, err = s.follows.ListFollowers(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		likes, err = s.likes.ListByLiker(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		posts, err = s.posts.ListByAuthor(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view := &models.UserDetailView{
		UserID:        user.ID,
		Name:          user.Name,
		Email:         user.Email,
		FollowerCount: int64(len(follows)),
		Followers:     make([]models.FollowRef, 0, len(follows)),
		Likes:         LikeRefs(likes),
		BlogPosts:     make([]models.PostRef, 0, len(posts)),
	}
	for _, f := range follows {
		view.Followers = append(view.Followers, models.FollowRef{FollowID: f.ID, FollowerID: f.FollowerID})
	}
	for _, p := range posts {
		view.BlogPosts = append(view.BlogPosts, models.PostRef{PostID: p.ID, PostTitle: p.Title})
	}
	return view, nil
}

func (s *UserService) UserPosts(ctx context.Context, id uint) ([]models.UserPostView, error) {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return nil, err
	}
	posts, err := s.posts.ListByAuthor(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.enricher.UserPostViews(ctx, posts)
}

func (s *UserService) UserComments(ctx context.Context, id uint) ([]models.UserCommentView, error) {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByAuthor(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.enricher.UserCommentViews(ctx, comments)
}

func (s *UserService) UserLikes(ctx context.Context, id uint) ([]models.LikeRef, error) {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return nil, err
	}
	likes, err := s.likes.ListByLiker(ctx, id)
	if err != nil {
		return nil, err
	}
	return LikeRefs(likes), nil
}
