package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

type FollowService struct {
	activityFeed
	follows repository.FollowRepository
	users   repository.UserRepository
	tx      repository.Transactor
}

func NewFollowService(
	follows repository.FollowRepository,
	users repository.UserRepository,
	tx repository.Transactor,
) *FollowService {
	return &FollowService{follows: follows, users: users, tx: tx}
}

func (s *FollowService) Followers(ctx context.Context, userID uint) ([]models.FollowerView, error) {
	follows, err := s.follows.ListFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]models.FollowerView, 0, len(follows))
	for _, f := range follows {
		views = append(views, models.FollowerView{
			FollowID:     f.ID,
			FollowerID:   f.FollowerID,
			FollowerName: f.Follower.Name,
		})
	}
	return views, nil
}

func (s *FollowService) Follow(ctx context.Context, actorID, followedID uint) (*models.Follow, error) {
	if actorID != 0 && actorID == followedID {
		return nil, &models.AppError{Code: models.CodeSelfFollow, Message: "You can't follow yourself"}
	}
	follow := &models.Follow{FollowerID: actorID, FollowedID: followedID}

	_, err := Mutate(ctx, s.tx, actorID, Mutation[*models.User]{
		Resource: "follow",
		Action:   "create",
		ID:       followedID,
		Lookup: func(ctx context.Context) (*models.User, error) {
			if _, err := actingUser(ctx, s.users, actorID); err != nil {
				return nil, err
			}
			return s.users.GetByID(ctx, followedID)
		},
		Owns: anyActor[*models.User],
		Apply: func(ctx context.Context, _ *models.User) error {
			return s.follows.Create(ctx, follow)
		},
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, followedID, models.Activity{Type: models.ActivityUserFollowed, ActorID: actorID})
	return follow, nil
}

func (s *FollowService) Unfollow(ctx context.Context, actorID, followedID uint) (*models.Follow, error) {
	return Mutate(ctx, s.tx, actorID, Mutation[*models.Follow]{
		Resource: "follow",
		Action:   "delete",
		ID:       followedID,
		Denied:   "you are not the creator of this follow",
		Lookup: func(ctx context.Context) (*models.Follow, error) {
			return s.follows.Find(ctx, actorID, followedID)
		},
		Apply: func(ctx context.Context, follow *models.Follow) error {
			return s.follows.Delete(ctx, follow.ID)
		},
	})
}
