package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

type LikeService struct {
	activityFeed
	likes    repository.LikeRepository
	posts    repository.PostRepository
	comments repository.CommentRepository
	users    repository.UserRepository
	tx       repository.Transactor
}

func NewLikeService(
	likes repository.LikeRepository,
	posts repository.PostRepository,
	comments repository.CommentRepository,
	users repository.UserRepository,
	tx repository.Transactor,
) *LikeService {
	return &LikeService{likes: likes, posts: posts, comments: comments, users: users, tx: tx}
}

// Likers lists who liked target, oldest like first.
func (s *LikeService) Likers(ctx context.Context, target models.LikeTarget) ([]models.LikerView, error) {
	likes, err := s.likes.ListByTarget(ctx, target)
	if err != nil {
		return nil, err
	}
	views := make([]models.LikerView, 0, len(likes))
	for _, l := range likes {
		views = append(views, models.LikerView{
			LikeID:    l.ID,
			LikerInfo: models.AuthorInfo{UserID: l.Liker.ID, Name: l.Liker.Name},
		})
	}
	return views, nil
}

// Like fails with NotFound for a missing target and AlreadyLiked when the
// actor already likes it.
func (s *LikeService) Like(ctx context.Context, actorID uint, target models.LikeTarget) (*models.Like, error) {
	like := &models.Like{LikerID: actorID}
	target.Apply(like)

	liked, err := Mutate(ctx, s.tx, actorID, Mutation[models.Ownable]{
		Resource: "like",
		Action:   "create",
		ID:       target.ID,
		Lookup:   s.lookupTarget(actorID, target),
		Owns:     anyActor[models.Ownable],
		Apply: func(ctx context.Context, _ models.Ownable) error {
			return s.likes.Create(ctx, like)
		},
	})
	if err != nil {
		return nil, err
	}

	activity := models.Activity{Type: models.ActivityPostLiked, ActorID: actorID, PostID: target.ID}
	if c, ok := liked.(*models.Comment); ok {
		activity = models.Activity{Type: models.ActivityCommentLiked, ActorID: actorID, PostID: c.PostID, CommentID: c.ID}
	}
	s.emit(ctx, liked.OwnerID(), activity)
	return like, nil
}

func (s *LikeService) Unlike(ctx context.Context, actorID uint, target models.LikeTarget) (*models.Like, error) {
	return Mutate(ctx, s.tx, actorID, Mutation[*models.Like]{
		Resource: "like",
		Action:   "delete",
		ID:       target.ID,
		Denied:   "you are not the creator of this like",
		Lookup: func(ctx context.Context) (*models.Like, error) {
			return s.likes.Find(ctx, actorID, target)
		},
		Apply: func(ctx context.Context, like *models.Like) error {
			return s.likes.Delete(ctx, like.ID)
		},
	})
}

func (s *LikeService) lookupTarget(actorID uint, target models.LikeTarget) func(context.Context) (models.Ownable, error) {
	return func(ctx context.Context) (models.Ownable, error) {
		if _, err := actingUser(ctx, s.users, actorID); err != nil {
			return nil, err
		}
		if target.Kind == models.TargetComment {
			return s.comments.GetByID(ctx, target.ID)
		}
		return s.posts.GetByID(ctx, target.ID)
	}
}
