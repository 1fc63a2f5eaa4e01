package service

import (
	"context"
	"time"
	"unicode/utf8"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

const maxCommentLen = 500

type CommentService struct {
	activityFeed
	comments repository.CommentRepository
	posts    repository.PostRepository
	users    repository.UserRepository
	tx       repository.Transactor
	enricher *Enricher
}

type CreateCommentInput struct {
	AuthorID uint   `json:"-"`
	PostID   uint   `json:"-"`
	Text     string `json:"comment_text" validate:"required,max=500"`
}

type UpdateCommentInput struct {
	Text *string `json:"comment_text"`
}

func NewCommentService(
	comments repository.CommentRepository,
	posts repository.PostRepository,
	users repository.UserRepository,
	tx repository.Transactor,
	enricher *Enricher,
) *CommentService {
	return &CommentService{comments: comments, posts: posts, users: users, tx: tx, enricher: enricher}
}

// ListComments fails with NotFound when the post does not exist.
func (s *CommentService) ListComments(ctx context.Context, postID uint) ([]models.CommentView, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.enricher.CommentViews(ctx, comments)
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	comment := &models.Comment{Text: in.Text, AuthorID: in.AuthorID, PostID: in.PostID}

	// Anyone may comment on any existing post.
	post, err := Mutate(ctx, s.tx, in.AuthorID, Mutation[*models.Post]{
		Resource: "comment",
		Action:   "create",
		ID:       in.PostID,
		Lookup: func(ctx context.Context) (*models.Post, error) {
			if _, err := actingUser(ctx, s.users, in.AuthorID); err != nil {
				return nil, err
			}
			return s.posts.GetByID(ctx, in.PostID)
		},
		Owns: anyActor[*models.Post],
		Apply: func(ctx context.Context, _ *models.Post) error {
			return s.comments.Create(ctx, comment)
		},
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, post.AuthorID, models.Activity{
		Type:      models.ActivityCommentCreated,
		ActorID:   in.AuthorID,
		PostID:    post.ID,
		CommentID: comment.ID,
	})
	return comment, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, actorID, commentID uint, in UpdateCommentInput) (*models.Comment, error) {
	return Mutate(ctx, s.tx, actorID, Mutation[*models.Comment]{
		Resource: "comment",
		Action:   "update",
		ID:       commentID,
		Lookup:   s.lookupComment(commentID),
		Apply: func(ctx context.Context, comment *models.Comment) error {
			if !present(in.Text) {
				return models.NewMissingFieldError("comment_text")
			}
			if utf8.RuneCountInString(*in.Text) > maxCommentLen {
				return models.NewFieldTooLongError("comment_text", maxCommentLen)
			}
			comment.Text = *in.Text
			comment.UpdatedAt = time.Now()
			return s.comments.Update(ctx, comment)
		},
	})
}

// DeleteComment removes the comment and the likes on it.
func (s *CommentService) DeleteComment(ctx context.Context, actorID, commentID uint) (*models.Comment, error) {
	return Mutate(ctx, s.tx, actorID, Mutation[*models.Comment]{
		Resource: "comment",
		Action:   "delete",
		ID:       commentID,
		Lookup:   s.lookupComment(commentID),
		Apply: func(ctx context.Context, comment *models.Comment) error {
			return s.comments.Delete(ctx, comment.ID)
		},
	})
}

func (s *CommentService) lookupComment(id uint) func(context.Context) (*models.Comment, error) {
	return func(ctx context.Context) (*models.Comment, error) {
		return s.comments.GetByID(ctx, id)
	}
}
