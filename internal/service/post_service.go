package service

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

const (
	maxTitleLen    = 50
	maxContentLen  = 5000
	maxCategoryLen = 100
)

type PostService struct {
	posts    repository.PostRepository
	users    repository.UserRepository
	tx       repository.Transactor
	enricher *Enricher
}

// CategoryNames decodes from either a JSON string or a list of strings.
type CategoryNames []string

func (n *CategoryNames) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*n = nil
		return nil
	}
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		*n = CategoryNames{v}
	case []interface{}:
		names := make(CategoryNames, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return models.NewInvalidCategoryTypeError("'categories' list must contain strings")
			}
			names = append(names, s)
		}
		*n = names
	default:
		return models.NewInvalidCategoryTypeError("The 'categories' field must be a string or list")
	}
	return nil
}

type CreatePostInput struct {
	AuthorID   uint          `json:"-"`
	Title      string        `json:"post_title" validate:"required,max=50"`
	Content    string        `json:"post_content" validate:"required,max=5000"`
	Categories CategoryNames `json:"categories"`
}

// UpdatePostInput changes only the fields that are set.
type UpdatePostInput struct {
	Title   *string `json:"post_title"`
	Content *string `json:"post_content"`
}

func NewPostService(
	posts repository.PostRepository,
	users repository.UserRepository,
	tx repository.Transactor,
	enricher *Enricher,
) *PostService {
	return &PostService{posts: posts, users: users, tx: tx, enricher: enricher}
}

func (s *PostService) ListPosts(ctx context.Context) ([]models.PostView, error) {
	posts, err := s.posts.ListDetailed(ctx)
	if err != nil {
		return nil, err
	}
	return s.enricher.PostViews(ctx, posts)
}

func (s *PostService) ListCompact(ctx context.Context) ([]models.CompactPostView, error) {
	posts, err := s.posts.ListCompact(ctx)
	if err != nil {
		return nil, err
	}
	return s.enricher.CompactViews(posts), nil
}

func (s *PostService) GetPost(ctx context.Context, id uint) (models.PostView, error) {
	post, err := s.posts.GetDetailed(ctx, id)
	if err != nil {
		return models.PostView{}, err
	}
	return s.enricher.PostView(ctx, post)
}

// ListByCategory matches query as a case-insensitive substring of any category name.
func (s *PostService) ListByCategory(ctx context.Context, query string) ([]models.PostView, error) {
	posts, err := s.posts.ListDetailedByCategory(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.enricher.PostViews(ctx, posts)
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	categories, err := normalizeCategories(in.Categories)
	if err != nil {
		return nil, err
	}

	post := &models.Post{Title: in.Title, Content: in.Content, AuthorID: in.AuthorID}
	for _, name := range categories {
		post.Categories = append(post.Categories, models.Category{Name: name})
	}

	_, err = Mutate(ctx, s.tx, in.AuthorID, Mutation[*models.User]{
		Resource: "post",
		Action:   "create",
		ID:       in.AuthorID,
		Lookup:   s.actingUser(in.AuthorID),
		Owns:     anyActor[*models.User],
		Apply: func(ctx context.Context, _ *models.User) error {
			return s.posts.Create(ctx, post)
		},
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) UpdatePost(ctx context.Context, actorID, postID uint, in UpdatePostInput) (*models.Post, error) {
	return Mutate(ctx, s.tx, actorID, Mutation[*models.Post]{
		Resource: "post",
		Action:   "update",
		ID:       postID,
		Lookup:   s.lookupPost(postID),
		Apply: func(ctx context.Context, post *models.Post) error {
			if !present(in.Title) && !present(in.Content) {
				return &models.AppError{
					Code:    models.CodeMissingField,
					Message: "The 'post_title' and/or 'post_content' field is required",
				}
			}
			if present(in.Title) {
				if utf8.RuneCountInString(*in.Title) > maxTitleLen {
					return models.NewFieldTooLongError("post_title", maxTitleLen)
				}
				post.Title = *in.Title
			}
			if present(in.Content) {
				if utf8.RuneCountInString(*in.Content) > maxContentLen {
					return models.NewFieldTooLongError("post_content", maxContentLen)
				}
				post.Content = *in.Content
			}
			post.UpdatedAt = time.Now()
			return s.posts.Update(ctx, post)
		},
	})
}

// DeletePost removes the post with its comments, categories and likes.
func (s *PostService) DeletePost(ctx context.Context, actorID, postID uint) (*models.Post, error) {
	return Mutate(ctx, s.tx, actorID, Mutation[*models.Post]{
		Resource: "post",
		Action:   "delete",
		ID:       postID,
		Lookup:   s.lookupPost(postID),
		Apply: func(ctx context.Context, post *models.Post) error {
			return s.posts.Delete(ctx, post.ID)
		},
	})
}

func (s *PostService) lookupPost(id uint) func(context.Context) (*models.Post, error) {
	return func(ctx context.Context) (*models.Post, error) {
		return s.posts.GetByID(ctx, id)
	}
}

// actingUser loads the token's user; a deleted account can no longer act.
func (s *PostService) actingUser(id uint) func(context.Context) (*models.User, error) {
	return func(ctx context.Context) (*models.User, error) {
		return actingUser(ctx, s.users, id)
	}
}

func actingUser(ctx context.Context, users repository.UserRepository, id uint) (*models.User, error) {
	user, err := users.GetByID(ctx, id)
	if models.HasCode(err, models.CodeNotFound) {
		return nil, models.NewUnauthorizedError("account no longer exists")
	}
	return user, err
}

// normalizeCategories trims names, drops empty ones and collapses duplicates
// while keeping first-seen order.
func normalizeCategories(in CategoryNames) ([]string, error) {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, name := range in {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if utf8.RuneCountInString(name) > maxCategoryLen {
			return nil, models.NewFieldTooLongError("categories", maxCategoryLen)
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out, nil
}
