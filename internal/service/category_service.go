package service

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

type CategoryService struct {
	posts      repository.PostRepository
	categories repository.CategoryRepository
	tx         repository.Transactor
}

// CategoryName decodes only from a JSON string.
type CategoryName string

func (n *CategoryName) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*n = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return models.NewInvalidCategoryTypeError("The 'category' field must be a string")
	}
	*n = CategoryName(s)
	return nil
}

type CategoryInput struct {
	Category CategoryName `json:"category"`
}

func (in CategoryInput) name() (string, error) {
	name := strings.TrimSpace(string(in.Category))
	if name == "" {
		return "", models.NewMissingFieldError("category")
	}
	if utf8.RuneCountInString(name) > maxCategoryLen {
		return "", models.NewFieldTooLongError("category", maxCategoryLen)
	}
	return name, nil
}

const notPostOwner = "you are not the owner of this blog post"

func NewCategoryService(
	posts repository.PostRepository,
	categories repository.CategoryRepository,
	tx repository.Transactor,
) *CategoryService {
	return &CategoryService{posts: posts, categories: categories, tx: tx}
}

func (s *CategoryService) AddCategory(ctx context.Context, actorID, postID uint, in CategoryInput) (*models.Category, error) {
	name, err := in.name()
	if err != nil {
		return nil, err
	}
	category := &models.Category{Name: name, PostID: postID}

	_, err = Mutate(ctx, s.tx, actorID, Mutation[*models.Post]{
		Resource: "category",
		Action:   "create",
		ID:       postID,
		Denied:   notPostOwner,
		Lookup:   s.lookupPost(postID),
		Apply: func(ctx context.Context, _ *models.Post) error {
			exists, err := s.categories.Exists(ctx, postID, name)
			if err != nil {
				return err
			}
			if exists {
				return models.NewConflictError(models.CodeDuplicateCategory, duplicateCategory)
			}
			return s.categories.Create(ctx, category)
		},
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) RemoveCategory(ctx context.Context, actorID, postID uint, in CategoryInput) error {
	name, err := in.name()
	if err != nil {
		return err
	}
	_, err = Mutate(ctx, s.tx, actorID, Mutation[*models.Post]{
		Resource: "category",
		Action:   "delete",
		ID:       postID,
		Denied:   notPostOwner,
		Lookup:   s.lookupPost(postID),
		Apply: func(ctx context.Context, _ *models.Post) error {
			category, err := s.categories.GetByPostAndName(ctx, postID, name)
			if err != nil {
				return err
			}
			return s.categories.Delete(ctx, category.ID)
		},
	})
	return err
}

func (s *CategoryService) lookupPost(id uint) func(context.Context) (*models.Post, error) {
	return func(ctx context.Context) (*models.Post, error) {
		return s.posts.GetByID(ctx, id)
	}
}

const duplicateCategory = "category already exists."
