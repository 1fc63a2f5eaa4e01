package repository

import (
	"context"
	"errors"
	"fmt"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

const duplicateCategoryMessage = "category already exists."

// CategoryRepository defines persistence operations for post categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	// GetByPostAndName fails with NotFound when the post has no such category.
	GetByPostAndName(ctx context.Context, postID uint, name string) (*models.Category, error)
	Exists(ctx context.Context, postID uint, name string) (bool, error)
	Delete(ctx context.Context, id uint) error
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository returns a new CategoryRepository implementation.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := writer(ctx, r.db).Create(category).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError(models.CodeDuplicateCategory, duplicateCategoryMessage)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *categoryRepository) GetByPostAndName(ctx context.Context, postID uint, name string) (*models.Category, error) {
	var category models.Category
	err := reader(ctx, r.db).Where("post_id = ? AND name = ?", postID, name).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &models.AppError{
			Code:    models.CodeNotFound,
			Message: fmt.Sprintf("category %q does not exist on post %d", name, postID),
		}
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &category, nil
}

func (r *categoryRepository) Exists(ctx context.Context, postID uint, name string) (bool, error) {
	var count int64
	err := reader(ctx, r.db).Model(&models.Category{}).
		Where("post_id = ? AND name = ?", postID, name).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	if err := writer(ctx, r.db).Delete(&models.Category{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
