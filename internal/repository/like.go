package repository

import (
	"context"
	"errors"
	"fmt"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// LikeRepository defines persistence operations for likes.
type LikeRepository interface {
	Create(ctx context.Context, like *models.Like) error
	// Find returns likerID's like on target, or NotFound.
	Find(ctx context.Context, likerID uint, target models.LikeTarget) (*models.Like, error)
	Delete(ctx context.Context, id uint) error
	// ListByTarget returns the likes on target with likers loaded.
	ListByTarget(ctx context.Context, target models.LikeTarget) ([]models.Like, error)
	ListByLiker(ctx context.Context, likerID uint) ([]models.Like, error)
	Count(ctx context.Context, target models.LikeTarget) (int64, error)
	// CountForPosts and CountForComments return like counts keyed by target id;
	// ids without likes are absent.
	CountForPosts(ctx context.Context, postIDs []uint) (map[uint]int64, error)
	CountForComments(ctx context.Context, commentIDs []uint) (map[uint]int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository returns a new LikeRepository implementation.
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Create(ctx context.Context, like *models.Like) error {
	if err := writer(ctx, r.db).Create(like).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError(models.CodeAlreadyLiked, "Like already exists.")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *likeRepository) Find(ctx context.Context, likerID uint, target models.LikeTarget) (*models.Like, error) {
	var like models.Like
	err := reader(ctx, r.db).
		Where("liker_id = ? AND "+target.Column()+" = ?", likerID, target.ID).
		First(&like).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &models.AppError{
			Code:    models.CodeNotFound,
			Message: fmt.Sprintf("like doesn't exist on %s %d", target.Kind, target.ID),
		}
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &like, nil
}

func (r *likeRepository) Delete(ctx context.Context, id uint) error {
	if err := writer(ctx, r.db).Delete(&models.Like{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *likeRepository) ListByTarget(ctx context.Context, target models.LikeTarget) ([]models.Like, error) {
	var likes []models.Like
	err := reader(ctx, r.db).
		Preload("Liker").
		Where(target.Column()+" = ?", target.ID).
		Order("id ASC").
		Find(&likes).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return likes, nil
}

func (r *likeRepository) ListByLiker(ctx context.Context, likerID uint) ([]models.Like, error) {
	var likes []models.Like
	if err := reader(ctx, r.db).Where("liker_id = ?", likerID).Order("id ASC").Find(&likes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return likes, nil
}

func (r *likeRepository) Count(ctx context.Context, target models.LikeTarget) (int64, error) {
	var count int64
	err := reader(ctx, r.db).Model(&models.Like{}).
		Where(target.Column()+" = ?", target.ID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *likeRepository) CountForPosts(ctx context.Context, postIDs []uint) (map[uint]int64, error) {
	return countBy(reader(ctx, r.db), &models.Like{}, "post_id", postIDs)
}

func (r *likeRepository) CountForComments(ctx context.Context, commentIDs []uint) (map[uint]int64, error) {
	return countBy(reader(ctx, r.db), &models.Like{}, "comment_id", commentIDs)
}
