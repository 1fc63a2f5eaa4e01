package repository

import (
	"context"
	"errors"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// FollowRepository defines persistence operations for follow edges.
type FollowRepository interface {
	Create(ctx context.Context, follow *models.Follow) error
	// Find returns the edge followerID -> followedID, or NotFound.
	Find(ctx context.Context, followerID, followedID uint) (*models.Follow, error)
	Delete(ctx context.Context, id uint) error
	// ListFollowers returns the edges pointing at userID with followers loaded.
	ListFollowers(ctx context.Context, userID uint) ([]models.Follow, error)
	CountFollowers(ctx context.Context, userID uint) (int64, error)
	// CountFollowersFor returns follower counts keyed by user id; users
	// without followers are absent.
	CountFollowersFor(ctx context.Context, userIDs []uint) (map[uint]int64, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository returns a new FollowRepository implementation.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Create(ctx context.Context, follow *models.Follow) error {
	if err := writer(ctx, r.db).Create(follow).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError(models.CodeAlreadyFollowing, "You already follow this user")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *followRepository) Find(ctx context.Context, followerID, followedID uint) (*models.Follow, error) {
	var follow models.Follow
	err := reader(ctx, r.db).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		First(&follow).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &models.AppError{Code: models.CodeNotFound, Message: "this follow doesn't exist"}
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &follow, nil
}

func (r *followRepository) Delete(ctx context.Context, id uint) error {
	if err := writer(ctx, r.db).Delete(&models.Follow{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *followRepository) ListFollowers(ctx context.Context, userID uint) ([]models.Follow, error) {
	var follows []models.Follow
	err := reader(ctx, r.db).
		Preload("Follower").
		Where("followed_id = ?", userID).
		Order("id ASC").
		Find(&follows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return follows, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := reader(ctx, r.db).Model(&models.Follow{}).Where("followed_id = ?", userID).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *followRepository) CountFollowersFor(ctx context.Context, userIDs []uint) (map[uint]int64, error) {
	return countBy(reader(ctx, r.db), &models.Follow{}, "followed_id", userIDs)
}
