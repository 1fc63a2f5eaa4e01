package repository

import (
	"context"
	"slices"
	"strings"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	// Create inserts the post together with its Categories.
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	// GetDetailed loads the post with author, categories and comments (with authors).
	GetDetailed(ctx context.Context, id uint) (*models.Post, error)
	ListDetailed(ctx context.Context) ([]models.Post, error)
	// ListDetailedByCategory returns posts having a category whose name contains
	// query, ignoring case.
	ListDetailedByCategory(ctx context.Context, query string) ([]models.Post, error)
	ListCompact(ctx context.Context) ([]models.Post, error)
	ListByAuthor(ctx context.Context, authorID uint) ([]models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	// Delete removes the post, its comments and categories, and every like on
	// the post or its comments.
	Delete(ctx context.Context, id uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := writer(ctx, r.db).Create(post).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError(models.CodeDuplicateCategory, duplicateCategoryMessage)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := reader(ctx, r.db).First(&post, id).Error; err != nil {
		return nil, lookupError(err, "Post", id)
	}
	return &post, nil
}

// withDetails preloads everything a PostView is built from.
func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Categories", func(db *gorm.DB) *gorm.DB {
			return db.Order("categories.id ASC")
		}).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC, comments.id ASC")
		}).
		Preload("Comments.Author")
}

func (r *postRepository) GetDetailed(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := withDetails(reader(ctx, r.db)).First(&post, id).Error; err != nil {
		return nil, lookupError(err, "Post", id)
	}
	return &post, nil
}

func (r *postRepository) ListDetailed(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := withDetails(reader(ctx, r.db)).Order("posts.id ASC").Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *postRepository) ListDetailedByCategory(ctx context.Context, query string) ([]models.Post, error) {
	db := reader(ctx, r.db)
	if db.Dialector.Name() == "sqlite" {
		return listByCategoryFolded(db, query)
	}

	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
	matching := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.Category{}).
		Select("post_id").
		Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern)

	var posts []models.Post
	err := withDetails(db).
		Where("posts.id IN (?)", matching).
		Order("posts.id ASC").
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// listByCategoryFolded matches category names in Go. SQLite's LOWER only
// folds ASCII letters.
func listByCategoryFolded(db *gorm.DB, query string) ([]models.Post, error) {
	var categories []models.Category
	if err := db.Select("post_id", "name").Find(&categories).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	needle := strings.ToLower(query)
	var ids []uint
	for _, c := range categories {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			ids = append(ids, c.PostID)
		}
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	posts := make([]models.Post, 0, len(ids))
	for chunk := range slices.Chunk(ids, maxBindIDs) {
		var batch []models.Post
		err := withDetails(db).
			Where("posts.id IN ?", chunk).
			Order("posts.id ASC").
			Find(&batch).Error
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		posts = append(posts, batch...)
	}
	return posts, nil
}

func (r *postRepository) ListCompact(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := reader(ctx, r.db).Preload("Author").Order("posts.id ASC").Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint) ([]models.Post, error) {
	var posts []models.Post
	err := reader(ctx, r.db).
		Where("author_id = ?", authorID).
		Order("posts.id ASC").
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	err := writer(ctx, r.db).Model(&models.Post{}).
		Where("id = ?", post.ID).
		Updates(map[string]interface{}{
			"title":      post.Title,
			"content":    post.Content,
			"updated_at": post.UpdatedAt,
		}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := withTx(ctx, r.db, func(tx *gorm.DB) error {
		return deletePostTree(tx, id)
	})
	return storeError(err)
}

func deletePostTree(tx *gorm.DB, id uint) error {
	var commentIDs []uint
	if err := tx.Model(&models.Comment{}).Where("post_id = ?", id).Pluck("id", &commentIDs).Error; err != nil {
		return err
	}

	likes := tx.Where("post_id = ?", id)
	if len(commentIDs) > 0 {
		likes = likes.Or("comment_id IN ?", commentIDs)
	}
	if err := likes.Delete(&models.Like{}).Error; err != nil {
		return err
	}
	if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("post_id = ?", id).Delete(&models.Category{}).Error; err != nil {
		return err
	}

	res := tx.Delete(&models.Post{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}
