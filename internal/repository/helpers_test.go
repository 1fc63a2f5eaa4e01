package repository

import (
	"context"
	"testing"

	"inkwell/internal/database"
	"inkwell/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return gormDB, mock
}

// setupSQLiteDB returns a migrated in-memory database private to the test.
func setupSQLiteDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

func mustCreateUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: name + "@example.com", Password: "hash"}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	return u
}

func mustCreatePost(t *testing.T, db *gorm.DB, authorID uint, title string, categories ...string) *models.Post {
	t.Helper()
	p := &models.Post{Title: title, Content: "content of " + title, AuthorID: authorID}
	for _, c := range categories {
		p.Categories = append(p.Categories, models.Category{Name: c})
	}
	require.NoError(t, NewPostRepository(db).Create(context.Background(), p))
	return p
}

func mustCreateComment(t *testing.T, db *gorm.DB, authorID, postID uint, text string) *models.Comment {
	t.Helper()
	c := &models.Comment{Text: text, AuthorID: authorID, PostID: postID}
	require.NoError(t, NewCommentRepository(db).Create(context.Background(), c))
	return c
}

func mustLike(t *testing.T, db *gorm.DB, likerID uint, target models.LikeTarget) *models.Like {
	t.Helper()
	l := &models.Like{LikerID: likerID}
	target.Apply(l)
	require.NoError(t, NewLikeRepository(db).Create(context.Background(), l))
	return l
}

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
