package seed

import (
	"testing"
	"time"
	"unicode/utf8"

	"inkwell/internal/database"
	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

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

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestSeed_GeneratesData(t *testing.T) {
	db := setupDB(t)
	s := NewSeeder(db, Options{NumUsers: 5, NumPosts: 8, BcryptCost: bcrypt.MinCost})

	require.NoError(t, s.Seed())

	assert.Equal(t, int64(5), count(t, db, &models.User{}))
	assert.Equal(t, int64(8), count(t, db, &models.Post{}))
	assert.Positive(t, count(t, db, &models.Category{}))

	var posts []models.Post
	require.NoError(t, db.Find(&posts).Error)
	for _, p := range posts {
		assert.LessOrEqual(t, utf8.RuneCountInString(p.Title), maxTitleRunes)
		assert.NotEmpty(t, p.Content)
	}

	var follows []models.Follow
	require.NoError(t, db.Find(&follows).Error)
	for _, f := range follows {
		assert.NotEqual(t, f.FollowerID, f.FollowedID)
	}
}

func TestSeed_CleanReplacesData(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, NewSeeder(db, Options{NumUsers: 3, NumPosts: 3, BcryptCost: bcrypt.MinCost}).Seed())

	s := NewSeeder(db, Options{NumUsers: 2, NumPosts: 1, ShouldClean: true, BcryptCost: bcrypt.MinCost})
	require.NoError(t, s.Seed())

	assert.Equal(t, int64(2), count(t, db, &models.User{}))
	assert.Equal(t, int64(1), count(t, db, &models.Post{}))
}

func TestClearAll(t *testing.T) {
	db := setupDB(t)
	s := NewSeeder(db, Options{BcryptCost: bcrypt.MinCost})
	require.NoError(t, s.SeedFixtures())

	require.NoError(t, s.ClearAll())

	for _, m := range []interface{}{
		&models.User{}, &models.Post{}, &models.Comment{},
		&models.Category{}, &models.Like{}, &models.Follow{},
	} {
		assert.Zero(t, count(t, db, m), "%T", m)
	}
}

func TestSeed_NoUsers(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, NewSeeder(db, Options{NumPosts: 10, BcryptCost: bcrypt.MinCost}).Seed())
	assert.Zero(t, count(t, db, &models.Post{}))
}

func TestFactory_BuildPost(t *testing.T) {
	f := NewFactory(nil, Options{MaxDays: 10})
	author := &models.User{ID: 7}
	cutoff := time.Now().Add(-11 * 24 * time.Hour)

	for i := 0; i < 50; i++ {
		p := f.BuildPost(author)
		assert.Equal(t, uint(7), p.AuthorID)
		assert.LessOrEqual(t, utf8.RuneCountInString(p.Title), maxTitleRunes)
		assert.True(t, p.CreatedAt.After(cutoff))
		assert.False(t, p.CreatedAt.After(time.Now()))
		assert.Equal(t, p.CreatedAt, p.UpdatedAt)

		require.NotEmpty(t, p.Categories)
		seen := map[string]bool{}
		for _, c := range p.Categories {
			assert.False(t, seen[c.Name], "duplicate category %s", c.Name)
			seen[c.Name] = true
		}
	}
}

func TestFactory_BuildUser(t *testing.T) {
	f := NewFactory(nil, Options{})
	emails := map[string]bool{}
	for i := 0; i < 20; i++ {
		u := f.BuildUser()
		assert.NotEmpty(t, u.Name)
		assert.False(t, emails[u.Email], "duplicate email %s", u.Email)
		emails[u.Email] = true
	}

	u := f.BuildUser(func(u *models.User) { u.Name = "Override" })
	assert.Equal(t, "Override", u.Name)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "héllo", truncate("héllo wörld", 5))
	assert.Equal(t, "ab", truncate("ab cd", 3))
}
