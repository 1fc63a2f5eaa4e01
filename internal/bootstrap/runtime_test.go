package bootstrap

import (
	"path/filepath"
	"testing"

	"inkwell/internal/config"
	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func sqliteConfig(t *testing.T) *config.Config {
	return &config.Config{
		DBDriver:     "sqlite",
		DBSQLitePath: filepath.Join(t.TempDir(), "inkwell.db"),
		DBSchemaMode: "auto",
		BcryptCost:   bcrypt.MinCost,
		Env:          "test",
	}
}

func TestInitRuntime_SeedsFixturesOnce(t *testing.T) {
	cfg := sqliteConfig(t)

	db, rdb, err := InitRuntime(cfg, Options{SeedFixtures: true})
	require.NoError(t, err)
	assert.Nil(t, rdb)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	require.NoError(t, SeedFixtures(cfg, db))

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(4), users)
}

func TestInitRuntime_WithoutFixtures(t *testing.T) {
	db, _, err := InitRuntime(sqliteConfig(t), Options{})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Zero(t, users)
}
