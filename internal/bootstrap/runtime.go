// Package bootstrap connects the runtime dependencies shared by the commands.
package bootstrap

import (
	"fmt"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedFixtures bool
}

// InitRuntime connects to DB and Redis and optionally loads the demo fixtures.
// The Redis client is nil when Redis is unreachable.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedFixtures {
		if err := SeedFixtures(cfg, db); err != nil {
			return nil, nil, err
		}
	}

	return db, r, nil
}

// SeedFixtures loads the demo dataset unless it is already present.
func SeedFixtures(cfg *config.Config, db *gorm.DB) error {
	s := seed.NewSeeder(db, seed.Options{BcryptCost: cfg.BcryptCost, Logger: middleware.Logger})
	if err := s.SeedFixtures(); err != nil {
		return fmt.Errorf("failed to seed fixtures: %w", err)
	}
	return nil
}
