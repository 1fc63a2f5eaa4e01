// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log/slog"
	"math/rand"

	"inkwell/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	// BcryptCost defaults to bcrypt.DefaultCost; tests pass bcrypt.MinCost.
	BcryptCost int
	// MaxDays spreads generated timestamps over this many days back.
	MaxDays int
	Logger  *slog.Logger
}

// Seeder writes demo and generated data straight through GORM.
type Seeder struct {
	db      *gorm.DB
	opts    Options
	logger  *slog.Logger
	factory *Factory
	hashes  map[string]string
}

// NewSeeder returns a Seeder bound to db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Seeder{db: db, opts: opts, logger: logger, hashes: map[string]string{}}
	s.factory = NewFactory(db, opts)
	return s
}

// Seed clears the tables when asked to, then generates NumUsers users and
// NumPosts posts with comments, likes, follows and categories between them.
func (s *Seeder) Seed() error {
	s.logger.Info("starting database seeding", "users", s.opts.NumUsers, "posts", s.opts.NumPosts)

	if s.opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return fmt.Errorf("clear data: %w", err)
		}
	}

	users, err := s.SeedUsers(s.opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	if len(users) == 0 {
		return nil
	}

	posts, err := s.SeedEngagement(users, s.opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}

	s.logger.Info("database seeding completed", "users", len(users), "posts", len(posts))
	return nil
}

// ClearAll deletes every row, children first.
func (s *Seeder) ClearAll() error {
	s.logger.Info("clearing existing data")
	tables := []interface{}{
		&models.Like{}, &models.Category{}, &models.Comment{},
		&models.Follow{}, &models.Post{}, &models.User{},
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range tables {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}
		return nil
	})
}

// SeedUsers creates count accounts that all share FixturePassword.
func (s *Seeder) SeedUsers(count int) ([]*models.User, error) {
	hash, err := s.passwordHash(FixturePassword)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		user, err := s.factory.CreateUser(func(u *models.User) { u.Password = hash })
		if err != nil {
			s.logger.Warn("failed to create user", "error", err)
			continue
		}
		users = append(users, user)
	}

	// Every user follows a handful of others.
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(int64(len(users))))
	for _, follower := range users {
		for _, followed := range pickUsers(r, users, 3) {
			if followed.ID == follower.ID {
				continue
			}
			if err := s.factory.CreateFollow(follower, followed); err != nil {
				return nil, err
			}
		}
	}
	return users, nil
}

// SeedEngagement creates count posts spread over users, each with a few
// categories, comments and likes.
func (s *Seeder) SeedEngagement(users []*models.User, count int) ([]*models.Post, error) {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(int64(count)))
	posts := make([]*models.Post, 0, count)

	for i := 0; i < count; i++ {
		author := users[r.Intn(len(users))]
		post, err := s.factory.CreatePost(author)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)

		for _, commenter := range pickUsers(r, users, r.Intn(4)) {
			comment, err := s.factory.CreateComment(commenter, post)
			if err != nil {
				return nil, err
			}
			if r.Intn(2) == 0 {
				if err := s.factory.CreateLike(author, models.CommentTarget(comment.ID)); err != nil {
					return nil, err
				}
			}
		}
		for _, liker := range pickUsers(r, users, r.Intn(len(users)+1)) {
			if err := s.factory.CreateLike(liker, models.PostTarget(post.ID)); err != nil {
				return nil, err
			}
		}

		if (i+1)%100 == 0 {
			s.logger.Info("seeding posts", "created", i+1)
		}
	}
	return posts, nil
}

// passwordHash hashes each distinct password once per run.
func (s *Seeder) passwordHash(password string) (string, error) {
	if h, ok := s.hashes[password]; ok {
		return h, nil
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.opts.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash seed password: %w", err)
	}
	s.hashes[password] = string(b)
	return string(b), nil
}

// pickUsers returns up to n distinct users in random order.
func pickUsers(r *rand.Rand, users []*models.User, n int) []*models.User {
	if n > len(users) {
		n = len(users)
	}
	out := make([]*models.User, 0, n)
	for _, i := range r.Perm(len(users))[:n] {
		out = append(out, users[i])
	}
	return out
}
