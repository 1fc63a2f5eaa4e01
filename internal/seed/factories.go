package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"

	"inkwell/internal/models"
	"inkwell/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

const (
	maxTitleRunes   = 50
	maxCommentRunes = 500
)

var categoryPool = []string{
	"TV", "Sports", "Football", "Politics", "Music", "Movies", "Travel",
	"Food", "Technology", "Science", "Books", "Health", "Gaming", "Art",
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db      *gorm.DB
	maxDays int
	rng     *rand.Rand
	seq     int
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	maxDays := opts.MaxDays
	if maxDays <= 0 {
		maxDays = 365
	}
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Factory{db: db, maxDays: maxDays, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// BuildUser returns an unsaved user with a name that passes account
// validation and an email unique within this factory.
func (f *Factory) BuildUser(overrides ...func(*models.User)) *models.User {
	f.seq++
	first, last := gofakeit.FirstName(), gofakeit.LastName()
	name := first + " " + last
	if validation.ValidateName(name) != nil {
		name = fmt.Sprintf("User %d", f.seq)
	}

	user := &models.User{
		Name:  name,
		Email: fmt.Sprintf("%s.%s.%d@example.com", slug(first), slug(last), f.seq),
	}
	for _, override := range overrides {
		override(user)
	}
	return user
}

// CreateUser persists a BuildUser result.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := f.BuildUser(overrides...)
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost returns an unsaved post by author with one to three categories
// and a posted date spread over the last maxDays.
func (f *Factory) BuildPost(author *models.User, overrides ...func(*models.Post)) *models.Post {
	posted := f.pastTime()
	post := &models.Post{
		Title:     truncate(strings.TrimSuffix(gofakeit.Sentence(5), "."), maxTitleRunes),
		Content:   gofakeit.Paragraph(2, 4, 12, "\n\n"),
		AuthorID:  author.ID,
		CreatedAt: posted,
		UpdatedAt: posted,
	}
	for _, i := range f.rng.Perm(len(categoryPool))[:1+f.rng.Intn(3)] {
		post.Categories = append(post.Categories, models.Category{Name: categoryPool[i]})
	}
	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePost persists a BuildPost result with its categories.
func (f *Factory) CreatePost(author *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := f.BuildPost(author, overrides...)
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment persists a short comment by author on post.
func (f *Factory) CreateComment(author *models.User, post *models.Post, overrides ...func(*models.Comment)) (*models.Comment, error) {
	posted := post.CreatedAt.Add(time.Duration(1+f.rng.Intn(72)) * time.Hour)
	comment := &models.Comment{
		Text:      truncate(gofakeit.Sentence(8), maxCommentRunes),
		AuthorID:  author.ID,
		PostID:    post.ID,
		CreatedAt: posted,
		UpdatedAt: posted,
	}
	for _, override := range overrides {
		override(comment)
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateLike persists a like from liker on target.
func (f *Factory) CreateLike(liker *models.User, target models.LikeTarget) error {
	like := &models.Like{LikerID: liker.ID}
	target.Apply(like)
	return f.db.Create(like).Error
}

// CreateFollow persists follower -> followed.
func (f *Factory) CreateFollow(follower, followed *models.User) error {
	return f.db.Create(&models.Follow{FollowerID: follower.ID, FollowedID: followed.ID}).Error
}

func (f *Factory) pastTime() time.Time {
	back := time.Duration(f.rng.Intn(f.maxDays))*24*time.Hour +
		time.Duration(f.rng.Intn(24*60))*time.Minute
	return time.Now().Add(-back)
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:max]))
}

func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}
