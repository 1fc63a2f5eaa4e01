package seed

import (
	_ "embed"
	"fmt"
	"time"

	"inkwell/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// FixturePassword is the password of every fixture account.
const FixturePassword = "Password.123"

//go:embed fixtures.yaml
var fixturesYAML []byte

// FixtureSet is the demo dataset. Cross references are 1-based list positions.
type FixtureSet struct {
	Users []struct {
		Name  string `yaml:"name"`
		Email string `yaml:"email"`
	} `yaml:"users"`
	Posts []struct {
		Title      string    `yaml:"title"`
		Content    string    `yaml:"content"`
		Author     int       `yaml:"author"`
		Posted     time.Time `yaml:"posted"`
		Updated    time.Time `yaml:"updated"`
		Categories []string  `yaml:"categories"`
	} `yaml:"posts"`
	Comments []struct {
		Text    string    `yaml:"text"`
		Author  int       `yaml:"author"`
		Post    int       `yaml:"post"`
		Posted  time.Time `yaml:"posted"`
		Updated time.Time `yaml:"updated"`
	} `yaml:"comments"`
	Likes []struct {
		Liker   int `yaml:"liker"`
		Post    int `yaml:"post"`
		Comment int `yaml:"comment"`
	} `yaml:"likes"`
	Follows []struct {
		Follower int `yaml:"follower"`
		Followed int `yaml:"followed"`
	} `yaml:"follows"`
}

// LoadFixtures parses the embedded dataset.
func LoadFixtures() (*FixtureSet, error) {
	var set FixtureSet
	if err := yaml.Unmarshal(fixturesYAML, &set); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &set, nil
}

// SeedFixtures loads the demo dataset in one transaction. It does nothing
// when the first fixture account already exists.
func (s *Seeder) SeedFixtures() error {
	set, err := LoadFixtures()
	if err != nil {
		return err
	}
	if len(set.Users) == 0 {
		return nil
	}

	var existing int64
	if err := s.db.Model(&models.User{}).Where("email = ?", set.Users[0].Email).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		s.logger.Info("fixtures already present, skipping")
		return nil
	}

	hash, err := s.passwordHash(FixturePassword)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		users := make([]*models.User, len(set.Users))
		for i, u := range set.Users {
			users[i] = &models.User{Name: u.Name, Email: u.Email, Password: hash}
			if err := tx.Create(users[i]).Error; err != nil {
				return fmt.Errorf("fixture user %s: %w", u.Email, err)
			}
		}

		posts := make([]*models.Post, len(set.Posts))
		for i, p := range set.Posts {
			author, err := ref(users, p.Author, "post author")
			if err != nil {
				return err
			}
			post := &models.Post{
				Title:     p.Title,
				Content:   p.Content,
				AuthorID:  author.ID,
				CreatedAt: p.Posted,
				UpdatedAt: p.Updated,
			}
			for _, name := range p.Categories {
				post.Categories = append(post.Categories, models.Category{Name: name})
			}
			if err := tx.Create(post).Error; err != nil {
				return fmt.Errorf("fixture post %q: %w", p.Title, err)
			}
			posts[i] = post
		}

		comments := make([]*models.Comment, len(set.Comments))
		for i, c := range set.Comments {
			author, err := ref(users, c.Author, "comment author")
			if err != nil {
				return err
			}
			post, err := ref(posts, c.Post, "comment post")
			if err != nil {
				return err
			}
			comments[i] = &models.Comment{
				Text:      c.Text,
				AuthorID:  author.ID,
				PostID:    post.ID,
				CreatedAt: c.Posted,
				UpdatedAt: c.Updated,
			}
			if err := tx.Create(comments[i]).Error; err != nil {
				return fmt.Errorf("fixture comment %d: %w", i+1, err)
			}
		}

		for i, l := range set.Likes {
			liker, err := ref(users, l.Liker, "liker")
			if err != nil {
				return err
			}
			like := &models.Like{LikerID: liker.ID}
			if l.Post > 0 {
				post, err := ref(posts, l.Post, "liked post")
				if err != nil {
					return err
				}
				models.PostTarget(post.ID).Apply(like)
			} else {
				comment, err := ref(comments, l.Comment, "liked comment")
				if err != nil {
					return err
				}
				models.CommentTarget(comment.ID).Apply(like)
			}
			if err := tx.Create(like).Error; err != nil {
				return fmt.Errorf("fixture like %d: %w", i+1, err)
			}
		}

		for i, f := range set.Follows {
			follower, err := ref(users, f.Follower, "follower")
			if err != nil {
				return err
			}
			followed, err := ref(users, f.Followed, "followed user")
			if err != nil {
				return err
			}
			if err := tx.Create(&models.Follow{FollowerID: follower.ID, FollowedID: followed.ID}).Error; err != nil {
				return fmt.Errorf("fixture follow %d: %w", i+1, err)
			}
		}

		s.logger.Info("fixtures loaded",
			"users", len(users), "posts", len(posts), "comments", len(comments),
			"likes", len(set.Likes), "follows", len(set.Follows))
		return nil
	})
}

// ref resolves a 1-based fixture reference.
func ref[T any](items []*T, pos int, what string) (*T, error) {
	if pos < 1 || pos > len(items) {
		return nil, fmt.Errorf("fixture %s reference %d out of range", what, pos)
	}
	return items[pos-1], nil
}
