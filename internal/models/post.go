package models

import "time"

// Post is a blog entry. Deleting it removes its comments, categories and
// every like on the post or on its comments.
type Post struct {
	ID         uint       `gorm:"primaryKey" json:"post_id"`
	Title      string     `gorm:"size:50;not null" json:"post_title"`
	Content    string     `gorm:"type:text;not null" json:"post_content"`
	AuthorID   uint       `gorm:"not null;index" json:"author_id"`
	Author     User       `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Comments   []Comment  `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	Categories []Category `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time  `json:"posted_date"`
	UpdatedAt  time.Time  `json:"updated_date"`
}

// OwnerID implements Ownable.
func (p *Post) OwnerID() uint { return p.AuthorID }

// CategoryNames returns the post's category names in stored order.
func (p *Post) CategoryNames() []string {
	names := make([]string, 0, len(p.Categories))
	for _, c := range p.Categories {
		names = append(names, c.Name)
	}
	return names
}
