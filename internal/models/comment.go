package models

import "time"

// Comment is a reply attached to a post.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"comment_id"`
	Text      string    `gorm:"size:500;not null" json:"comment_text"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	CreatedAt time.Time `json:"comment_date"`
	UpdatedAt time.Time `json:"updated_date"`
}

// OwnerID implements Ownable.
func (c *Comment) OwnerID() uint { return c.AuthorID }
