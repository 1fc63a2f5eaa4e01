package models

// Category is a label on a post. A name appears at most once per post.
type Category struct {
	ID     uint   `gorm:"primaryKey" json:"category_id"`
	Name   string `gorm:"size:100;not null;uniqueIndex:idx_categories_post_name" json:"name"`
	PostID uint   `gorm:"not null;index;uniqueIndex:idx_categories_post_name" json:"post_id"`
}
