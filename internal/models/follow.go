package models

import "time"

// Follow is a directed edge: FollowerID follows FollowedID.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"follow_id"`
	FollowerID uint      `gorm:"not null;index;uniqueIndex:idx_follows_pair" json:"follower_id"`
	Follower   User      `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	FollowedID uint      `gorm:"not null;index;uniqueIndex:idx_follows_pair" json:"followed_id"`
	Followed   User      `gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// OwnerID implements Ownable; an edge belongs to the follower.
func (f *Follow) OwnerID() uint { return f.FollowerID }
