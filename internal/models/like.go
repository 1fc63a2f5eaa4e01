package models

import (
	"fmt"
	"time"
)

// Like is one user's like on exactly one post or one comment.
// (liker, post) and (liker, comment) pairs are unique; NULL targets do not collide.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"like_id"`
	LikerID   uint      `gorm:"not null;index;uniqueIndex:idx_likes_liker_post;uniqueIndex:idx_likes_liker_comment" json:"liker_id"`
	Liker     User      `gorm:"foreignKey:LikerID;constraint:OnDelete:CASCADE" json:"-"`
	PostID    *uint     `gorm:"index;uniqueIndex:idx_likes_liker_post" json:"post_id,omitempty"`
	CommentID *uint     `gorm:"index;uniqueIndex:idx_likes_liker_comment" json:"comment_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// OwnerID implements Ownable.
func (l *Like) OwnerID() uint { return l.LikerID }

// TargetKind selects what a like points at.
type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
)

// LikeTarget identifies a likeable entity.
type LikeTarget struct {
	Kind TargetKind
	ID   uint
}

// PostTarget and CommentTarget build a LikeTarget.
func PostTarget(id uint) LikeTarget    { return LikeTarget{Kind: TargetPost, ID: id} }
func CommentTarget(id uint) LikeTarget { return LikeTarget{Kind: TargetComment, ID: id} }

// Column is the likes column holding the target id.
func (t LikeTarget) Column() string {
	if t.Kind == TargetComment {
		return "comment_id"
	}
	return "post_id"
}

// Resource is the human readable resource name used in errors.
func (t LikeTarget) Resource() string {
	if t.Kind == TargetComment {
		return "Comment"
	}
	return "Post"
}

func (t LikeTarget) String() string {
	return fmt.Sprintf("%s:%d", t.Kind, t.ID)
}

// Apply points l at the target.
func (t LikeTarget) Apply(l *Like) {
	id := t.ID
	if t.Kind == TargetComment {
		l.CommentID, l.PostID = &id, nil
		return
	}
	l.PostID, l.CommentID = &id, nil
}
