package models

import "time"

// Activity types delivered to a user's notification channel.
const (
	ActivityPostLiked      = "post_liked"
	ActivityCommentLiked   = "comment_liked"
	ActivityCommentCreated = "comment_created"
	ActivityUserFollowed   = "user_followed"
)

// Activity is something another user did to the recipient's content or
// account.
type Activity struct {
	Type       string    `json:"type"`
	ActorID    uint      `json:"actor_id"`
	PostID     uint      `json:"post_id,omitempty"`
	CommentID  uint      `json:"comment_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
