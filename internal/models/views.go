package models

import "time"

// Read-side response shapes. Counters are filled at request time and never stored.

// AuthorInfo identifies a user inside a nested view.
type AuthorInfo struct {
	UserID        uint   `json:"user_id"`
	Name          string `json:"name"`
	FollowerCount *int64 `json:"follower_count,omitempty"`
}

// PostCommentView is a comment nested in a PostView.
type PostCommentView struct {
	CommentID   uint       `json:"comment_id"`
	CommentText string     `json:"comment_text"`
	CommentDate time.Time  `json:"comment_date"`
	LikeCount   int64      `json:"like_count"`
	AuthorInfo  AuthorInfo `json:"author_info"`
}

// PostView is the fully enriched post.
type PostView struct {
	PostID      uint              `json:"post_id"`
	PostTitle   string            `json:"post_title"`
	PostContent string            `json:"post_content"`
	PostedDate  time.Time         `json:"posted_date"`
	UpdatedDate time.Time         `json:"updated_date"`
	LikeCount   int64             `json:"like_count"`
	AuthorInfo  AuthorInfo        `json:"author_info"`
	Categories  []string          `json:"categories"`
	Comments    []PostCommentView `json:"comments"`
}

// CompactPostView is the listing shape without counters or comments.
type CompactPostView struct {
	PostID     uint       `json:"post_id"`
	PostTitle  string     `json:"post_title"`
	AuthorInfo AuthorInfo `json:"author_info"`
}

// CommentView is a comment as listed under its post.
type CommentView struct {
	CommentID   uint       `json:"comment_id"`
	CommentText string     `json:"comment_text"`
	CommentDate time.Time  `json:"comment_date"`
	UpdatedDate time.Time  `json:"updated_date"`
	LikeCount   int64      `json:"like_count"`
	AuthorInfo  AuthorInfo `json:"author_info"`
}

// LikerView is one entry of a target's likers list.
type LikerView struct {
	LikeID    uint       `json:"like_id"`
	LikerInfo AuthorInfo `json:"liker_info"`
}

// LikeRef is a like as seen from the liker's side; exactly one target is set.
type LikeRef struct {
	LikeID    uint  `json:"like_id"`
	PostID    *uint `json:"post_id,omitempty"`
	CommentID *uint `json:"comment_id,omitempty"`
}

// FollowerView is one entry in a user's followers list.
type FollowerView struct {
	FollowID     uint   `json:"follow_id"`
	FollowerID   uint   `json:"follower_id"`
	FollowerName string `json:"follower_name"`
}

// FollowRef is a follower edge inside a UserDetailView.
type FollowRef struct {
	FollowID   uint `json:"follow_id"`
	FollowerID uint `json:"follower_id"`
}

// PostRef is a post title reference.
type PostRef struct {
	PostID    uint   `json:"post_id"`
	PostTitle string `json:"post_title"`
}

// UserSummaryView is an entry of the users listing.
type UserSummaryView struct {
	UserID        uint   `json:"user_id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	FollowerCount int64  `json:"follower_count"`
}

// UserDetailView is a user profile with its social edges.
type UserDetailView struct {
	UserID        uint        `json:"user_id"`
	Name          string      `json:"name"`
	Email         string      `json:"email"`
	FollowerCount int64       `json:"follower_count"`
	Followers     []FollowRef `json:"followers"`
	Likes         []LikeRef   `json:"likes"`
	BlogPosts     []PostRef   `json:"blog_posts"`
}

// UserPostView is a post listed under its author.
type UserPostView struct {
	PostID      uint      `json:"post_id"`
	PostTitle   string    `json:"post_title"`
	PostContent string    `json:"post_content"`
	PostedDate  time.Time `json:"posted_date"`
	UpdatedDate time.Time `json:"updated_date"`
	LikeCount   int64     `json:"like_count"`
}

// UserCommentView is a comment listed under its author.
type UserCommentView struct {
	CommentID   uint      `json:"comment_id"`
	CommentText string    `json:"comment_text"`
	CommentDate time.Time `json:"comment_date"`
	UpdatedDate time.Time `json:"updated_date"`
	PostID      uint      `json:"post_id"`
	LikeCount   int64     `json:"like_count"`
}
