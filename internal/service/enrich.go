package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"golang.org/x/sync/errgroup"
)

// Enricher turns stored rows into response views. Counters are queried on
// every call, one grouped query per counter kind.
type Enricher struct {
	likes   repository.LikeRepository
	follows repository.FollowRepository
}

func NewEnricher(likes repository.LikeRepository, follows repository.FollowRepository) *Enricher {
	return &Enricher{likes: likes, follows: follows}
}

// PostViews expects posts loaded with authors, categories and comments.
func (e *Enricher) PostViews(ctx context.Context, posts []models.Post) ([]models.PostView, error) {
	var postIDs, commentIDs, authorIDs []uint
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
		authorIDs = append(authorIDs, p.AuthorID)
		for _, c := range p.Comments {
			commentIDs = append(commentIDs, c.ID)
		}
	}

	var postLikes, commentLikes, followers map[uint]int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		postLikes, err = e.likes.CountForPosts(gctx, postIDs)
		return err
	})
	g.Go(func() (err error) {
		commentLikes, err = e.likes.CountForComments(gctx, commentIDs)
		return err
	})
	g.Go(func() (err error) {
		followers, err = e.follows.CountFollowersFor(gctx, uniqueIDs(authorIDs))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	views := make([]models.PostView, 0, len(posts))
	for i := range posts {
		p := &posts[i]
		fc := followers[p.AuthorID]
		view := models.PostView{
			PostID:      p.ID,
			PostTitle:   p.Title,
			PostContent: p.Content,
			PostedDate:  p.CreatedAt,
			UpdatedDate: p.UpdatedAt,
			LikeCount:   postLikes[p.ID],
			AuthorInfo: models.AuthorInfo{
				UserID:        p.Author.ID,
				Name:          p.Author.Name,
				FollowerCount: &fc,
			},
			Categories: p.CategoryNames(),
			Comments:   make([]models.PostCommentView, 0, len(p.Comments)),
		}
		for _, c := range p.Comments {
			view.Comments = append(view.Comments, models.PostCommentView{
				CommentID:   c.ID,
				CommentText: c.Text,
				CommentDate: c.CreatedAt,
				LikeCount:   commentLikes[c.ID],
				AuthorInfo:  models.AuthorInfo{UserID: c.Author.ID, Name: c.Author.Name},
			})
		}
		views = append(views, view)
	}
	return views, nil
}

// PostView enriches a single post.
func (e *Enricher) PostView(ctx context.Context, post *models.Post) (models.PostView, error) {
	views, err := e.PostViews(ctx, []models.Post{*post})
	if err != nil {
		return models.PostView{}, err
	}
	return views[0], nil
}

// CompactViews needs no counters.
func (e *Enricher) CompactViews(posts []models.Post) []models.CompactPostView {
	views := make([]models.CompactPostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, models.CompactPostView{
			PostID:     p.ID,
			PostTitle:  p.Title,
			AuthorInfo: models.AuthorInfo{UserID: p.Author.ID, Name: p.Author.Name},
		})
	}
	return views
}

// CommentViews expects comments loaded with authors.
func (e *Enricher) CommentViews(ctx context.Context, comments []models.Comment) ([]models.CommentView, error) {
	counts, err := e.likes.CountForComments(ctx, commentIDs(comments))
	if err != nil {
		return nil, err
	}
	views := make([]models.CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, models.CommentView{
			CommentID:   c.ID,
			CommentText: c.Text,
			CommentDate: c.CreatedAt,
			UpdatedDate: c.UpdatedAt,
			LikeCount:   counts[c.ID],
			AuthorInfo:  models.AuthorInfo{UserID: c.Author.ID, Name: c.Author.Name},
		})
	}
	return views, nil
}

func (e *Enricher) UserPostViews(ctx context.Context, posts []models.Post) ([]models.UserPostView, error) {
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	counts, err := e.likes.CountForPosts(ctx, ids)
	if err != nil {
		return nil, err
	}
	views := make([]models.UserPostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, models.UserPostView{
			PostID:      p.ID,
			PostTitle:   p.Title,
			PostContent: p.Content,
			PostedDate:  p.CreatedAt,
			UpdatedDate: p.UpdatedAt,
			LikeCount:   counts[p.ID],
		})
	}
	return views, nil
}

func (e *Enricher) UserCommentViews(ctx context.Context, comments []models.Comment) ([]models.UserCommentView, error) {
	counts, err := e.likes.CountForComments(ctx, commentIDs(comments))
	if err != nil {
		return nil, err
	}
	views := make([]models.UserCommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, models.UserCommentView{
			CommentID:   c.ID,
			CommentText: c.Text,
			CommentDate: c.CreatedAt,
			UpdatedDate: c.UpdatedAt,
			PostID:      c.PostID,
			LikeCount:   counts[c.ID],
		})
	}
	return views, nil
}

func (e *Enricher) UserSummaries(ctx context.Context, users []models.User) ([]models.UserSummaryView, error) {
	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	counts, err := e.follows.CountFollowersFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	views := make([]models.UserSummaryView, 0, len(users))
	for _, u := range users {
		views = append(views, models.UserSummaryView{
			UserID:        u.ID,
			Name:          u.Name,
			Email:         u.Email,
			FollowerCount: counts[u.ID],
		})
	}
	return views, nil
}

// LikeRefs renders likes from the liker's side.
func LikeRefs(likes []models.Like) []models.LikeRef {
	refs := make([]models.LikeRef, 0, len(likes))
	for _, l := range likes {
		refs = append(refs, models.LikeRef{LikeID: l.ID, PostID: l.PostID, CommentID: l.CommentID})
	}
	return refs
}

func commentIDs(comments []models.Comment) []uint {
	ids := make([]uint, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
	}
	return ids
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
