package repository

import (
	"context"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_CreateWithCategories(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	alice := mustCreateUser(t, db, "alice")

	post := mustCreatePost(t, db, alice.ID, "hello", "Go", "Databases")

	got, err := repo.GetDetailed(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Author.Name)
	assert.Equal(t, []string{"Go", "Databases"}, got.CategoryNames())
	assert.Empty(t, got.Comments)
}

func TestPostRepository_CreateDuplicateCategory(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewPostRepository(db)
	alice := mustCreateUser(t, db, "alice")

	post := &models.Post{
		Title:      "dup",
		Content:    "body",
		AuthorID:   alice.ID,
		Categories: []models.Category{{Name: "go"}, {Name: "go"}},
	}
	err := repo.Create(context.Background(), post)
	assert.True(t, models.HasCode(err, models.CodeDuplicateCategory), "got %v", err)
	assert.Equal(t, int64(0), count(t, db, &models.Post{}))
}

func TestPostRepository_GetDetailedOrdersComments(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewPostRepository(db)
	alice := mustCreateUser(t, db, "alice")
	bob := mustCreateUser(t, db, "bob")
	post := mustCreatePost(t, db, alice.ID, "hello")

	first := mustCreateComment(t, db, bob.ID, post.ID, "first")
	second := mustCreateComment(t, db, alice.ID, post.ID, "second")

	got, err := repo.GetDetailed(context.Background(), post.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments, 2)
	assert.Equal(t, first.ID, got.Comments[0].ID)
	assert.Equal(t, "bob", got.Comments[0].Author.Name)
	assert.Equal(t, second.ID, got.Comments[1].ID)
}

func TestPostRepository_GetDetailedNotFound(t *testing.T) {
	db := setupSQLiteDB(t)
	_, err := NewPostRepository(db).GetDetailed(context.Background(), 42)
	assert.True(t, models.HasCode(err, models.CodeNotFound), "got %v", err)
}

func TestPostRepository_ListDetailedByCategory(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewPostRepository(db)
	alice := mustCreateUser(t, db, "alice")

	goPost := mustCreatePost(t, db, alice.ID, "go", "Golang", "backend")
	mustCreatePost(t, db, alice.ID, "rust", "Rust")
	pct := mustCreatePost(t, db, alice.ID, "percent", "100%_real")
	pastry := mustCreatePost(t, db, alice.ID, "pastry", "Éclairs")

	tests := []struct {
		name  string
		query string
		want  []uint
	}{
		{"case insensitive substring", "LANG", []uint{goPost.ID}},
		{"second category matches", "end", []uint{goPost.ID}},
		{"wildcards are literal", "%_", []uint{pct.ID}},
		{"underscore alone is literal", "_", []uint{pct.ID}},
		{"non-ASCII lower query", "éclair", []uint{pastry.ID}},
		{"non-ASCII upper query", "ÉCLAIR", []uint{pastry.ID}},
		{"no match", "python", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts, err := repo.ListDetailedByCategory(context.Background(), tt.query)
			require.NoError(t, err)
			var ids []uint
			for _, p := range posts {
				ids = append(ids, p.ID)
				// a matching post carries all of its categories
				if p.ID == goPost.ID {
					assert.Len(t, p.Categories, 2)
				}
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestPostRepository_ListByAuthorAndCompact(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	alice := mustCreateUser(t, db, "alice")
	bob := mustCreateUser(t, db, "bob")
	mustCreatePost(t, db, alice.ID, "a1")
	mustCreatePost(t, db, bob.ID, "b1")
	mustCreatePost(t, db, alice.ID, "a2")

	mine, err := repo.ListByAuthor(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "a1", mine[0].Title)
	assert.Equal(t, "a2", mine[1].Title)

	compact, err := repo.ListCompact(ctx)
	require.NoError(t, err)
	require.Len(t, compact, 3)
	assert.Equal(t, "bob", compact[1].Author.Name)
}

func TestPostRepository_Update(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	alice := mustCreateUser(t, db, "alice")
	post := mustCreatePost(t, db, alice.ID, "before")

	post.Title = "after"
	require.NoError(t, repo.Update(ctx, post))

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Title)
	assert.Equal(t, post.Content, got.Content)
}

func TestPostRepository_DeleteCascades(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	alice := mustCreateUser(t, db, "alice")
	bob := mustCreateUser(t, db, "bob")

	doomed := mustCreatePost(t, db, alice.ID, "doomed", "x", "y")
	kept := mustCreatePost(t, db, alice.ID, "kept", "x")
	c := mustCreateComment(t, db, bob.ID, doomed.ID, "bye")
	keptComment := mustCreateComment(t, db, bob.ID, kept.ID, "stay")
	mustLike(t, db, bob.ID, models.PostTarget(doomed.ID))
	mustLike(t, db, alice.ID, models.CommentTarget(c.ID))
	mustLike(t, db, alice.ID, models.CommentTarget(keptComment.ID))

	require.NoError(t, repo.Delete(ctx, doomed.ID))

	assert.Equal(t, int64(1), count(t, db, &models.Post{}))
	assert.Equal(t, int64(1), count(t, db, &models.Comment{}))
	assert.Equal(t, int64(1), count(t, db, &models.Category{}))
	assert.Equal(t, int64(1), count(t, db, &models.Like{}))
	assert.Equal(t, int64(2), count(t, db, &models.User{}))

	err := repo.Delete(ctx, doomed.ID)
	assert.True(t, models.HasCode(err, models.CodeNotFound), "got %v", err)
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	db := setupSQLiteDB(t)
	tx := NewTransactor(db)
	users := NewUserRepository(db)
	posts := NewPostRepository(db)
	alice := mustCreateUser(t, db, "alice")

	err := tx.WithinTransaction(context.Background(), func(ctx context.Context) error {
		if err := posts.Create(ctx, &models.Post{Title: "t", Content: "c", AuthorID: alice.ID}); err != nil {
			return err
		}
		// second user with the same email fails and undoes the post
		return users.Create(ctx, &models.User{Name: "dup", Email: alice.Email, Password: "x"})
	})
	assert.True(t, models.HasCode(err, models.CodeDuplicateEmail), "got %v", err)
	assert.Equal(t, int64(0), count(t, db, &models.Post{}))
}

func TestTransactor_Nested(t *testing.T) {
	db := setupSQLiteDB(t)
	tx := NewTransactor(db)
	alice := mustCreateUser(t, db, "alice")
	posts := NewPostRepository(db)

	err := tx.WithinTransaction(context.Background(), func(ctx context.Context) error {
		return tx.WithinTransaction(ctx, func(ctx context.Context) error {
			return posts.Create(ctx, &models.Post{Title: "t", Content: "c", AuthorID: alice.ID})
		})
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count(t, db, &models.Post{}))
}
