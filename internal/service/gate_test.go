package service

import (
	"context"
	"errors"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMutate(t *testing.T) {
	post := &models.Post{ID: 7, AuthorID: 1}
	found := func(context.Context) (*models.Post, error) { return post, nil }

	tests := []struct {
		name      string
		actorID   uint
		lookup    func(context.Context) (*models.Post, error)
		owns      func(*models.Post, uint) bool
		applyErr  error
		wantCode  string
		wantApply bool
	}{
		{name: "unauthenticated", actorID: 0, lookup: found, wantCode: models.CodeUnauthorized},
		{
			name:    "not found",
			actorID: 1,
			lookup: func(context.Context) (*models.Post, error) {
				return nil, models.NewNotFoundError("Post", 7)
			},
			wantCode: models.CodeNotFound,
		},
		{
			name:    "lookup storage failure",
			actorID: 1,
			lookup: func(context.Context) (*models.Post, error) {
				return nil, errors.New("connection reset")
			},
			wantCode: models.CodeInternal,
		},
		{name: "not owner", actorID: 2, lookup: found, wantCode: models.CodeForbidden},
		{
			name:      "custom predicate admits non owner",
			actorID:   2,
			lookup:    found,
			owns:      anyActor[*models.Post],
			wantApply: true,
		},
		{
			name:      "apply domain error passes through",
			actorID:   1,
			lookup:    found,
			applyErr:  models.NewMissingFieldError("post_title"),
			wantCode:  models.CodeMissingField,
			wantApply: true,
		},
		{
			name:      "apply raw error becomes internal",
			actorID:   1,
			lookup:    found,
			applyErr:  errors.New("disk full"),
			wantCode:  models.CodeInternal,
			wantApply: true,
		},
		{name: "owner succeeds", actorID: 1, lookup: found, wantApply: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := newTx()
			applied := false
			got, err := Mutate(context.Background(), tx, tt.actorID, Mutation[*models.Post]{
				Resource: "post",
				Action:   "update",
				ID:       7,
				Lookup:   tt.lookup,
				Owns:     tt.owns,
				Apply: func(_ context.Context, p *models.Post) error {
					applied = true
					assert.Same(t, post, p)
					return tt.applyErr
				},
			})

			assert.Equal(t, tt.wantApply, applied)
			if tt.wantApply {
				tx.AssertNumberOfCalls(t, "WithinTransaction", 1)
			} else {
				tx.AssertNotCalled(t, "WithinTransaction", mock.Anything)
			}

			if tt.wantCode != "" {
				assertCode(t, err, tt.wantCode)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Same(t, post, got)
		})
	}
}

func TestMutate_ForbiddenMessage(t *testing.T) {
	lookup := func(context.Context) (*models.Post, error) { return &models.Post{ID: 3, AuthorID: 1}, nil }
	apply := func(context.Context, *models.Post) error { return nil }

	_, err := Mutate(context.Background(), newTx(), 2, Mutation[*models.Post]{
		Resource: "post", Action: "delete", ID: 3, Lookup: lookup, Apply: apply,
	})
	assert.EqualError(t, err, "you are not the owner of the post with ID 3")

	_, err = Mutate(context.Background(), newTx(), 2, Mutation[*models.Post]{
		Resource: "category", Action: "create", ID: 3, Denied: "you are not the owner of this blog post",
		Lookup: lookup, Apply: apply,
	})
	assert.EqualError(t, err, "you are not the owner of this blog post")
}

func TestMutate_TransactionFailure(t *testing.T) {
	tx := &txMock{}
	tx.On("WithinTransaction", mock.Anything).Return(errors.New("begin failed"))

	_, err := Mutate(context.Background(), tx, 1, Mutation[*models.Post]{
		Resource: "post",
		Action:   "delete",
		Lookup:   func(context.Context) (*models.Post, error) { return &models.Post{AuthorID: 1}, nil },
		Apply: func(context.Context, *models.Post) error {
			t.Fatal("apply must not run")
			return nil
		},
	})
	assertCode(t, err, models.CodeInternal)
}
