// Package service holds the application's use cases. Every mutation of an
// owned entity goes through Mutate.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
)

// Mutation outcomes reported to metrics.
const (
	outcomeOK              = "ok"
	outcomeUnauthenticated = "unauthenticated"
	outcomeNotFound        = "not_found"
	outcomeForbidden       = "forbidden"
	outcomeRejected        = "rejected"
	outcomeError           = "error"
)

// Mutation describes one ownership-gated change.
type Mutation[T models.Ownable] struct {
	Resource string
	Action   string
	// ID is the looked-up entity's id, used in messages and logs.
	ID uint
	// Lookup loads the entity the change applies to.
	Lookup func(ctx context.Context) (T, error)
	// Owns overrides the default OwnerID() == actor check.
	Owns func(entity T, actorID uint) bool
	// Denied overrides the Forbidden message.
	Denied string
	// Apply performs the change inside a transaction.
	Apply func(ctx context.Context, entity T) error
}

// anyActor lets every authenticated actor through; creates use it.
func anyActor[T models.Ownable](_ T, _ uint) bool { return true }

func (m Mutation[T]) deniedMessage() string {
	if m.Denied != "" {
		return m.Denied
	}
	return fmt.Sprintf("you are not the owner of the %s with ID %d", m.Resource, m.ID)
}

// Mutate resolves the actor, loads the entity, checks ownership and applies
// the change in one transaction, in that order. The first failing step
// decides the error.
func Mutate[T models.Ownable](ctx context.Context, tx repository.Transactor, actorID uint, m Mutation[T]) (T, error) {
	var zero T
	start := time.Now()
	span, ctx := observability.StartMutationSpan(ctx, m.Resource, m.Action, actorID)
	defer span.End()

	fail := func(outcome string, err error) (T, error) {
		observability.RecordMutation(m.Resource, m.Action, outcome, start)
		span.SetError(err)
		return zero, err
	}

	if actorID == 0 {
		return fail(outcomeUnauthenticated, models.NewUnauthorizedError("authentication required"))
	}

	entity, err := m.Lookup(ctx)
	if err != nil {
		err = asAppError(err)
		if models.HasCode(err, models.CodeNotFound) {
			return fail(outcomeNotFound, err)
		}
		if models.HasCode(err, models.CodeInternal) {
			logStorageFailure(ctx, m, actorID, err)
			return fail(outcomeError, err)
		}
		return fail(outcomeRejected, err)
	}

	owns := m.Owns
	if owns == nil {
		owns = func(e T, actor uint) bool { return e.OwnerID() == actor }
	}
	if !owns(entity, actorID) {
		middleware.Logger.WarnContext(ctx, "forbidden mutation attempt",
			slog.String("resource", m.Resource),
			slog.String("action", m.Action),
			slog.Uint64("entity_id", uint64(m.ID)),
			slog.Uint64("owner_id", uint64(entity.OwnerID())),
			slog.Uint64("actor_id", uint64(actorID)),
		)
		return fail(outcomeForbidden, models.NewForbiddenError(m.deniedMessage()))
	}

	err = tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return m.Apply(ctx, entity)
	})
	if err != nil {
		err = asAppError(err)
		if models.HasCode(err, models.CodeInternal) {
			logStorageFailure(ctx, m, actorID, err)
			return fail(outcomeError, err)
		}
		return fail(outcomeRejected, err)
	}

	observability.RecordMutation(m.Resource, m.Action, outcomeOK, start)
	return entity, nil
}

func logStorageFailure[T models.Ownable](ctx context.Context, m Mutation[T], actorID uint, err error) {
	middleware.Logger.ErrorContext(ctx, "mutation failed",
		slog.String("resource", m.Resource),
		slog.String("action", m.Action),
		slog.Uint64("entity_id", uint64(m.ID)),
		slog.Uint64("actor_id", uint64(actorID)),
		slog.String("error", err.Error()),
	)
}

// asAppError wraps anything that is not already an AppError as Internal.
func asAppError(err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return models.NewInternalError(err)
}
