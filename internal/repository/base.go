// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"slices"
	"strings"

	"inkwell/internal/database"
	"inkwell/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type txKey struct{}

// Transactor runs fn in a single database transaction. Repository calls
// made with the ctx handed to fn take part in that transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type gormTransactor struct {
	db *gorm.DB
}

// NewTransactor returns a Transactor over db.
func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db}
}

func (t *gormTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// writer returns the transaction bound to ctx, or the primary connection.
func writer(ctx context.Context, primary *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return primary.WithContext(ctx)
}

// reader is writer, except outside a transaction it prefers the read replica.
func reader(ctx context.Context, primary *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return readDB(primary).WithContext(ctx)
}

func readDB(primary *gorm.DB) *gorm.DB {
	if db := database.GetReadDB(); db != nil {
		return db
	}
	return primary
}

// withTx runs fn on the transaction bound to ctx, or opens one.
func withTx(ctx context.Context, primary *gorm.DB, fn func(tx *gorm.DB) error) error {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(tx.WithContext(ctx))
	}
	return primary.WithContext(ctx).Transaction(fn)
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	// SQLite reports "UNIQUE constraint failed"
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

// lookupError maps a failed single-row lookup to NotFound or Internal.
func lookupError(err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}

// storeError passes AppErrors through and wraps anything else as Internal.
func storeError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return models.NewInternalError(err)
}

// maxBindIDs caps the ids sent in one IN list, well under Postgres's
// 65535 bind parameters per statement.
const maxBindIDs = 1000

type countRow struct {
	ID uint
	N  int64
}

// countBy returns COUNT(*) of model grouped by column for the given ids.
func countBy(db *gorm.DB, model interface{}, column string, ids []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(ids))
	for chunk := range slices.Chunk(ids, maxBindIDs) {
		var rows []countRow
		err := db.Model(model).
			Select(column+" AS id, COUNT(*) AS n").
			Where(column+" IN ?", chunk).
			Group(column).
			Scan(&rows).Error
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		for _, row := range rows {
			counts[row.ID] += row.N
		}
	}
	return counts, nil
}
