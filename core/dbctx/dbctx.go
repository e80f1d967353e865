package dbctx

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction.
// Repositories fall back to their base connection when Tx is nil.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

// DB returns the handle a repository should use for this context.
func (c Context) DB(base *gorm.DB) *gorm.DB {
	tx := c.Tx
	if tx == nil {
		tx = base
	}
	ctx := c.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	return tx.WithContext(ctx)
}

// UnitOfWork is an explicit transaction boundary owned by a caller.
// Nothing is visible to other connections until Commit succeeds.
type UnitOfWork struct {
	ctx  context.Context
	tx   *gorm.DB
	done bool
}

// Begin opens a new unit of work on db.
func Begin(ctx context.Context, db *gorm.DB) (*UnitOfWork, error) {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	return &UnitOfWork{ctx: ctx, tx: tx}, nil
}

// Context returns the dbctx.Context bound to this unit of work.
func (u *UnitOfWork) Context() Context {
	return Context{Ctx: u.ctx, Tx: u.tx}
}

// SavePoint marks a point the unit of work can later roll back to.
func (u *UnitOfWork) SavePoint(name string) error {
	return u.tx.SavePoint(name).Error
}

// RollbackTo discards everything written after the named savepoint.
func (u *UnitOfWork) RollbackTo(name string) error {
	return u.tx.RollbackTo(name).Error
}

// Commit makes the unit of work durable. The commit error is returned as-is.
func (u *UnitOfWork) Commit() error {
	if u.done {
		return nil
	}
	u.done = true
	return u.tx.Commit().Error
}

// Rollback discards the unit of work. Calling it after Commit is a no-op,
// so it is safe to defer.
func (u *UnitOfWork) Rollback() error {
	if u.done {
		return nil
	}
	u.done = true
	return u.tx.Rollback().Error
}
