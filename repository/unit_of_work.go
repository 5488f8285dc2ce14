package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// GormUnitOfWork collects entities and writes them out in a single
// transaction per Flush. Stage has no side effect on the store; a failed
// Flush keeps the staged set so the caller can decide whether to retry.
// Not safe for concurrent use; scope one instance per batch operation.
type GormUnitOfWork struct {
	db     *gorm.DB
	staged []any
}

// NewGormUnitOfWork creates a unit of work bound to the given connection
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Stage schedules an entity for the next Flush. New entities (zero
// primary key) are inserted, existing ones updated.
func (u *GormUnitOfWork) Stage(entity any) {
	u.staged = append(u.staged, entity)
}

// StagedCount returns the number of entities awaiting Flush.
func (u *GormUnitOfWork) StagedCount() int {
	return len(u.staged)
}

// Flush writes all staged entities in one transaction and clears the
// staged set on success.
func (u *GormUnitOfWork) Flush(ctx context.Context) error {
	if len(u.staged) == 0 {
		return nil
	}

	err := WithTransaction(ctx, u.db, func(txCtx context.Context) error {
		tx, _ := txCtx.Value(TxContextKey).(*gorm.DB)
		for _, entity := range u.staged {
			if err := tx.Save(entity).Error; err != nil {
				return fmt.Errorf("failed to flush staged entity: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	u.staged = u.staged[:0]
	return nil
}
