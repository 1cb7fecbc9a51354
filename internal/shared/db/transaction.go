// Package db carries a gorm transaction through context so that one unit of
// work spans every repository it touches.
package db

import (
	"context"

	"gorm.io/gorm"
)

// txKey is the context key holding the active transaction.
type txKey struct{}

// TransactionManager opens the transaction around a mutating use case. A
// ticket transition commits together with the approval process it
// instantiates and the timeline entry it writes; a step decision commits
// together with the ticket transition it triggers. Repositories called inside
// the unit of work pick the transaction out of the context.
type TransactionManager struct {
	db *gorm.DB
}

func NewTransactionManager(db *gorm.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// RunInTransaction executes fn inside one gorm transaction. An error from fn
// rolls everything back; a nil return commits.
func (tm *TransactionManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, txKey{}, tx)
		return fn(txCtx)
	})
}

// GetTx returns the transaction from context if one is open, otherwise the
// base connection.
func (tm *TransactionManager) GetTx(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return tm.db.WithContext(ctx)
}

// GetTxFromContext is the repository-side accessor: it joins the ambient
// transaction when the caller opened one and falls back to the default
// connection for plain reads.
func GetTxFromContext(ctx context.Context, defaultDB *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return defaultDB.WithContext(ctx)
}
