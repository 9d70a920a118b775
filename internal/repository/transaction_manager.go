package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pawcheck/internal/domain"
	"pawcheck/internal/logger"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type txKey struct{}

// txFrom returns the transaction stored by WithTransaction, if any.
func txFrom(ctx context.Context) (*sqlx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sqlx.Tx)
	return tx, ok
}

// GetExecutor returns the transaction carried by ctx, or db outside one.
func GetExecutor(ctx context.Context, db DBTX) DBTX {
	if tx, ok := txFrom(ctx); ok {
		return tx
	}
	return db
}

// TransactionManagerAdapter runs recorder writes in sqlx transactions.
type TransactionManagerAdapter struct {
	db *sqlx.DB
	// slow marks transactions worth a warning; the record + evict pair
	// normally finishes in a few milliseconds.
	slow time.Duration
}

// NewTransactionManagerAdapter creates a transaction manager on db.
func NewTransactionManagerAdapter(db *sqlx.DB) domain.TransactionManager {
	return &TransactionManagerAdapter{db: db, slow: 500 * time.Millisecond}
}

// WithTransaction commits when fn returns nil and rolls back otherwise.
// Nested calls join the outer transaction. A panic in fn rolls back and
// is re-raised.
func (m *TransactionManagerAdapter) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := txFrom(ctx); ok {
		return fn(ctx)
	}

	start := time.Now()
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Get().Error("Failed to roll back transaction", zap.Error(rbErr))
			if err != nil {
				err = errors.Join(err, fmt.Errorf("failed to rollback transaction: %w", rbErr))
			}
		}
		if p := recover(); p != nil {
			panic(p)
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		committed = true // a failed commit leaves nothing to roll back
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true

	if elapsed := time.Since(start); elapsed > m.slow {
		logger.Get().Warn("Slow transaction", zap.Duration("elapsed", elapsed))
	}
	return nil
}
