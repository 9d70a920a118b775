package domain

import "context"

// TransactionManager runs fn inside one database transaction. The context
// passed to fn carries the transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
