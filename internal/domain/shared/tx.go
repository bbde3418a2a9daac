package shared

import "context"

// TransactionManager runs a function within one storage transaction.
// The context passed to fn carries the transaction; repository calls
// made with it join the transaction, and an error from fn rolls the
// whole unit back.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
