package domain

import "context"

// Stores bundles the repositories participating in one atomic unit of work.
type Stores struct {
	Movies  MovieRepository
	Reviews ReviewRepository
}

// TxManager runs a function inside a single database transaction. The Stores
// handed to fn are bound to that transaction: either everything fn writes is
// committed or none of it is. A review write and the recompute of its movie's
// rating always go through the same TxManager call, so a reader can never
// observe one without the other.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(s Stores) error) error
}
