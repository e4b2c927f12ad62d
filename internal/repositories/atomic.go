package repositories

import "context"

// Repos bundles the repositories that participate in one unit of work.
type Repos struct {
	Products ProductRepository
	Carts    CartRepository
	Orders   OrderRepository
}

// Atomic runs a function against a transaction-scoped repository set. Every
// mutation made through the passed Repos is committed together. If the
// function returns an error or the context deadline expires, none is.
type Atomic interface {
	Transact(ctx context.Context, fn func(Repos) error) error
}
