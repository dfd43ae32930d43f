package unitofwork

import "context"

// RepositoryFactory hands each service call its own UnitOfWork bound to ctx.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
