package inmem

import (
	"context"

	"mealmatch/internal/core/ports"
)

// UnitOfWorkFactory creates UnitOfWork instances over a shared in-memory
// store.
type UnitOfWorkFactory struct {
	store *Store
}

// NewUnitOfWorkFactory creates a factory over the given store.
func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

// Create produces a new UnitOfWork instance.
func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

// UnitOfWork is the in-memory unit of work. The store applies every mutation
// immediately under its mutex, so Begin, Commit, and Rollback carry no
// transactional weight here; atomicity of the individual reservation and save
// operations is what the concurrency guarantees rest on.
type UnitOfWork struct {
	store *Store
}

// Begin is a no-op for the in-memory store.
func (uow *UnitOfWork) Begin(_ context.Context) error {
	return nil
}

// Commit is a no-op for the in-memory store.
func (uow *UnitOfWork) Commit(_ context.Context) error {
	return nil
}

// Rollback is a no-op for the in-memory store. Changes applied before a
// failure are not reverted; tests asserting rollback semantics belong to the
// postgres adapter.
func (uow *UnitOfWork) Rollback(_ context.Context) error {
	return nil
}

// OrderRepository returns the order repository over the shared store.
func (uow *UnitOfWork) OrderRepository() ports.OrderRepository {
	return NewOrderRepository(uow.store)
}

// ProviderRepository returns the provider repository over the shared store.
func (uow *UnitOfWork) ProviderRepository() ports.ProviderRepository {
	return NewProviderRepository(uow.store)
}

// AssignmentRepository returns the assignment repository over the shared store.
func (uow *UnitOfWork) AssignmentRepository() ports.AssignmentRepository {
	return NewAssignmentRepository(uow.store)
}
