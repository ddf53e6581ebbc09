// Package inmem provides a mutex-guarded in-memory implementation of the
// persistence ports. It backs unit and concurrency tests; semantics mirror
// the postgres adapter, including atomic capacity reservation.
package inmem

import (
	"context"
	"slices"
	"sync"

	"mealmatch/internal/core/domain/model/assignment"
	"mealmatch/internal/core/domain/model/kernel"
	"mealmatch/internal/core/domain/model/order"
	"mealmatch/internal/core/domain/model/provider"
	"mealmatch/internal/pkg/errs"

	"github.com/google/uuid"
)

// Store holds all aggregates behind a single mutex. The mutex is the
// serialization point for capacity reservations, playing the role the
// conditional UPDATE plays in the postgres adapter.
type Store struct {
	mu          sync.Mutex
	orders      map[uuid.UUID]*order.Order
	orderArrive []uuid.UUID
	providers   map[uuid.UUID]*provider.Provider
	assignments map[uuid.UUID]*assignment.Assignment
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		orders:      make(map[uuid.UUID]*order.Order),
		providers:   make(map[uuid.UUID]*provider.Provider),
		assignments: make(map[uuid.UUID]*assignment.Assignment),
	}
}

// cloneOrder produces an independent copy so callers cannot mutate stored
// state without going through Update.
func cloneOrder(o *order.Order) (*order.Order, error) {
	return order.RestoreOrder(
		o.ID(), o.UserID(), o.Kind(), o.Zone(), o.Window(), o.Total(), o.Status(), o.Provider(),
	)
}

func cloneProvider(p *provider.Provider) (*provider.Provider, error) {
	return provider.RestoreProvider(
		p.ID(), p.Name(), p.Kind(), p.Zone(), p.Rating(),
		p.Specialties(), p.CurrentLoad(), p.MaxCapacity(), p.IsAvailable(),
	)
}

func cloneAssignment(a *assignment.Assignment) (*assignment.Assignment, error) {
	return assignment.RestoreAssignment(
		a.ID(), a.OrderID(), a.ProviderID(), a.CreatedAt(), a.Rationale(), !a.IsActive(), a.VoidedAt(),
	)
}

// OrderRepository is the in-memory implementation of ports.OrderRepository.
type OrderRepository struct {
	store *Store
}

// NewOrderRepository creates an order repository over the given store.
func NewOrderRepository(store *Store) *OrderRepository {
	return &OrderRepository{store: store}
}

// Add saves a new order.
func (r *OrderRepository) Add(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	clone, err := cloneOrder(aggregate)
	if err != nil {
		return err
	}

	key := aggregate.ID().Bytes()
	if _, exists := r.store.orders[key]; !exists {
		r.store.orderArrive = append(r.store.orderArrive, key)
	}
	r.store.orders[key] = clone
	return nil
}

// Update saves an existing order.
func (r *OrderRepository) Update(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := aggregate.ID().Bytes()
	if _, exists := r.store.orders[key]; !exists {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}

	clone, err := cloneOrder(aggregate)
	if err != nil {
		return err
	}

	r.store.orders[key] = clone
	return nil
}

// UpdateFrom saves an existing order only if its stored status still matches
// the status the caller read. The store mutex makes the check and the write
// atomic, mirroring the row predicate of the postgres adapter.
func (r *OrderRepository) UpdateFrom(_ context.Context, aggregate *order.Order, from order.Status) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if err := from.Validate(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := aggregate.ID().Bytes()
	current, exists := r.store.orders[key]
	if !exists {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}

	if current.Status() != from {
		return order.ErrStatusConflict
	}

	clone, err := cloneOrder(aggregate)
	if err != nil {
		return err
	}

	r.store.orders[key] = clone
	return nil
}

// Get retrieves an order by ID.
func (r *OrderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	o, exists := r.store.orders[id.Bytes()]
	if !exists {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}

	return cloneOrder(o)
}

// GetFirstUnassigned retrieves the oldest order still waiting for a provider.
func (r *OrderRepository) GetFirstUnassigned(_ context.Context) (*order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, key := range r.store.orderArrive {
		o := r.store.orders[key]
		if o != nil && o.Status() == order.Unassigned {
			return cloneOrder(o)
		}
	}

	return nil, errs.NewObjectNotFoundError("order", "unassigned")
}

// ProviderRepository is the in-memory implementation of ports.ProviderRepository.
type ProviderRepository struct {
	store *Store
}

// NewProviderRepository creates a provider repository over the given store.
func NewProviderRepository(store *Store) *ProviderRepository {
	return &ProviderRepository{store: store}
}

// Add saves a new provider.
func (r *ProviderRepository) Add(_ context.Context, aggregate *provider.Provider) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	clone, err := cloneProvider(aggregate)
	if err != nil {
		return err
	}

	r.store.providers[aggregate.ID().Bytes()] = clone
	return nil
}

// Update saves an existing provider. The load counter is never taken from the
// aggregate snapshot; the stored value, owned by Reserve and Release, wins.
func (r *ProviderRepository) Update(_ context.Context, aggregate *provider.Provider) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := aggregate.ID().Bytes()
	current, exists := r.store.providers[key]
	if !exists {
		return errs.NewObjectNotFoundError("provider", aggregate.ID().String())
	}

	clone, err := provider.RestoreProvider(
		aggregate.ID(), aggregate.Name(), aggregate.Kind(), aggregate.Zone(), aggregate.Rating(),
		aggregate.Specialties(), current.CurrentLoad(), aggregate.MaxCapacity(), aggregate.IsAvailable(),
	)
	if err != nil {
		return err
	}

	r.store.providers[key] = clone
	return nil
}

// Get retrieves a provider by ID.
func (r *ProviderRepository) Get(_ context.Context, id kernel.UUID) (*provider.Provider, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	p, exists := r.store.providers[id.Bytes()]
	if !exists {
		return nil, errs.NewObjectNotFoundError("provider", id.String())
	}

	return cloneProvider(p)
}

// GetAll retrieves all registered providers sorted by name.
func (r *ProviderRepository) GetAll(_ context.Context) ([]*provider.Provider, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	providers := make([]*provider.Provider, 0, len(r.store.providers))
	for _, p := range r.store.providers {
		clone, err := cloneProvider(p)
		if err != nil {
			return nil, err
		}
		providers = append(providers, clone)
	}

	slices.SortFunc(providers, func(a, b *provider.Provider) int {
		switch {
		case a.Name() < b.Name():
			return -1
		case a.Name() > b.Name():
			return 1
		default:
			return 0
		}
	})

	return providers, nil
}

// FindEligible retrieves the candidate providers for a zone and meal kind,
// best rated first and least loaded on ties.
func (r *ProviderRepository) FindEligible(
	_ context.Context,
	zone kernel.Zone,
	kind kernel.MealKind,
) ([]*provider.Provider, error) {
	if err := zone.Validate(); err != nil {
		return nil, err
	}
	if err := kind.Validate(); err != nil {
		return nil, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	candidates := make([]*provider.Provider, 0)
	for _, p := range r.store.providers {
		if !p.IsAvailable() || !p.Zone().IsEqual(zone) || p.Kind() != kind || p.RemainingCapacity() == 0 {
			continue
		}

		clone, err := cloneProvider(p)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, clone)
	}

	slices.SortStableFunc(candidates, func(a, b *provider.Provider) int {
		switch {
		case a.Rating() > b.Rating():
			return -1
		case a.Rating() < b.Rating():
			return 1
		case a.LoadRatio() < b.LoadRatio():
			return -1
		case a.LoadRatio() > b.LoadRatio():
			return 1
		default:
			return 0
		}
	})

	return candidates, nil
}

// Reserve atomically takes one capacity slot on the provider. The store mutex
// serializes concurrent attempts, so the last slot goes to exactly one caller.
func (r *ProviderRepository) Reserve(_ context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	p, exists := r.store.providers[id.Bytes()]
	if !exists {
		return errs.NewObjectNotFoundError("provider", id.String())
	}

	return p.Reserve()
}

// Release atomically frees one capacity slot on the provider.
func (r *ProviderRepository) Release(_ context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	p, exists := r.store.providers[id.Bytes()]
	if !exists {
		return errs.NewObjectNotFoundError("provider", id.String())
	}

	return p.Release()
}

// AssignmentRepository is the in-memory implementation of ports.AssignmentRepository.
type AssignmentRepository struct {
	store *Store
}

// NewAssignmentRepository creates an assignment repository over the given store.
func NewAssignmentRepository(store *Store) *AssignmentRepository {
	return &AssignmentRepository{store: store}
}

// Add appends a new assignment record to the ledger.
func (r *AssignmentRepository) Add(_ context.Context, aggregate *assignment.Assignment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	clone, err := cloneAssignment(aggregate)
	if err != nil {
		return err
	}

	r.store.assignments[aggregate.ID().Bytes()] = clone
	return nil
}

// Update persists changes to an existing assignment record.
func (r *AssignmentRepository) Update(_ context.Context, aggregate *assignment.Assignment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := aggregate.ID().Bytes()
	if _, exists := r.store.assignments[key]; !exists {
		return errs.NewObjectNotFoundError("assignment", aggregate.ID().String())
	}

	clone, err := cloneAssignment(aggregate)
	if err != nil {
		return err
	}

	r.store.assignments[key] = clone
	return nil
}

// GetActiveByOrderID retrieves the single non-voided assignment for an order.
func (r *AssignmentRepository) GetActiveByOrderID(
	_ context.Context,
	orderID kernel.UUID,
) (*assignment.Assignment, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, a := range r.store.assignments {
		if a.OrderID().IsEqual(orderID) && a.IsActive() {
			return cloneAssignment(a)
		}
	}

	return nil, errs.NewObjectNotFoundError("assignment", orderID.String())
}
