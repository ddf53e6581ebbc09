package provider

import (
	"errors"
	"fmt"
	"slices"

	"mealmatch/internal/core/domain/model/kernel"
	"mealmatch/internal/core/domain/model/order"
	"mealmatch/internal/pkg/errs"
	"mealmatch/internal/pkg/guard"
)

const (
	// minRating and maxRating bound the performance score a provider can carry.
	minRating = 0.0
	maxRating = 5.0
)

// Domain errors for provider operations.
var (
	// ErrNameIsRequired is returned when attempting to create a provider without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrProviderIsNotConstructed is returned when using an improperly initialized Provider.
	ErrProviderIsNotConstructed = errors.New("Provider must be created via NewProvider constructor")
	// ErrCapacityExceeded is returned by Reserve when the provider has no free
	// capacity slot. This is a recoverable condition: the matching engine falls
	// through to the next candidate instead of failing the assignment.
	ErrCapacityExceeded = errors.New("provider capacity exceeded")
	// ErrLoadUnderflow is returned by Release when the provider holds no
	// reservations. This indicates a logic error in the caller; the load is
	// left at zero and the caller is expected to log the condition.
	ErrLoadUnderflow = errors.New("provider load underflow")
)

// Provider represents a meal provider on the platform: a restaurant vendor or
// an independent home chef. It is an aggregate root that manages provider
// identity, service eligibility, and capacity reservations.
//
// Key responsibilities:
//   - Managing provider identity (ID, name, kind, zone, rating, specialties)
//   - Enforcing the capacity invariant 0 <= currentLoad <= maxCapacity
//   - Deciding eligibility for a given order (zone, kind, availability, free capacity)
//   - Gating new matches via the availability flag
//
// Business rules:
//   - Provider must have a valid UUID, non-empty name, valid kind and zone
//   - Rating is bounded to [0, 5]
//   - Maximum capacity must be positive
//   - Reserve never exceeds capacity; it fails with ErrCapacityExceeded instead
//   - Release never drives the load below zero; it fails with ErrLoadUnderflow
//   - Flipping availability to false does not touch held reservations;
//     in-flight orders are left to complete
type Provider struct {
	// id uniquely identifies the provider
	id kernel.UUID
	// name is the human-readable name of the provider
	name string
	// kind distinguishes restaurant vendors from home chefs
	kind kernel.MealKind
	// zone is the service zone the provider delivers in
	zone kernel.Zone
	// rating is the performance score used by the matching policy
	rating float64
	// specialties is the set of cuisine tags the provider advertises
	specialties []string
	// currentLoad is the number of capacity slots currently reserved
	currentLoad int
	// maxCapacity is the number of concurrent orders the provider can serve
	maxCapacity int
	// available gates whether the provider is considered for new matches
	available bool
	// guard ensures the provider was properly constructed
	guard guard.ConstructorGuard
}

// NewProvider creates a new Provider with the specified parameters.
// This is the only way to create a valid fresh Provider instance.
//
// The provider starts available with zero load. Specialties can be added
// afterwards via AddSpecialty.
//
// Parameters:
//   - id: Unique identifier for the provider
//   - name: Human-readable name (must be non-empty)
//   - kind: Provider category (vendor or chef)
//   - zone: Service zone the provider delivers in
//   - rating: Performance score in [0, 5]
//   - maxCapacity: Number of concurrent orders the provider can serve (must be positive)
//
// Returns the created provider, or a validation error if any parameter is
// invalid (aggregated errors for multiple issues).
func NewProvider(
	id kernel.UUID,
	name string,
	kind kernel.MealKind,
	zone kernel.Zone,
	rating float64,
	maxCapacity int,
) (*Provider, error) {
	provider := &Provider{
		available: true,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		provider.setID(id),
		provider.setName(name),
		provider.setKind(kind),
		provider.setZone(zone),
		provider.setRating(rating),
		provider.setMaxCapacity(maxCapacity),
	); err != nil {
		return nil, err
	}

	return provider, nil
}

// RestoreProvider reconstructs a Provider aggregate from persistent storage.
// Unlike NewProvider, which creates fresh providers with zero load, this
// constructor restores a provider to its previously persisted state,
// including current load, specialties, and availability.
func RestoreProvider(
	id kernel.UUID,
	name string,
	kind kernel.MealKind,
	zone kernel.Zone,
	rating float64,
	specialties []string,
	currentLoad int,
	maxCapacity int,
	available bool,
) (*Provider, error) {
	provider := &Provider{
		available: available,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		provider.setID(id),
		provider.setName(name),
		provider.setKind(kind),
		provider.setZone(zone),
		provider.setRating(rating),
		provider.setMaxCapacity(maxCapacity),
		provider.setSpecialties(specialties),
	); err != nil {
		return nil, err
	}

	if err := provider.setCurrentLoad(currentLoad); err != nil {
		return nil, err
	}

	return provider, nil
}

// Validate checks if the Provider was properly constructed using a factory
// function. The zero value of Provider is invalid and fails this validation.
func (p *Provider) Validate() error {
	if p == nil {
		return ErrProviderIsNotConstructed
	}
	return p.guard.Validate(ErrProviderIsNotConstructed)
}

// IsEqual compares two providers for equality based on their unique identifiers.
func (p *Provider) IsEqual(other *Provider) bool {
	if other == nil {
		return false
	}
	return p.id.IsEqual(other.id)
}

// ID returns the unique identifier of the provider.
func (p *Provider) ID() kernel.UUID {
	return p.id
}

// Name returns the human-readable name of the provider.
func (p *Provider) Name() string {
	return p.name
}

// Kind returns the provider category (vendor or chef).
func (p *Provider) Kind() kernel.MealKind {
	return p.kind
}

// Zone returns the service zone the provider delivers in.
func (p *Provider) Zone() kernel.Zone {
	return p.zone
}

// Rating returns the performance score used by the matching policy.
func (p *Provider) Rating() float64 {
	return p.rating
}

// Specialties returns the cuisine tags the provider advertises.
// The returned slice is a copy to prevent external modification.
func (p *Provider) Specialties() []string {
	out := make([]string, len(p.specialties))
	copy(out, p.specialties)
	return out
}

// CurrentLoad returns the number of capacity slots currently reserved.
func (p *Provider) CurrentLoad() int {
	return p.currentLoad
}

// MaxCapacity returns the number of concurrent orders the provider can serve.
func (p *Provider) MaxCapacity() int {
	return p.maxCapacity
}

// RemainingCapacity returns the number of free capacity slots.
func (p *Provider) RemainingCapacity() int {
	return p.maxCapacity - p.currentLoad
}

// LoadRatio returns currentLoad/maxCapacity as a fraction in [0, 1].
// Used by the matching policy to balance load across equally rated providers.
func (p *Provider) LoadRatio() float64 {
	return float64(p.currentLoad) / float64(p.maxCapacity)
}

// IsAvailable reports whether the provider is considered for new matches.
func (p *Provider) IsAvailable() bool {
	return p.available
}

// SetAvailability flips the availability flag.
//
// Flipping availability to false only gates future matches; reservations held
// for in-flight orders are untouched and those orders are left to complete.
func (p *Provider) SetAvailability(available bool) {
	p.available = available
}

// AddSpecialty adds a cuisine tag to the provider's specialty set.
// Tags must be non-empty; duplicates are ignored.
func (p *Provider) AddSpecialty(specialty string) error {
	if specialty == "" {
		return errs.NewValueIsRequiredError("specialty")
	}
	if slices.Contains(p.specialties, specialty) {
		return nil
	}

	p.specialties = append(p.specialties, specialty)
	return nil
}

// CanAccept checks if the provider is eligible to serve a specific order.
// This method validates eligibility without reserving capacity.
//
// Eligibility rules:
//   - Order must be valid
//   - Provider zone must match the order zone
//   - Provider kind must match the order's meal kind preference
//   - Provider must be available
//   - Provider must have at least one free capacity slot
//
// Returns:
//   - bool: true if the provider can serve the order
//   - error: validation error if the order is invalid
func (p *Provider) CanAccept(o *order.Order) (bool, error) {
	if err := o.Validate(); err != nil {
		return false, err
	}

	return p.available &&
		p.zone.IsEqual(o.Zone()) &&
		p.kind == o.Kind() &&
		p.RemainingCapacity() > 0, nil
}

// Reserve takes one capacity slot on the provider.
//
// This enforces the capacity invariant directly: if the provider is already
// at maximum capacity, Reserve returns ErrCapacityExceeded and leaves the
// load untouched; it never clamps or silently succeeds. Concurrent
// reservation attempts against shared provider state must be serialized by
// the owning store; see the repository implementations.
func (p *Provider) Reserve() error {
	if p.currentLoad >= p.maxCapacity {
		return ErrCapacityExceeded
	}

	p.currentLoad++
	return nil
}

// Release frees one capacity slot on the provider, typically when an order
// completes or is cancelled.
//
// Releasing with zero load is a logic error: the load stays at zero and
// ErrLoadUnderflow is returned so the caller can log the condition. The error
// must not be propagated to API callers.
func (p *Provider) Release() error {
	if p.currentLoad == 0 {
		return ErrLoadUnderflow
	}

	p.currentLoad--
	return nil
}

// setID sets the provider's unique identifier with validation.
// This is an internal setter used during construction.
func (p *Provider) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	p.id = id
	return nil
}

// setName sets the provider's name with validation.
// This is an internal setter used during construction.
func (p *Provider) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}

	p.name = name
	return nil
}

// setKind sets the provider category with validation.
// This is an internal setter used during construction.
func (p *Provider) setKind(kind kernel.MealKind) error {
	if err := kind.Validate(); err != nil {
		return err
	}

	p.kind = kind
	return nil
}

// setZone sets the service zone with validation.
// This is an internal setter used during construction.
func (p *Provider) setZone(zone kernel.Zone) error {
	if err := zone.Validate(); err != nil {
		return err
	}

	p.zone = zone
	return nil
}

// setRating sets the performance score with range validation.
// This is an internal setter used during construction.
func (p *Provider) setRating(rating float64) error {
	if rating < minRating || rating > maxRating {
		return errs.NewValueIsOutOfRangeError("rating", rating, minRating, maxRating)
	}

	p.rating = rating
	return nil
}

// setMaxCapacity sets the capacity limit with validation.
// This is an internal setter used during construction.
func (p *Provider) setMaxCapacity(maxCapacity int) error {
	if maxCapacity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"maxCapacity is invalid",
			fmt.Errorf("%d is not greater than 0", maxCapacity),
		)
	}

	p.maxCapacity = maxCapacity
	return nil
}

// setSpecialties sets the specialty tags during restoration.
func (p *Provider) setSpecialties(specialties []string) error {
	for _, s := range specialties {
		if err := p.AddSpecialty(s); err != nil {
			return err
		}
	}
	return nil
}

// setCurrentLoad sets the reserved slot count during restoration.
// The load must respect the capacity invariant; must be called after
// setMaxCapacity.
func (p *Provider) setCurrentLoad(currentLoad int) error {
	if currentLoad < 0 || currentLoad > p.maxCapacity {
		return errs.NewValueIsOutOfRangeError("currentLoad", currentLoad, 0, p.maxCapacity)
	}

	p.currentLoad = currentLoad
	return nil
}
