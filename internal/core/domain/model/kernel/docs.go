// Package kernel contains the shared value objects of the domain model:
// identifiers, service zones, meal kinds, delivery windows, and monetary
// amounts. These are the building blocks the order, provider, and assignment
// aggregates are composed of.
//
// All types in this package are immutable value objects. Zero values are
// invalid; instances must be created through the provided constructor
// functions, which enforce the validation rules, and expose a Validate
// method for use when reconstructing state from persistence.
package kernel
