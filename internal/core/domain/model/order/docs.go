// Package order contains the Order aggregate root and its lifecycle state
// machine. An order enters the system after checkout in Unassigned status,
// is matched to a provider by the matching engine, and proceeds through
// Assigned, Confirmed, and Completed, with Cancelled reachable from every
// non-final state.
package order
