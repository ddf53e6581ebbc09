// Package assignment contains the Assignment ledger entity: the append-only
// record of matching decisions. Assignments are never mutated or deleted;
// reassignment voids the active record and appends a new one, preserving the
// full decision history for audit.
package assignment
