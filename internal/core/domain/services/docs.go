// Package services contains stateless domain services that implement business
// policies spanning multiple aggregates. ProviderMatcher encapsulates the
// order-to-provider matching policy used by the assignment workflow.
package services
