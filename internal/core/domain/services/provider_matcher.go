package services

import (
	"errors"
	"fmt"
	"slices"

	"mealmatch/internal/core/domain/model/order"
	"mealmatch/internal/core/domain/model/provider"
)

// ErrProviderNotFound is returned when no suitable provider is available for
// an order. This occurs when no providers are passed in or none of them is
// eligible (wrong zone or kind, unavailable, or out of capacity).
//
// This is an expected business outcome, not a system failure: zones can
// legitimately lack capacity. Callers keep the order queued and surface it in
// the operator pending queue.
var ErrProviderNotFound = errors.New("no eligible provider found")

// ProviderMatcher is the domain service implementing the matching policy:
// given an order and the providers of its zone, it produces the ranked list
// of candidates the assignment workflow should attempt to reserve, best first.
//
// Ranking policy:
//   - Only eligible providers are considered (zone and kind match, available,
//     free capacity); ineligible candidates are silently skipped
//   - Candidates are ordered by rating descending (quality first)
//   - Ties are broken by load ratio ascending (load-balancing)
//
// The matcher is pure: it performs no I/O and reserves nothing. Capacity
// reservation is the caller's job, attempted candidate by candidate so that a
// reservation lost to a concurrent assignment falls through to the next
// candidate instead of failing the order.
//
// Example usage:
//
//	matcher := services.NewProviderMatcher()
//	candidates, err := matcher.RankCandidates(order, providers)
//	if errors.Is(err, services.ErrProviderNotFound) {
//	    // No capacity in this zone right now; order stays queued
//	    return
//	}
type ProviderMatcher struct{}

// NewProviderMatcher creates a new ProviderMatcher instance.
func NewProviderMatcher() ProviderMatcher {
	return ProviderMatcher{}
}

// RankCandidates validates the order and filters and ranks the given
// providers according to the matching policy.
//
// Parameters:
//   - o: The order to be matched (must be valid and assignable)
//   - providers: The providers to consider
//
// Returns:
//   - []*provider.Provider: Eligible candidates, best match first
//   - error: ErrProviderNotFound if no provider is eligible, or validation errors
func (m ProviderMatcher) RankCandidates(
	o *order.Order,
	providers []*provider.Provider,
) ([]*provider.Provider, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	if err := o.Status().ValidateAssign(); err != nil {
		return nil, err
	}

	candidates := make([]*provider.Provider, 0, len(providers))
	for _, p := range providers {
		if err := p.Validate(); err != nil {
			return nil, err
		}

		eligible, err := p.CanAccept(o)
		if err != nil {
			return nil, err
		}

		if eligible {
			candidates = append(candidates, p)
		}
	}

	if len(candidates) == 0 {
		return nil, ErrProviderNotFound
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

// DecisionRationale builds the human-readable note stored on an assignment
// record, describing where the chosen provider ranked and why.
func (m ProviderMatcher) DecisionRationale(p *provider.Provider, rank, totalCandidates int) string {
	return fmt.Sprintf(
		"ranked %d of %d eligible in zone %s: rating %.1f, load %d/%d",
		rank, totalCandidates, p.Zone(), p.Rating(), p.CurrentLoad(), p.MaxCapacity(),
	)
}
