// Package provider contains the Provider aggregate root: the capacity-holding
// side of the assignment engine. A provider is a restaurant vendor or home
// chef registered in a service zone with a bounded number of concurrent order
// slots. The aggregate owns the capacity invariant (the load never exceeds
// the maximum and never goes negative) and the eligibility rules the matching
// engine filters on.
package provider
