package http

import (
	"time"
)

// Error is the JSON error body returned by all endpoints.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewOrder is the request body for order intake.
type NewOrder struct {
	UserID      string    `json:"user_id"`
	Kind        string    `json:"kind"`
	Zone        string    `json:"zone"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
	TotalCents  int64     `json:"total_cents"`
}

// OrderCreated is the response body for successful order intake.
type OrderCreated struct {
	ID string `json:"id"`
}

// NewProvider is the request body for provider registration.
type NewProvider struct {
	Name        string   `json:"name"`
	Kind        string   `json:"kind"`
	Zone        string   `json:"zone"`
	Rating      float64  `json:"rating"`
	MaxCapacity int      `json:"max_capacity"`
	Specialties []string `json:"specialties"`
}

// ProviderCreated is the response body for successful provider registration.
type ProviderCreated struct {
	ID string `json:"id"`
}

// Availability is the request body for availability changes.
type Availability struct {
	Available bool `json:"available"`
}

// ManualAssign optionally names the provider for an assignment request.
// An empty body lets the matching engine pick.
type ManualAssign struct {
	ProviderID string `json:"provider_id"`
}

// PendingOrder is one entry in the pending queue response.
type PendingOrder struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Kind        string    `json:"kind"`
	Zone        string    `json:"zone"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
	TotalCents  int64     `json:"total_cents"`
}

// Provider is one entry in the provider registry response.
type Provider struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Kind        string   `json:"kind"`
	Zone        string   `json:"zone"`
	Rating      float64  `json:"rating"`
	Specialties []string `json:"specialties"`
	CurrentLoad int      `json:"current_load"`
	MaxCapacity int      `json:"max_capacity"`
	Available   bool     `json:"available"`
}

// Assignment is the response body for the active assignment of an order.
type Assignment struct {
	ID           string    `json:"id"`
	OrderID      string    `json:"order_id"`
	ProviderID   string    `json:"provider_id"`
	ProviderName string    `json:"provider_name"`
	CreatedAt    time.Time `json:"created_at"`
	Rationale    string    `json:"rationale"`
}
