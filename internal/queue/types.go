// Package queue implements the durable purchase request queue: a store of
// validated purchase requests with two lifecycle states (pending, completed)
// and idempotent mutation operations. Persistence is pluggable through the
// Store interface; every mutation is a full load-modify-persist cycle
// serialized behind a single writer, so crash recovery is simply "reload
// from the last persisted state".
package queue

import (
	"encoding/json"
	"time"
)

// Request lifecycle states. A request starts pending and transitions to
// completed exactly once; no other transitions exist.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// PurchaseRequest is a validated ask to buy goods, queued for
// order-generation. ValidationData is an opaque payload (budget approval,
// totals, line items, supplier info) passed through unmodified; the queue
// never interprets it.
type PurchaseRequest struct {
	RequestID      string          `json:"request_id"`
	Timestamp      time.Time       `json:"timestamp"`
	Status         string          `json:"status"`
	ValidationData json.RawMessage `json:"validation_data"`
	CreatedBy      string          `json:"created_by"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty"`
	ProcessedBy    string          `json:"processed_by,omitempty"`
}

// Metadata records queue creation and the last persisted update.
type Metadata struct {
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`
}

// State is the full persisted representation of the queue.
type State struct {
	PendingRequests   []PurchaseRequest `json:"pending_requests"`
	CompletedRequests []PurchaseRequest `json:"completed_requests"`
	Metadata          Metadata          `json:"metadata"`
}

// Status summarizes queue counts for reporting.
type Status struct {
	Pending     int       `json:"pending_requests"`
	Completed   int       `json:"completed_requests"`
	LastUpdated time.Time `json:"last_updated"`
}

// newState returns an initialized empty queue state.
func newState(now time.Time) *State {
	return &State{
		PendingRequests:   []PurchaseRequest{},
		CompletedRequests: []PurchaseRequest{},
		Metadata:          Metadata{CreatedAt: now, LastUpdated: now},
	}
}
