package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Queue errors returned by mutation operations. ErrNotFound is the named,
// non-fatal "already done or never existed" signal for Complete; callers
// that retry completion should treat it as success at the application layer.
var (
	ErrNotFound  = errors.New("request not found in pending queue")
	ErrEmptyData = errors.New("validation data must not be empty")
)

// createdBy / processedBy tags recorded on queue entries.
const (
	createdByValidation = "purchase_validation"
	processedByOrders   = "purchase_order"
)

// Queue manages purchase requests on top of a Store. All operations are
// serialized behind a mutex (single-writer discipline) and perform a full
// load-modify-persist cycle; no state is cached between calls.
//
// The zero value is not usable; construct with New.
type Queue struct {
	store Store
	mu    sync.Mutex
	now   func() time.Time
}

// New returns a Queue backed by store.
func New(store Store) *Queue {
	return &Queue{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Enqueue appends a validated purchase request as pending and persists the
// queue. It returns the generated request id and the number of pending
// entries after the append. The payload is stored verbatim.
func (q *Queue) Enqueue(validationData json.RawMessage) (string, int, error) {
	if len(validationData) == 0 {
		return "", 0, ErrEmptyData
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	st, err := q.store.Load()
	if err != nil {
		return "", 0, err
	}

	now := q.now()
	id := q.generateRequestID(st, now)
	st.PendingRequests = append(st.PendingRequests, PurchaseRequest{
		RequestID:      id,
		Timestamp:      now,
		Status:         StatusPending,
		ValidationData: validationData,
		CreatedBy:      createdByValidation,
	})
	if err := q.store.Save(st); err != nil {
		return "", 0, err
	}
	return id, len(st.PendingRequests), nil
}

// Pending returns all pending requests in original insertion order.
func (q *Queue) Pending() ([]PurchaseRequest, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	st, err := q.store.Load()
	if err != nil {
		return nil, err
	}
	out := make([]PurchaseRequest, len(st.PendingRequests))
	copy(out, st.PendingRequests)
	return out, nil
}

// Complete flips the request to completed, moves it from pending to
// completed, and persists. If the id is not among pending the state is left
// untouched and ErrNotFound is returned; a second Complete for the same id
// therefore always reports not found. Returns the remaining pending count.
func (q *Queue) Complete(requestID string) (int, error) {
	if requestID == "" {
		return 0, ErrNotFound
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	st, err := q.store.Load()
	if err != nil {
		return 0, err
	}

	for i, req := range st.PendingRequests {
		if req.RequestID != requestID {
			continue
		}
		now := q.now()
		req.Status = StatusCompleted
		req.CompletedAt = &now
		req.ProcessedBy = processedByOrders

		st.PendingRequests = append(st.PendingRequests[:i], st.PendingRequests[i+1:]...)
		st.CompletedRequests = append(st.CompletedRequests, req)
		if err := q.store.Save(st); err != nil {
			return 0, err
		}
		return len(st.PendingRequests), nil
	}
	return 0, ErrNotFound
}

// Status returns pending/completed counts and the last persisted update.
func (q *Queue) Status() (Status, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	st, err := q.store.Load()
	if err != nil {
		return Status{}, err
	}
	return Status{
		Pending:     len(st.PendingRequests),
		Completed:   len(st.CompletedRequests),
		LastUpdated: st.Metadata.LastUpdated,
	}, nil
}

// generateRequestID produces "PQ_<yyyymmdd_HHMMSS>". Two enqueues within the
// same second would collide on the bare timestamp, so a numeric suffix is
// appended until the id is unique among pending and completed entries.
func (q *Queue) generateRequestID(st *State, now time.Time) string {
	base := "PQ_" + now.Format("20060102_150405")
	id := base
	for n := 2; taken(st, id); n++ {
		id = fmt.Sprintf("%s_%d", base, n)
	}
	return id
}

func taken(st *State, id string) bool {
	for _, r := range st.PendingRequests {
		if r.RequestID == id {
			return true
		}
	}
	for _, r := range st.CompletedRequests {
		if r.RequestID == id {
			return true
		}
	}
	return false
}
