// Purchase request queue handlers.
//
// Endpoints:
//   - POST /requests               (enqueue a validated purchase request)
//   - GET  /requests               (list pending)
//   - POST /requests/:id/complete  (mark processed)
//   - GET  /requests/status        (queue counts)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/iabhiroop/go-procure-backend/internal/docgen"
	"github.com/iabhiroop/go-procure-backend/internal/domain"
	"github.com/iabhiroop/go-procure-backend/internal/mail"
	"github.com/iabhiroop/go-procure-backend/internal/queue"
	"github.com/iabhiroop/go-procure-backend/internal/services"
	"github.com/iabhiroop/go-procure-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// RequestQueue defines the purchase-request queue operations consumed by
// HTTP handlers. Implementations must be safe for concurrent use.
type RequestQueue interface {
	// Enqueue appends a pending request and returns its ID and the new
	// pending count.
	Enqueue(ctx context.Context, validationData json.RawMessage) (string, int, error)
	// Pending returns the pending requests in FIFO order.
	Pending(ctx context.Context) ([]queue.PurchaseRequest, error)
	// Complete moves a pending request to completed and returns the
	// remaining pending count.
	Complete(ctx context.Context, requestID string) (int, error)
	// Status reports pending/completed counts.
	Status(ctx context.Context) (queue.Status, error)
}

// OrderStore defines order-record operations consumed by HTTP handlers.
type OrderStore interface {
	UpsertMany(ctx context.Context, records []*domain.ExtractionData, meta *domain.ExtractionMetadata) (*services.UpsertSummary, error)
	GetByID(ctx context.Context, orderID string) (*domain.OrderRecord, error)
	ListPage(ctx context.Context, page, pageSize int) ([]domain.OrderRecord, int64, error)
}

// DocumentProcessor runs the extraction pipeline and persists the results.
type DocumentProcessor interface {
	ProcessDocuments(ctx context.Context, paths []string) (*services.ExtractReport, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for requests, orders, extractions,
// inventory, documents, and budget checks.
type Handlers struct {
	queueSvc   RequestQueue
	orderSvc   OrderStore
	extractSvc DocumentProcessor
	db         *gorm.DB
	generator  *docgen.Generator
	sender     *mail.Sender
	fetcher    *mail.Fetcher
}

// New constructs a Handlers instance bound to the given collaborators.
// sender and fetcher may be nil when outbound mail is not configured; the
// corresponding endpoints then reject with mail_disabled.
func New(queueSvc RequestQueue, orderSvc OrderStore, extractSvc DocumentProcessor, db *gorm.DB, gen *docgen.Generator, sender *mail.Sender, fetcher *mail.Fetcher) *Handlers {
	return &Handlers{
		queueSvc:   queueSvc,
		orderSvc:   orderSvc,
		extractSvc: extractSvc,
		db:         db,
		generator:  gen,
		sender:     sender,
		fetcher:    fetcher,
	}
}

//
// DTOs
//

// EnqueueRequest is the JSON payload for enqueueing a purchase request.
// ValidationData is stored verbatim; its internal shape is not inspected.
type EnqueueRequest struct {
	ValidationData json.RawMessage `json:"validation_data"`
}

// EnqueueResponse confirms a queued purchase request.
type EnqueueResponse struct {
	Status       string `json:"status"`
	RequestID    string `json:"request_id"`
	PendingCount int    `json:"pending_count"`
}

// PendingResponse wraps the pending queue listing.
type PendingResponse struct {
	Status          string                  `json:"status"`
	PendingRequests []queue.PurchaseRequest `json:"pending_requests"`
	Count           int                     `json:"count"`
}

// CompleteResponse confirms a completed purchase request.
type CompleteResponse struct {
	Status           string `json:"status"`
	RequestID        string `json:"request_id"`
	RemainingPending int    `json:"remaining_pending"`
}

// QueueStatusResponse reports queue counters.
type QueueStatusResponse struct {
	Status      string    `json:"status"`
	Pending     int       `json:"pending"`
	Completed   int       `json:"completed"`
	LastUpdated time.Time `json:"last_updated"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params.
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

//
// Handlers
//

// EnqueuePurchaseRequest queues a validated purchase request for order
// processing.
func (h *Handlers) EnqueuePurchaseRequest(c *gin.Context) {
	var req EnqueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	id, pending, err := h.queueSvc.Enqueue(c.Request.Context(), req.ValidationData)
	if err != nil {
		if errors.Is(err, services.ErrEmptyValidationData) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "validation_data is required")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeEnqueueFailed, err.Error())
		return
	}

	ok(c, http.StatusCreated, EnqueueResponse{
		Status:       StatusSuccess,
		RequestID:    id,
		PendingCount: pending,
	})
}

// ListPendingRequests returns the pending queue in FIFO order.
func (h *Handlers) ListPendingRequests(c *gin.Context) {
	pending, err := h.queueSvc.Pending(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, PendingResponse{
		Status:          StatusSuccess,
		PendingRequests: pending,
		Count:           len(pending),
	})
}

// CompleteRequest marks a pending request as processed.
func (h *Handlers) CompleteRequest(c *gin.Context) {
	id := c.Param("id")
	remaining, err := h.queueSvc.Complete(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrRequestNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "request not found in pending queue")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, CompleteResponse{
		Status:           StatusSuccess,
		RequestID:        id,
		RemainingPending: remaining,
	})
}

// QueueStatus reports pending/completed counters.
func (h *Handlers) QueueStatus(c *gin.Context) {
	st, err := h.queueSvc.Status(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, QueueStatusResponse{
		Status:      StatusSuccess,
		Pending:     st.Pending,
		Completed:   st.Completed,
		LastUpdated: st.LastUpdated,
	})
}
