// Order record handlers.
//
// Endpoints:
//   - POST /orders       (upsert a batch of extracted order records)
//   - GET  /orders       (paginated list)
//   - GET  /orders/:id   (fetch a single record)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iabhiroop/go-procure-backend/internal/domain"
	"github.com/iabhiroop/go-procure-backend/internal/services"
)

// UpsertOrdersRequest is the JSON payload for the batch order upsert.
type UpsertOrdersRequest struct {
	Records  []*domain.ExtractionData   `json:"records"`
	Metadata *domain.ExtractionMetadata `json:"metadata,omitempty"`
}

// ListOrdersResponse wraps a page of order records.
type ListOrdersResponse struct {
	Status     string               `json:"status"`
	Orders     []domain.OrderRecord `json:"orders"`
	Pagination Pagination           `json:"pagination"`
}

// OrderResponse wraps a single order record.
type OrderResponse struct {
	Status string              `json:"status"`
	Order  *domain.OrderRecord `json:"order"`
}

// UpsertOrders stores a batch of order records. Individual record failures
// do not abort the batch; the summary reports them with
// status=partial_success.
func (h *Handlers) UpsertOrders(c *gin.Context) {
	var req UpsertOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	summary, err := h.orderSvc.UpsertMany(c.Request.Context(), req.Records, req.Metadata)
	if err != nil {
		if errors.Is(err, services.ErrNoOrders) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "records list cannot be empty")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeStorageFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, summary)
}

// GetOrder fetches one order record by its business key.
func (h *Handlers) GetOrder(c *gin.Context) {
	rec, err := h.orderSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "order record not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, OrderResponse{Status: StatusSuccess, Order: rec})
}

// ListOrders returns a page of order records, newest first.
func (h *Handlers) ListOrders(c *gin.Context) {
	page, pageSize := clampPagination(c)

	items, total, err := h.orderSvc.ListPage(c.Request.Context(), page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListOrdersResponse{
		Status: StatusSuccess,
		Orders: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}
