// Package services – OrderService
//
// This file implements OrderService, which owns recording of structured
// supplier orders. Batches are upserted record by record: a failure on one
// record is collected into the summary and never aborts its siblings, so
// re-submitting the same batch always converges to the same stored state.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/iabhiroop/go-procure-backend/internal/domain"
	"github.com/iabhiroop/go-procure-backend/internal/repo"
)

// OrderRepo defines the repository contract required by OrderService.
type OrderRepo interface {
	// UpsertOrder inserts or replaces a record, reporting which happened.
	UpsertOrder(ctx context.Context, db *gorm.DB, rec *domain.OrderRecord) (string, error)

	// GetOrder fetches a record by order id.
	GetOrder(ctx context.Context, db *gorm.DB, orderID string) (*domain.OrderRecord, error)

	// CountOrders returns the total number of stored orders.
	CountOrders(ctx context.Context, db *gorm.DB) (int64, error)

	// ListOrdersPage returns a page of orders.
	ListOrdersPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.OrderRecord, error)
}

// SavedOrder reports the outcome for one record in an upsert batch.
type SavedOrder struct {
	OrderID string `json:"order_id"`
	Action  string `json:"action"` // "inserted" or "updated"
}

// RecordError reports a per-record failure within an upsert batch.
type RecordError struct {
	OrderID string `json:"order_id"`
	Error   string `json:"error"`
}

// UpsertSummary is the structured result of an upsert batch.
type UpsertSummary struct {
	Status      string        `json:"status"` // success | partial_success
	TotalSaved  int           `json:"total_saved"`
	SavedOrders []SavedOrder  `json:"saved_orders"`
	Errors      []RecordError `json:"errors"`
}

// OrderService records extracted orders and serves lookups.
type OrderService struct {
	DB   *gorm.DB
	Repo OrderRepo
}

// NewOrderService constructs an OrderService bound to db.
func NewOrderService(db *gorm.DB, r OrderRepo) *OrderService {
	return &OrderService{DB: db, Repo: r}
}

// UpsertMany stores each extraction result as an order record keyed by its
// order id (synthesized when absent), stamping status "pending" and
// attaching the extraction metadata block. Per-record storage failures are
// collected into the summary; the rest of the batch still commits.
func (s *OrderService) UpsertMany(ctx context.Context, records []*domain.ExtractionData, meta *domain.ExtractionMetadata) (*UpsertSummary, error) {
	if len(records) == 0 {
		return nil, ErrNoOrders
	}

	summary := &UpsertSummary{
		SavedOrders: []SavedOrder{},
		Errors:      []RecordError{},
	}
	for _, data := range records {
		if data == nil {
			summary.Errors = append(summary.Errors, RecordError{OrderID: "unknown", Error: "nil record"})
			continue
		}
		rec := domain.OrderRecordFromExtraction(data, meta)
		action, err := s.Repo.UpsertOrder(ctx, s.DB, rec)
		if err != nil {
			summary.Errors = append(summary.Errors, RecordError{OrderID: rec.OrderID, Error: err.Error()})
			continue
		}
		summary.SavedOrders = append(summary.SavedOrders, SavedOrder{OrderID: rec.OrderID, Action: action})
		summary.TotalSaved++
	}

	if len(summary.Errors) == 0 {
		summary.Status = "success"
	} else {
		summary.Status = "partial_success"
	}
	return summary, nil
}

// GetByID returns the stored record for orderID, or ErrOrderNotFound.
func (s *OrderService) GetByID(ctx context.Context, orderID string) (*domain.OrderRecord, error) {
	rec, err := s.Repo.GetOrder(ctx, s.DB, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return rec, nil
}

// ListPage returns a page of stored orders and the total count. Invalid
// page/pageSize values fall back to defaults.
func (s *OrderService) ListPage(ctx context.Context, page, pageSize int) ([]domain.OrderRecord, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := s.Repo.CountOrders(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.OrderRecord{}, 0, nil
	}

	items, err := s.Repo.ListOrdersPage(ctx, s.DB, offset, pageSize)
	return items, total, err
}

// orderRepoShim adapts the repo free functions to the OrderRepo interface.
type orderRepoShim struct{}

// DefaultOrderRepo returns the production repository implementation.
func DefaultOrderRepo() OrderRepo { return orderRepoShim{} }

func (orderRepoShim) UpsertOrder(ctx context.Context, db *gorm.DB, rec *domain.OrderRecord) (string, error) {
	return repo.UpsertOrder(ctx, db, rec)
}

func (orderRepoShim) GetOrder(ctx context.Context, db *gorm.DB, orderID string) (*domain.OrderRecord, error) {
	return repo.GetOrder(ctx, db, orderID)
}

func (orderRepoShim) CountOrders(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.CountOrders(ctx, db)
}

func (orderRepoShim) ListOrdersPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.OrderRecord, error) {
	return repo.ListOrdersPage(ctx, db, offset, limit)
}
