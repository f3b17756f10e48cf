// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// OrderRecord model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When an order is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/iabhiroop/go-procure-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for consistency across the service
// layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// Upsert actions reported to callers.
const (
	ActionInserted = "inserted"
	ActionUpdated  = "updated"
)

// UpsertOrder inserts rec, or replaces the existing record sharing its
// order id in place (last-writer-wins). CreatedAt is preserved from the
// prior record on update and set to now on insert; UpdatedAt is refreshed
// on every write. It returns which action was taken.
func UpsertOrder(ctx context.Context, db *gorm.DB, rec *domain.OrderRecord) (string, error) {
	now := time.Now().UTC()

	var existing domain.OrderRecord
	err := db.WithContext(ctx).First(&existing, "order_id = ?", rec.OrderID).Error
	switch {
	case err == nil:
		rec.CreatedAt = existing.CreatedAt
		rec.UpdatedAt = now
		if err := db.WithContext(ctx).Save(rec).Error; err != nil {
			return "", err
		}
		return ActionUpdated, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		rec.CreatedAt = now
		rec.UpdatedAt = now
		if err := db.WithContext(ctx).Create(rec).Error; err != nil {
			return "", err
		}
		return ActionInserted, nil
	default:
		return "", err
	}
}

// GetOrder fetches a single order by id. If the record does not exist it
// returns ErrNotFound; other DB errors are returned raw.
func GetOrder(ctx context.Context, db *gorm.DB, orderID string) (*domain.OrderRecord, error) {
	var rec domain.OrderRecord
	if err := db.WithContext(ctx).First(&rec, "order_id = ?", orderID).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// CountOrders returns the total number of stored orders.
func CountOrders(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.OrderRecord{}).Count(&total).Error
	return total, err
}

// ListOrdersPage returns a page of orders, most recently updated first.
// The caller computes offset and limit (e.g., (page-1)*pageSize).
func ListOrdersPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.OrderRecord, error) {
	var out []domain.OrderRecord
	err := db.WithContext(ctx).
		Order("updated_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
