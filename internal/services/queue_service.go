// Package services – QueueService
//
// This file implements QueueService, a thin orchestration layer over the
// purchase request queue. It maps queue-level errors onto service
// sentinels and instruments operations with OpenTelemetry spans; the queue
// itself stays transport- and telemetry-free.
package services

import (
	"context"
	"encoding/json"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/iabhiroop/go-procure-backend/internal/queue"
)

// QueueService exposes purchase request queue operations to handlers.
type QueueService struct {
	Queue *queue.Queue
}

// NewQueueService constructs a QueueService over q.
func NewQueueService(q *queue.Queue) *QueueService {
	return &QueueService{Queue: q}
}

// Enqueue validates and appends a purchase request, returning the new
// request id and the pending count.
func (s *QueueService) Enqueue(ctx context.Context, validationData json.RawMessage) (string, int, error) {
	tr := otel.Tracer("services/QueueService")
	_, span := tr.Start(ctx, "Enqueue")
	defer span.End()

	id, pending, err := s.Queue.Enqueue(validationData)
	if err != nil {
		if errors.Is(err, queue.ErrEmptyData) {
			return "", 0, ErrEmptyValidationData
		}
		return "", 0, err
	}
	span.SetAttributes(attribute.String("request.id", id))
	return id, pending, nil
}

// Pending lists all pending purchase requests in insertion order.
func (s *QueueService) Pending(ctx context.Context) ([]queue.PurchaseRequest, error) {
	tr := otel.Tracer("services/QueueService")
	_, span := tr.Start(ctx, "Pending")
	defer span.End()

	return s.Queue.Pending()
}

// Complete marks the request as completed. A missing id maps to
// ErrRequestNotFound with queue state untouched.
func (s *QueueService) Complete(ctx context.Context, requestID string) (int, error) {
	tr := otel.Tracer("services/QueueService")
	_, span := tr.Start(ctx, "Complete",
		trace.WithAttributes(attribute.String("request.id", requestID)),
	)
	defer span.End()

	pending, err := s.Queue.Complete(requestID)
	if err != nil {
		if errors.Is(err, queue.ErrNotFound) {
			return 0, ErrRequestNotFound
		}
		return 0, err
	}
	return pending, nil
}

// Status reports queue counts and the last persisted update.
func (s *QueueService) Status(ctx context.Context) (queue.Status, error) {
	tr := otel.Tracer("services/QueueService")
	_, span := tr.Start(ctx, "Status")
	defer span.End()

	return s.Queue.Status()
}
