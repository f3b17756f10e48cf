package services

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/iabhiroop/go-procure-backend/internal/queue"
)

func newQueueService(t *testing.T) *QueueService {
	t.Helper()
	store, err := queue.NewFileStore(filepath.Join(t.TempDir(), "queue.json"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return NewQueueService(queue.New(store))
}

func TestQueueService_EnqueueAndComplete(t *testing.T) {
	svc := newQueueService(t)
	ctx := context.Background()

	id, pending, err := svc.Enqueue(ctx, json.RawMessage(`{"total":500}`))
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if pending != 1 {
		t.Fatalf("pending = %d; want 1", pending)
	}

	reqs, err := svc.Pending(ctx)
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(reqs) != 1 || reqs[0].RequestID != id {
		t.Fatalf("pending list = %+v", reqs)
	}

	remaining, err := svc.Complete(ctx, id)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("remaining = %d; want 0", remaining)
	}

	st, err := svc.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Pending != 0 || st.Completed != 1 {
		t.Fatalf("status = %+v", st)
	}
}

func TestQueueService_ErrorMapping(t *testing.T) {
	svc := newQueueService(t)
	ctx := context.Background()

	if _, _, err := svc.Enqueue(ctx, nil); !errors.Is(err, ErrEmptyValidationData) {
		t.Fatalf("expected ErrEmptyValidationData, got %v", err)
	}
	if _, err := svc.Complete(ctx, "PQ_missing"); !errors.Is(err, ErrRequestNotFound) {
		t.Fatalf("expected ErrRequestNotFound, got %v", err)
	}
}
