// Package services – ExtractService
//
// This file implements ExtractService, which orchestrates a full supplier
// pipeline run: extract every document, then record the results as order
// records with the batch's provenance metadata attached. Extraction and
// storage keep their own failure semantics (fallback results, per-record
// error collection); this service only sequences them.
package services

import (
	"context"

	"github.com/iabhiroop/go-procure-backend/internal/extract"
)

// ExtractReport combines the extraction envelope with the storage summary
// for one pipeline run.
type ExtractReport struct {
	Extraction *extract.Envelope `json:"extraction"`
	Storage    *UpsertSummary    `json:"storage,omitempty"`
}

// ExtractService runs documents through the pipeline and into the store.
type ExtractService struct {
	Pipeline *extract.Pipeline
	Orders   *OrderService
}

// NewExtractService constructs an ExtractService.
func NewExtractService(p *extract.Pipeline, orders *OrderService) *ExtractService {
	return &ExtractService{Pipeline: p, Orders: orders}
}

// ProcessDocuments extracts each path and upserts whatever was produced,
// genuine and fallback results alike. A batch with no usable results is
// returned with a nil storage summary rather than an error; the per-file
// failures are already in the envelope.
func (s *ExtractService) ProcessDocuments(ctx context.Context, paths []string) (*ExtractReport, error) {
	env := s.Pipeline.ExtractAll(ctx, paths)
	report := &ExtractReport{Extraction: env}

	orders := env.Orders()
	if len(orders) == 0 {
		return report, nil
	}

	summary, err := s.Orders.UpsertMany(ctx, orders, env.Metadata())
	if err != nil {
		return report, err
	}
	report.Storage = summary
	return report, nil
}
