package extract

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/iabhiroop/go-procure-backend/internal/domain"
)

// ErrDocumentNotFound is returned when the input path does not exist.
// It is the only not-found failure the pipeline surfaces to callers.
var ErrDocumentNotFound = errors.New("document not found")

// Batch extraction statuses reported in the envelope.
const (
	BatchSuccess        = "success"
	BatchPartialSuccess = "partial_success"
	BatchError          = "error"
)

// Pipeline converts a document file into a structured extraction result.
// OCR failures are surfaced as errors; structuring failures are converted
// into fallback results and never propagated, so a successful OCR always
// yields a well-formed result.
type Pipeline struct {
	OCR        OCRClient
	Structurer Structurer

	// Timeout bounds the structuring call. Expiry is treated as a
	// structuring failure and routed through the fallback path.
	Timeout time.Duration

	now func() time.Time
}

// NewPipeline wires the two external steps with the structuring timeout.
func NewPipeline(ocr OCRClient, structurer Structurer, timeout time.Duration) *Pipeline {
	return &Pipeline{
		OCR:        ocr,
		Structurer: structurer,
		Timeout:    timeout,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Extract runs OCR on filePath, flattens the recognized fragments to
// centroid tokens, and structures the flattened text. The returned result
// is genuine when structuring succeeds and a fallback otherwise; the error
// is non-nil only for a missing file or an OCR failure.
func (p *Pipeline) Extract(ctx context.Context, filePath string) (*domain.ExtractionData, error) {
	if _, err := os.Stat(filePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, filePath)
		}
		return nil, err
	}

	ocrRes, err := p.OCR.Recognize(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("ocr: %w", err)
	}

	rawText := FormatTokens(FlattenTokens(ocrRes))

	sctx := ctx
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		sctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	extractionsTotal.Inc()
	data, err := p.Structurer.Structure(sctx, rawText)
	if err != nil {
		// The structuring service being unavailable is converted into
		// data, not an error: callers always get a well-formed result.
		fallbacksTotal.Inc()
		log.Warn().
			Err(err).
			Str("file", filePath).
			Msg("structuring failed, using fallback result")
		data = FallbackResult(rawText, err.Error(), p.now())
	}
	data.SourceFile = filePath
	return data, nil
}

// DocumentResult pairs one input document with its extraction outcome.
type DocumentResult struct {
	SourceFile string                 `json:"source_file"`
	Data       *domain.ExtractionData `json:"data,omitempty"`
	Error      string                 `json:"error,omitempty"`
}

// Envelope is the batch extraction report: per-document results plus the
// provenance fields recorded with stored orders.
type Envelope struct {
	ExtractionStatus    string           `json:"extraction_status"`
	DocumentsProcessed  int              `json:"documents_processed"`
	ExtractionTimestamp string           `json:"extraction_timestamp"`
	Results             []DocumentResult `json:"results"`
}

// Metadata converts the envelope's provenance fields to the block attached
// to each stored order.
func (e *Envelope) Metadata() *domain.ExtractionMetadata {
	return &domain.ExtractionMetadata{
		ExtractionTimestamp: e.ExtractionTimestamp,
		DocumentsProcessed:  e.DocumentsProcessed,
		ExtractionStatus:    e.ExtractionStatus,
	}
}

// Orders returns the successfully extracted results in input order.
func (e *Envelope) Orders() []*domain.ExtractionData {
	out := make([]*domain.ExtractionData, 0, len(e.Results))
	for _, r := range e.Results {
		if r.Data != nil {
			out = append(out, r.Data)
		}
	}
	return out
}

// ExtractAll runs the pipeline over each path, collecting per-document
// failures (missing files, OCR errors) without aborting the batch.
func (p *Pipeline) ExtractAll(ctx context.Context, paths []string) *Envelope {
	env := &Envelope{
		ExtractionTimestamp: p.now().Format(time.RFC3339),
		Results:             make([]DocumentResult, 0, len(paths)),
	}

	failures := 0
	for _, path := range paths {
		res := DocumentResult{SourceFile: path}
		data, err := p.Extract(ctx, path)
		if err != nil {
			failures++
			res.Error = err.Error()
		} else {
			res.Data = data
			env.DocumentsProcessed++
		}
		env.Results = append(env.Results, res)
	}

	switch {
	case failures == 0:
		env.ExtractionStatus = BatchSuccess
	case failures == len(paths):
		env.ExtractionStatus = BatchError
	default:
		env.ExtractionStatus = BatchPartialSuccess
	}
	return env
}
