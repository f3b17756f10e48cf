package extract

import (
	"regexp"
	"time"

	"github.com/iabhiroop/go-procure-backend/internal/domain"
)

// The patterns below recover an order identifier from raw text when the
// structuring service is unavailable. Best-effort heuristics, not a
// parsing guarantee.
var (
	// Hyphenated identifiers like "PO-2025-001" are taken verbatim,
	// prefix included.
	poTokenPattern = regexp.MustCompile(`(?i)\b(?:PO|P\.O\.)-[A-Za-z0-9][A-Za-z0-9\-]*`)

	// Otherwise capture the token following a "PO" / "P.O." /
	// "Purchase Order" label; a digit is required so label words
	// ("PO Number") are not mistaken for the id itself.
	labeledIDPattern = regexp.MustCompile(`(?i)(?:PO|P\.O\.|Purchase Order)[\s#:\-]*([A-Za-z0-9\-]*\d[A-Za-z0-9\-]*)`)
)

const (
	rawPreviewLimit  = 500
	fallbackCurrency = "USD"
)

// FallbackResult synthesizes a degraded extraction result after a
// structuring failure. The order id is regex-recovered from the raw text,
// or timestamp-synthesized when no match exists; all other structured
// fields are null. The raw text preview and literal error message are
// preserved in extraction_notes with fallback_used set.
func FallbackResult(rawText, errMsg string, now time.Time) *domain.ExtractionData {
	orderID := "EXTRACTED_" + now.Format("20060102_150405")
	if m := poTokenPattern.FindString(rawText); m != "" {
		orderID = m
	} else if m := labeledIDPattern.FindStringSubmatch(rawText); m != nil {
		orderID = m[1]
	}

	currency := fallbackCurrency
	return &domain.ExtractionData{
		OrderID:              orderID,
		CustomerDetails:      &domain.CustomerDetails{},
		OrderItems:           []domain.OrderItem{},
		OrderTotals:          &domain.OrderTotals{Currency: &currency},
		DeliveryRequirements: &domain.DeliveryRequirements{},
		PaymentTerms:         &domain.PaymentTerms{},
		ExtractionNotes: &domain.ExtractionNotes{
			RawTextPreview:  previewOf(rawText),
			ExtractionError: errMsg,
			FallbackUsed:    true,
		},
	}
}

// previewOf truncates raw text to its first 500 characters, marking the cut.
func previewOf(rawText string) string {
	if len(rawText) > rawPreviewLimit {
		return rawText[:rawPreviewLimit] + "..."
	}
	return rawText
}
