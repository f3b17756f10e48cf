// Error codes returned in the "code" field of ErrorResponse. Codes are
// lowercase snake_case; generic codes mirror common HTTP status semantics,
// domain-specific codes cover failures a status alone cannot convey.
package handlers

const (
	ErrCodeBadRequest  = "bad_request"
	ErrCodeNotFound    = "not_found"
	ErrCodeRateLimited = "too_many_requests"
	ErrCodeInternal    = "internal_error"

	// Domain-specific:
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeEnqueueFailed    = "enqueue_failed"
	ErrCodeExtractionFailed = "extraction_failed"
	ErrCodeStorageFailed    = "storage_failed"
	ErrCodeDocumentFailed   = "document_failed"
	ErrCodeMailDisabled     = "mail_disabled"
	ErrCodeMailFailed       = "mail_failed"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
