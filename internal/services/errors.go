// Package services defines the business logic for the procurement
// workflow: queue management, order recording, extraction orchestration,
// budget checks, and document generation support. This file centralizes
// common service-level error values so that they can be consistently
// returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer;
// translation into user-facing messages or HTTP status codes is performed
// at the handler layer.
package services

import (
	"errors"
	"fmt"
)

var (
	// ErrRequestNotFound indicates the purchase request is not among the
	// pending entries. Callers retrying a completion should treat it as
	// "already done".
	ErrRequestNotFound = errors.New("purchase request not found")

	// ErrOrderNotFound indicates the requested order record does not exist.
	ErrOrderNotFound = errors.New("order not found")

	// ErrEmptyValidationData is returned when an enqueue request carries
	// no validation payload.
	ErrEmptyValidationData = errors.New("validation data is empty")

	// ErrNoOrders is returned when a record batch contains nothing to save.
	ErrNoOrders = errors.New("no orders to record")
)

// ValidationError reports a malformed or missing required field. It is
// raised before any side effect occurs (validate-before-mutate).
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("missing required field %q", e.Field)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
