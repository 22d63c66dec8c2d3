package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrContractViolation is returned when a QueryRequest's mode and
	// payload do not match. This is a programmer error and is caught
	// before any network call.
	ErrContractViolation = errors.New("query request violates mode/payload contract")

	// ErrRetrievalInProgress is returned when a lookup is issued while
	// another one is still outstanding.
	ErrRetrievalInProgress = errors.New("a product retrieval is already in progress")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)

// TransportErrorKind classifies a transport failure
type TransportErrorKind string

const (
	// TransportRateLimited marks an explicit rate-limit signal from the
	// inference service. Retried with backoff before surfacing.
	TransportRateLimited TransportErrorKind = "rate_limited"

	// TransportTransientFailure marks a network error or non-success
	// status. Retried with backoff before surfacing.
	TransportTransientFailure TransportErrorKind = "transient_failure"

	// TransportInvalidResponseShape marks a 2xx reply that lacks the
	// expected candidate/content envelope. Never retried; it signals a
	// service contract change, not transience.
	TransportInvalidResponseShape TransportErrorKind = "invalid_response_shape"

	// TransportRetriesExhausted marks a failure after the bounded
	// attempt count ran out.
	TransportRetriesExhausted TransportErrorKind = "retries_exhausted"
)

// TransportError is a classified failure of the inference call
type TransportError struct {
	Kind  TransportErrorKind
	Cause error
}

func (e *TransportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("inference transport failed (%s): %v", e.Kind, e.Cause)
	}
	return fmt.Sprintf("inference transport failed (%s)", e.Kind)
}

func (e *TransportError) Unwrap() error { return e.Cause }

// NewTransportError wraps cause with a transport classification
func NewTransportError(kind TransportErrorKind, cause error) *TransportError {
	return &TransportError{Kind: kind, Cause: cause}
}

// ValidationErrorKind classifies a reply-validation failure
type ValidationErrorKind string

const (
	// ValidationMalformedJSON marks a reply body that does not parse as JSON
	ValidationMalformedJSON ValidationErrorKind = "malformed_json"

	// ValidationMissingField marks required fields that are absent, null
	// or of the wrong coarse type.
	ValidationMissingField ValidationErrorKind = "missing_field"

	// ValidationEmptyRequired marks a required text field that parsed
	// but is blank.
	ValidationEmptyRequired ValidationErrorKind = "empty_required"
)

// ValidationError is a terminal failure to turn a reply into a ProductRecord
type ValidationError struct {
	Kind   ValidationErrorKind
	Fields []string
	Cause  error
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("reply validation failed (%s): %s", e.Kind, strings.Join(e.Fields, ", "))
	}
	if e.Cause != nil {
		return fmt.Sprintf("reply validation failed (%s): %v", e.Kind, e.Cause)
	}
	return fmt.Sprintf("reply validation failed (%s)", e.Kind)
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// NewValidationError builds a ValidationError for the given fields
func NewValidationError(kind ValidationErrorKind, fields ...string) *ValidationError {
	return &ValidationError{Kind: kind, Fields: fields}
}

// AsTransportError unwraps err into a *TransportError if one is present
func AsTransportError(err error) (*TransportError, bool) {
	var te *TransportError
	ok := errors.As(err, &te)
	return te, ok
}

// AsValidationError unwraps err into a *ValidationError if one is present
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}
