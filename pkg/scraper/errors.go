package scraper

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorType categorizes transport-level failures talking to the scraper backend
type ErrorType string

const (
	ErrorTypeNetwork         ErrorType = "network"
	ErrorTypeTimeout         ErrorType = "timeout"
	ErrorTypeCancelled       ErrorType = "cancelled"
	ErrorTypeInvalidResponse ErrorType = "invalid_response"
)

// ScraperError is returned by Client when a request could not produce a
// decodable response
type ScraperError struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Cause      error
}

// Error implements the error interface
func (e *ScraperError) Error() string {
	msg := e.Message
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, msg)
}

// Unwrap returns the underlying error for error unwrapping
func (e *ScraperError) Unwrap() error {
	return e.Cause
}

// IsRetryable returns true if the error is likely to succeed on retry.
// Nothing in this module retries; the flag is surfaced in logs.
func (e *ScraperError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNetwork, ErrorTypeTimeout:
		return true
	default:
		return false
	}
}

func newInvalidResponseError(message string, statusCode int, cause error) *ScraperError {
	return &ScraperError{
		Type:       ErrorTypeInvalidResponse,
		Message:    message,
		StatusCode: statusCode,
		Cause:      cause,
	}
}

// classifyTransportError maps an error from http.Client.Do onto a ScraperError
func classifyTransportError(ctx context.Context, err error) *ScraperError {
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return &ScraperError{Type: ErrorTypeCancelled, Message: "request cancelled", Cause: err}
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &ScraperError{Type: ErrorTypeTimeout, Message: "request timed out", Cause: err}
	}

	return &ScraperError{Type: ErrorTypeNetwork, Message: "request failed", Cause: err}
}
