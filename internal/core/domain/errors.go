package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrMissingDocument     = fmt.Errorf("%w: no document file provided", ErrInvalidInput)
	ErrInvalidSchema       = fmt.Errorf("%w: invalid schema", ErrInvalidInput)
	ErrMissingSchema       = fmt.Errorf("%w: no schema provided", ErrInvalidSchema)
	ErrInvalidMessages     = fmt.Errorf("%w: invalid messages format", ErrInvalidInput)
	ErrPayloadTooLarge     = fmt.Errorf("%w: payload too large", ErrInvalidInput)
	ErrUpstream            = errors.New("upstream request failed")
	ErrUpstreamContract    = errors.New("upstream contract violation")
	ErrNoTextExtracted     = errors.New("no text content found in document")
	ErrModelReplyMalformed = errors.New("model reply is not valid analysis json")
	ErrInvalidTransition   = errors.New("invalid wizard transition")
	ErrTemporary           = errors.New("temporary failure")
)

// UpstreamError carries a non-2xx provider response verbatim.
type UpstreamError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	if e == nil {
		return "upstream status error"
	}
	if strings.TrimSpace(e.Body) == "" {
		return fmt.Sprintf("upstream %s status: %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("upstream %s status: %d: %s", e.Operation, e.StatusCode, strings.TrimSpace(e.Body))
}

func (e *UpstreamError) Unwrap() error {
	return ErrUpstream
}

// ContractViolationError is a 2xx provider response whose body is not JSON.
type ContractViolationError struct {
	Operation string
	Body      string
}

func (e *ContractViolationError) Error() string {
	return fmt.Sprintf("upstream %s: response is not valid JSON: %s", e.Operation, e.Body)
}

func (e *ContractViolationError) Unwrap() error {
	return ErrUpstreamContract
}

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// AsUpstreamError returns the provider status error wrapped in err, if any.
func AsUpstreamError(err error) (*UpstreamError, bool) {
	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr, true
	}
	return nil, false
}

func AsContractViolation(err error) (*ContractViolationError, bool) {
	var violation *ContractViolationError
	if errors.As(err, &violation) {
		return violation, true
	}
	return nil, false
}
