package upstage

import (
	"context"
	"errors"
	"net/http"

	"github.com/kirillkom/docai-relay/internal/core/domain"
	"github.com/kirillkom/docai-relay/internal/infrastructure/resilience"
)

// countsAsUpstreamFailure keeps caller mistakes and cancellations away from
// the breaker.
func countsAsUpstreamFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if upstreamErr, ok := domain.AsUpstreamError(err); ok {
		return isServerSideStatus(upstreamErr.StatusCode)
	}
	return true
}

func isServerSideStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	default:
		return statusCode >= 500
	}
}

func wrapTemporaryIfNeeded(operation string, err error) error {
	if err == nil {
		return nil
	}
	if resilience.IsCircuitOpen(err) {
		return domain.WrapError(domain.ErrTemporary, operation, err)
	}
	return err
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case resilience.IsCircuitOpen(err):
		return "circuit_open"
	case domain.IsKind(err, domain.ErrUpstreamContract):
		return "contract_violation"
	case domain.IsKind(err, domain.ErrUpstream):
		return "upstream_error"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "transport_error"
	}
}
