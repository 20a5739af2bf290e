package httpadapter

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kirillkom/docai-relay/internal/core/domain"
)

const upstreamName = "Upstage API"

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func mapErrorToHTTPStatus(err error) int {
	if upstreamErr, ok := domain.AsUpstreamError(err); ok && upstreamErr.StatusCode >= 400 {
		return upstreamErr.StatusCode
	}
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrNoTextExtracted):
		return http.StatusUnprocessableEntity
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorBodyFor renders err in the relay's {error, details} shape. fallback names
// the operation for failures that have no more specific message.
func errorBodyFor(err error, fallback string) errorBody {
	if upstreamErr, ok := domain.AsUpstreamError(err); ok {
		details := upstreamErr.Body
		if strings.TrimSpace(details) == "" {
			details = "No response body"
		}
		return errorBody{Error: upstreamName + " request failed", Details: details}
	}
	if violation, ok := domain.AsContractViolation(err); ok {
		return errorBody{
			Error:   "Invalid response from " + upstreamName,
			Details: "Response is not valid JSON: " + violation.Body,
		}
	}

	switch {
	case errors.Is(err, domain.ErrMissingDocument):
		return errorBody{Error: "No document file provided"}
	case errors.Is(err, domain.ErrMissingSchema):
		return errorBody{Error: "No schema provided"}
	case errors.Is(err, domain.ErrInvalidSchema):
		return errorBody{Error: "Invalid schema", Details: err.Error()}
	case errors.Is(err, domain.ErrInvalidMessages):
		return errorBody{Error: "Invalid messages format"}
	case errors.Is(err, domain.ErrPayloadTooLarge):
		return errorBody{Error: "File too large", Details: "Maximum upload size is 50MB"}
	case domain.IsKind(err, domain.ErrInvalidInput):
		return errorBody{Error: "Invalid request", Details: err.Error()}
	case domain.IsKind(err, domain.ErrNoTextExtracted):
		return errorBody{Error: "No text content found in document", Details: err.Error()}
	case domain.IsKind(err, domain.ErrTemporary):
		return errorBody{Error: upstreamName + " temporarily unavailable", Details: err.Error()}
	default:
		return errorBody{Error: fallback, Details: err.Error()}
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := mapErrorToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request_failed",
			"request_id", requestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"error", err.Error(),
		)
	}
	writeJSON(w, status, errorBodyFor(err, fallback))
}
