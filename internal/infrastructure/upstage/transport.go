package upstage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kirillkom/docai-relay/internal/core/domain"
)

// send performs exactly one upstream call behind the operation's breaker.
func (c *Client) send(ctx context.Context, operation, path, contentType string, body []byte) (json.RawMessage, error) {
	start := time.Now()
	var out json.RawMessage

	err := c.guard.Execute(ctx, operation, func(callCtx context.Context) error {
		payload, callErr := c.do(callCtx, operation, path, contentType, body)
		if callErr != nil {
			return callErr
		}
		out = payload
		return nil
	}, countsAsUpstreamFailure)

	duration := time.Since(start)
	outcome := outcomeOf(err)
	if c.observer != nil {
		c.observer.ObserveUpstream(operation, outcome, duration)
	}
	attrs := []any{
		"operation", operation,
		"outcome", outcome,
		"duration_ms", float64(duration.Microseconds()) / 1000.0,
	}
	if upstreamErr, ok := domain.AsUpstreamError(err); ok {
		attrs = append(attrs, "status", upstreamErr.StatusCode)
	}
	if err != nil {
		c.logger.WarnContext(ctx, "upstream_request", append(attrs, "error", err)...)
		return nil, wrapTemporaryIfNeeded(operation, err)
	}
	c.logger.InfoContext(ctx, "upstream_request", attrs...)
	return out, nil
}

func (c *Client) do(ctx context.Context, operation, path, contentType string, body []byte) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream %s request: %w", operation, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", operation, err)
	}
	return decodeUpstreamResponse(operation, resp.StatusCode, raw)
}

// decodeUpstreamResponse passes non-2xx bodies through untouched and insists
// that 2xx bodies are JSON.
func decodeUpstreamResponse(operation string, statusCode int, raw []byte) (json.RawMessage, error) {
	if statusCode < 200 || statusCode >= 300 {
		return nil, &domain.UpstreamError{
			Operation:  operation,
			StatusCode: statusCode,
			Body:       string(raw),
		}
	}
	if !json.Valid(raw) {
		return nil, &domain.ContractViolationError{Operation: operation, Body: string(raw)}
	}
	return json.RawMessage(raw), nil
}
