// Package relayclient calls the relay's /api endpoints the way the browser UI
// does, switching to canned responses when no backend is reachable.
package relayclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/docai-relay/internal/core/domain"
	"github.com/kirillkom/docai-relay/internal/infrastructure/formdata"
	"github.com/kirillkom/docai-relay/internal/infrastructure/mockresponder"
)

const mockBaseURL = "http://static.invalid"

type Options struct {
	BaseURL     string
	StaticHosts []string
	Timeout     time.Duration
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	mock       *mockresponder.Responder
	logger     *slog.Logger
}

func New(opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	staticHosts := opts.StaticHosts
	if staticHosts == nil {
		staticHosts = mockresponder.DefaultStaticHosts
	}

	client := &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
	if mockresponder.ShouldActivate(opts.BaseURL, staticHosts) {
		client.mock = mockresponder.New()
		client.httpClient.Transport = client.mock
		client.baseURL = mockBaseURL
		logger.Info("relay_client_mock_mode", "base_url", opts.BaseURL)
	}
	return client
}

// Mocked reports whether calls are answered locally.
func (c *Client) Mocked() bool {
	return c.mock != nil
}

// MockServed reports how many calls the mock responder answered.
func (c *Client) MockServed() int64 {
	if c.mock == nil {
		return 0
	}
	return c.mock.Served()
}

func (c *Client) ParseDocument(ctx context.Context, doc *domain.UploadedDocument) (json.RawMessage, error) {
	body, contentType, err := formdata.EncodeDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("build document-parse form: %w", err)
	}
	return c.post(ctx, "/api/document-parse", contentType, body)
}

func (c *Client) ExtractInformation(ctx context.Context, doc *domain.UploadedDocument, schema json.RawMessage) (json.RawMessage, error) {
	body, contentType, err := formdata.EncodeDocument(doc, formdata.Field{Name: "schema", Value: string(schema)})
	if err != nil {
		return nil, fmt.Errorf("build information-extract form: %w", err)
	}
	return c.post(ctx, "/api/information-extract", contentType, body)
}

func (c *Client) ChatCompletion(ctx context.Context, req domain.ChatRequest) (json.RawMessage, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}
	return c.post(ctx, "/api/solar-chat", "application/json", body)
}

func (c *Client) post(ctx context.Context, path, contentType string, body []byte) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", contentType)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("relay %s request: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", path, err)
	}
	c.logger.DebugContext(ctx, "relay_request",
		"path", path,
		"status", resp.StatusCode,
		"mock", c.Mocked(),
		"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.UpstreamError{Operation: path, StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if !json.Valid(raw) {
		return nil, &domain.ContractViolationError{Operation: path, Body: string(raw)}
	}
	return json.RawMessage(raw), nil
}
