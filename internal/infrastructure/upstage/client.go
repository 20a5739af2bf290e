package upstage

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/docai-relay/internal/core/domain"
	"github.com/kirillkom/docai-relay/internal/infrastructure/formdata"
	"github.com/kirillkom/docai-relay/internal/infrastructure/resilience"
)

const (
	documentParsePath      = "/v1/document-digitization"
	informationExtractPath = "/v1/information-extraction/chat/completions"
	chatCompletionsPath    = "/v1/chat/completions"

	documentParseModel      = "document-parse"
	informationExtractModel = "information-extract"
	chatModel               = "solar-pro2-preview"
	chatTemperature         = 0.1
	chatMaxTokens           = 4000
	extractionSchemaName    = "extraction_schema"
)

var parseOutputFormats = []string{"html", "markdown", "text"}

// Observer receives one observation per upstream call.
type Observer interface {
	ObserveUpstream(operation, outcome string, duration time.Duration)
}

type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	guard      *resilience.Guard
	observer   Observer
	logger     *slog.Logger
}

func New(opts Options, guard *resilience.Guard, observer Observer, logger *slog.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	if guard == nil {
		guard = resilience.NewGuard(resilience.Config{BreakerEnabled: false})
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		guard:      guard,
		observer:   observer,
		logger:     logger,
	}
}

func (c *Client) ParseDocument(ctx context.Context, doc *domain.UploadedDocument) (json.RawMessage, error) {
	body, contentType, err := buildParseForm(doc)
	if err != nil {
		return nil, fmt.Errorf("build document-parse form: %w", err)
	}
	return c.send(ctx, "document_parse", documentParsePath, contentType, body)
}

func (c *Client) ExtractInformation(ctx context.Context, doc *domain.UploadedDocument, schema json.RawMessage) (json.RawMessage, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", doc.MimeTypeOrDefault(), base64.StdEncoding.EncodeToString(doc.Content))
	payload := map[string]any{
		"model": informationExtractModel,
		"messages": []map[string]any{
			{
				"role": "user",
				"content": []map[string]any{
					{
						"type":      "image_url",
						"image_url": map[string]string{"url": dataURL},
					},
				},
			},
		},
		"response_format": map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   extractionSchemaName,
				"schema": schema,
			},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal information-extract request: %w", err)
	}
	return c.send(ctx, "information_extract", informationExtractPath, "application/json", body)
}

// ChatCompletion always asks for a complete, non-streamed reply.
func (c *Client) ChatCompletion(ctx context.Context, req domain.ChatRequest) (json.RawMessage, error) {
	effort := req.ReasoningEffort
	if effort == "" {
		effort = domain.DefaultReasoningEffort
	}
	payload := map[string]any{
		"model":            chatModel,
		"messages":         req.Messages,
		"reasoning_effort": effort,
		"stream":           false,
		"temperature":      chatTemperature,
		"max_tokens":       chatMaxTokens,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}
	return c.send(ctx, "chat_completion", chatCompletionsPath, "application/json", body)
}

func buildParseForm(doc *domain.UploadedDocument) ([]byte, string, error) {
	formats, err := json.Marshal(parseOutputFormats)
	if err != nil {
		return nil, "", err
	}
	return formdata.EncodeDocument(doc,
		formdata.Field{Name: "model", Value: documentParseModel},
		formdata.Field{Name: "output_formats", Value: string(formats)},
	)
}
