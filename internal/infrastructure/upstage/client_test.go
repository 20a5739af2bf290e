package upstage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirillkom/docai-relay/internal/core/domain"
	"github.com/kirillkom/docai-relay/internal/infrastructure/resilience"
)

type observerFake struct {
	outcomes []string
}

func (f *observerFake) ObserveUpstream(operation, outcome string, _ time.Duration) {
	f.outcomes = append(f.outcomes, operation+":"+outcome)
}

func newTestClient(serverURL string, observer Observer) *Client {
	return New(Options{BaseURL: serverURL, APIKey: "test-key"}, nil, observer, nil)
}

func TestParseDocumentSendsMultipartForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != documentParsePath {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		file, header, err := r.FormFile("document")
		if !assert.NoError(t, err) {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		defer file.Close()
		content, _ := io.ReadAll(file)
		assert.Equal(t, "%PDF-1.7", string(content))
		assert.Equal(t, "contract.pdf", header.Filename)
		assert.Equal(t, "application/pdf", header.Header.Get("Content-Type"))
		assert.Equal(t, "document-parse", r.FormValue("model"))
		assert.Equal(t, `["html","markdown","text"]`, r.FormValue("output_formats"))
		_, _ = w.Write([]byte(`{"elements":[{"content":{"text":"A"}}]}`))
	}))
	defer server.Close()

	observer := &observerFake{}
	client := newTestClient(server.URL, observer)
	out, err := client.ParseDocument(context.Background(), &domain.UploadedDocument{
		Filename: "contract.pdf",
		MimeType: "application/pdf",
		Content:  []byte("%PDF-1.7"),
	})
	require.NoError(t, err)
	require.Contains(t, string(out), `"elements"`)
	require.Equal(t, []string{"document_parse:ok"}, observer.outcomes)
}

func TestExtractInformationEmbedsDataURLAndSchema(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != informationExtractPath {
			http.NotFound(w, r)
			return
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{}"}}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, nil)
	schema := json.RawMessage(`{"type":"object","properties":{"invoice_number":{"type":"string"}}}`)
	_, err := client.ExtractInformation(context.Background(), &domain.UploadedDocument{
		Filename: "invoice.png",
		MimeType: "image/png",
		Content:  []byte("img"),
	}, schema)
	require.NoError(t, err)

	require.Equal(t, "information-extract", captured["model"])
	messages := captured["messages"].([]any)
	content := messages[0].(map[string]any)["content"].([]any)
	url := content[0].(map[string]any)["image_url"].(map[string]any)["url"].(string)
	require.Equal(t, "data:image/png;base64,aW1n", url)

	format := captured["response_format"].(map[string]any)
	jsonSchema := format["json_schema"].(map[string]any)
	require.Equal(t, "json_schema", format["type"])
	require.Equal(t, "extraction_schema", jsonSchema["name"])
	props := jsonSchema["schema"].(map[string]any)["properties"].(map[string]any)
	require.Contains(t, props, "invoice_number", "caller schema not forwarded verbatim")
}

func TestChatCompletionForcesNonStreamingDefaults(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&captured)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"hi"}}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, nil)
	_, err := client.ChatCompletion(context.Background(), domain.ChatRequest{
		Messages: []domain.ChatMessage{{Role: domain.RoleUser, Content: "hello"}},
		Stream:   true,
	})
	require.NoError(t, err)
	require.Equal(t, "solar-pro2-preview", captured["model"])
	require.Equal(t, false, captured["stream"])
	require.Equal(t, 0.1, captured["temperature"])
	require.Equal(t, float64(4000), captured["max_tokens"])
	require.Equal(t, "medium", captured["reasoning_effort"])
}

func TestUpstreamErrorKeepsRawBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	}))
	defer server.Close()

	observer := &observerFake{}
	client := newTestClient(server.URL, observer)
	_, err := client.ChatCompletion(context.Background(), domain.ChatRequest{
		Messages: []domain.ChatMessage{{Role: domain.RoleUser, Content: "hello"}},
	})
	upstreamErr, ok := domain.AsUpstreamError(err)
	require.True(t, ok, "expected UpstreamError, got %v", err)
	require.Equal(t, http.StatusUnauthorized, upstreamErr.StatusCode)
	require.Equal(t, `{"error":{"message":"invalid api key"}}`, upstreamErr.Body)
	require.True(t, domain.IsKind(err, domain.ErrUpstream))
	require.Equal(t, []string{"chat_completion:upstream_error"}, observer.outcomes)
}

func TestNonJSONSuccessIsContractViolation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>gateway</html>"))
	}))
	defer server.Close()

	client := newTestClient(server.URL, nil)
	_, err := client.ChatCompletion(context.Background(), domain.ChatRequest{
		Messages: []domain.ChatMessage{{Role: domain.RoleUser, Content: "hello"}},
	})
	require.True(t, domain.IsKind(err, domain.ErrUpstreamContract), "expected contract violation, got %v", err)
	require.False(t, domain.IsKind(err, domain.ErrUpstream), "contract violation must be distinct from upstream error")
}

func TestOpenCircuitIsTemporaryAndSkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	guard := resilience.NewGuard(resilience.Config{
		BreakerEnabled:      true,
		BreakerMinRequests:  2,
		BreakerFailureRatio: 0.5,
		BreakerOpenTimeout:  time.Minute,
	})
	client := New(Options{BaseURL: server.URL}, guard, nil, nil)
	req := domain.ChatRequest{Messages: []domain.ChatMessage{{Role: domain.RoleUser, Content: "x"}}}

	for i := 0; i < 2; i++ {
		_, err := client.ChatCompletion(context.Background(), req)
		require.True(t, domain.IsKind(err, domain.ErrUpstream), "expected upstream error, got %v", err)
	}
	_, err := client.ChatCompletion(context.Background(), req)
	require.True(t, domain.IsKind(err, domain.ErrTemporary), "expected temporary error, got %v", err)
	require.True(t, resilience.IsCircuitOpen(err))
	require.Equal(t, int32(2), calls.Load())
}

func TestCountsAsUpstreamFailure(t *testing.T) {
	require.False(t, countsAsUpstreamFailure(&domain.UpstreamError{StatusCode: http.StatusBadRequest}), "4xx must not trip the breaker")
	require.True(t, countsAsUpstreamFailure(&domain.UpstreamError{StatusCode: http.StatusServiceUnavailable}), "5xx must trip the breaker")
	require.False(t, countsAsUpstreamFailure(context.Canceled), "cancellation must not trip the breaker")
	require.True(t, countsAsUpstreamFailure(errors.New("connection refused")), "transport errors must trip the breaker")
}
