package bootstrap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kirillkom/docai-relay/internal/config"
)

func TestNewWiresRelayAgainstUpstream(t *testing.T) {
	var paths []string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		require.Equal(t, "Bearer up_test", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hi"}}]}`))
	}))
	defer upstream.Close()

	app, err := New(context.Background(), config.Config{
		UpstageAPIKey:  "up_test",
		UpstageBaseURL: upstream.URL,
	}, nil)
	require.NoError(t, err)
	handler := app.Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/solar-chat", strings.NewReader(`{"messages":[{"role":"user","content":"hi"}]}`))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)
	require.Equal(t, []string{"/v1/chat/completions"}, paths)

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	var health map[string]any
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &health))
	require.Equal(t, "configured", health["apiKey"])
	require.NotContains(t, res.Body.String(), "up_test")

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Contains(t, res.Body.String(), `docai_upstream_requests_total{operation="chat_completion",outcome="ok",service="docai-relay"} 1`)
}
