package httpadapter

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/kirillkom/docai-relay/internal/config"
	"github.com/kirillkom/docai-relay/internal/core/ports"
)

type HTTPMetrics interface {
	Middleware(next http.Handler) http.Handler
	Handler() http.Handler
}

type Router struct {
	cfg      config.Config
	relay    ports.DocumentRelay
	analyzer ports.ContractAnalyzer
	metrics  HTTPMetrics
	openapi  []byte
	now      func() time.Time
}

func NewRouter(
	cfg config.Config,
	relay ports.DocumentRelay,
	analyzer ports.ContractAnalyzer,
	metrics HTTPMetrics,
	openapiJSON []byte,
) *Router {
	return &Router{
		cfg:      cfg,
		relay:    relay,
		analyzer: analyzer,
		metrics:  metrics,
		openapi:  openapiJSON,
		now:      time.Now,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", rt.health)
	mux.HandleFunc("/api/document-parse", rt.parseDocument)
	mux.HandleFunc("/api/information-extract", rt.extractInformation)
	mux.HandleFunc("/api/solar-chat", rt.chat)
	if rt.analyzer != nil {
		mux.HandleFunc("/api/contract-analyze", rt.analyzeContract)
	}
	if len(rt.openapi) > 0 {
		mux.HandleFunc("/api/openapi.json", rt.openAPIDocument)
	}

	var handler http.Handler = mux
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
		handler = rt.metrics.Middleware(mux)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return corsMiddleware(rt.cfg.CORSOrigins, handler)
}

func (rt *Router) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	apiKey := "not configured"
	if rt.cfg.UpstageConfigured() {
		apiKey = "configured"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":               "ok",
		"upstageApiConfigured": rt.cfg.UpstageConfigured(),
		"apiKey":               apiKey,
		"timestamp":            rt.now().UTC().Format(time.RFC3339Nano),
	})
}

func (rt *Router) openAPIDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(rt.openapi)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeRawJSON sends a provider payload byte-for-byte.
func writeRawJSON(w http.ResponseWriter, status int, payload json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
}
