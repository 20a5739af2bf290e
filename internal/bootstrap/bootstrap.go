package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	httpadapter "github.com/kirillkom/docai-relay/internal/adapters/http"
	"github.com/kirillkom/docai-relay/internal/config"
	"github.com/kirillkom/docai-relay/internal/core/usecase"
	"github.com/kirillkom/docai-relay/internal/infrastructure/extractor/parseresult"
	"github.com/kirillkom/docai-relay/internal/infrastructure/resilience"
	"github.com/kirillkom/docai-relay/internal/infrastructure/schema"
	"github.com/kirillkom/docai-relay/internal/infrastructure/upstage"
	"github.com/kirillkom/docai-relay/internal/observability/metrics"
)

const serviceName = "docai-relay"

type App struct {
	Config  config.Config
	Metrics *metrics.HTTPServerMetrics

	RelayUC    *usecase.RelayUseCase
	AnalysisUC *usecase.ContractAnalysisUseCase

	openapi []byte
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.UpstageConfigured() {
		logger.Warn("upstage_credential_missing", "hint", "set UPSTAGE_API_KEY")
	}

	openapiDoc, err := httpadapter.LoadOpenAPIDocument(ctx)
	if err != nil {
		return nil, fmt.Errorf("init openapi document: %w", err)
	}

	serverMetrics := metrics.NewHTTPServerMetrics(serviceName)

	breaker := resilience.DefaultConfig()
	breaker.BreakerEnabled = cfg.UpstreamBreakerEnabled
	gateway := upstage.New(upstage.Options{
		BaseURL: cfg.UpstageBaseURL,
		APIKey:  cfg.UpstageAPIKey,
		Timeout: cfg.UpstreamTimeout(),
	}, resilience.NewGuard(breaker), serverMetrics, logger)

	relayUC := usecase.NewRelayUseCase(gateway, schema.NewValidator(), logger)
	analysisUC := usecase.NewContractAnalysisUseCase(gateway, parseresult.NewNormalizer(logger), serverMetrics, logger)

	return &App{
		Config:     cfg,
		Metrics:    serverMetrics,
		RelayUC:    relayUC,
		AnalysisUC: analysisUC,
		openapi:    openapiDoc,
	}, nil
}

func (a *App) Handler() http.Handler {
	return httpadapter.NewRouter(a.Config, a.RelayUC, a.AnalysisUC, a.Metrics, a.openapi).Handler()
}
