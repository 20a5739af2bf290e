package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/kirillkom/docai-relay/internal/config"
	"github.com/kirillkom/docai-relay/internal/core/domain"
	"github.com/kirillkom/docai-relay/internal/core/usecase"
	"github.com/kirillkom/docai-relay/internal/infrastructure/export"
	"github.com/kirillkom/docai-relay/internal/infrastructure/extractor/parseresult"
	"github.com/kirillkom/docai-relay/internal/infrastructure/relayclient"
	"github.com/kirillkom/docai-relay/internal/observability/logging"
)

func main() {
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	var (
		file    = flag.String("file", "", "contract document to analyze (required)")
		baseURL = flag.String("base-url", cfg.RelayBaseURL, "relay base URL; empty uses the built-in demo responses")
		out     = flag.String("export", "", "optional XLSX report path")
	)
	flag.Parse()
	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	logger := logging.NewJSONLogger(os.Stderr, "analyze", cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, cfg, *file, *baseURL, *out); err != nil {
		logger.Error("analyze_failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, cfg config.Config, path, baseURL, exportPath string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	doc := &domain.UploadedDocument{
		Filename: filepath.Base(path),
		MimeType: mimeType,
		Size:     int64(len(content)),
		Content:  content,
	}

	client := relayclient.New(relayclient.Options{
		BaseURL:     baseURL,
		StaticHosts: cfg.RelayStaticHosts,
		Timeout:     cfg.UpstreamTimeout(),
	}, logger)

	analyzer := usecase.NewContractAnalysisUseCase(client, parseresult.NewNormalizer(logger), nil, logger)
	session := analyzer.NewSession(func(from, to domain.WizardState) {
		logger.Info("wizard_transition", "from", string(from), "to", string(to))
	})

	analysis, err := session.Analyze(ctx, doc)
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	fmt.Println(string(encoded))

	if exportPath != "" {
		if err := export.SaveContractAnalysis(exportPath, *analysis); err != nil {
			return err
		}
		logger.Info("analysis_exported", "path", exportPath)
	}
	if client.Mocked() {
		logger.Info("demo_mode", "mock_responses", client.MockServed())
	}
	return nil
}
