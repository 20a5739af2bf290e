package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kirillkom/docai-relay/internal/core/domain"
	"github.com/kirillkom/docai-relay/internal/core/ports"
)

const (
	analysisOutcomeCompleted = "completed"
	analysisOutcomeFallback  = "fallback"
	analysisOutcomeNoText    = "no_text"
	analysisOutcomeFailed    = "failed"
	analysisOutcomeRejected  = "rejected"
)

var errAnalysisInProgress = fmt.Errorf("%w: analysis already in progress", domain.ErrInvalidInput)

// ContractAnalysisUseCase holds the collaborators shared by analysis sessions.
// Analyze runs each call in a fresh session so concurrent HTTP requests do not
// contend for one wizard.
type ContractAnalysisUseCase struct {
	gateway    ports.DocumentAIGateway
	normalizer ports.TextNormalizer
	metrics    ports.AnalysisMetrics
	logger     *slog.Logger
}

func NewContractAnalysisUseCase(
	gateway ports.DocumentAIGateway,
	normalizer ports.TextNormalizer,
	metrics ports.AnalysisMetrics,
	logger *slog.Logger,
) *ContractAnalysisUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContractAnalysisUseCase{
		gateway:    gateway,
		normalizer: normalizer,
		metrics:    metrics,
		logger:     logger,
	}
}

func (uc *ContractAnalysisUseCase) Analyze(ctx context.Context, doc *domain.UploadedDocument) (*domain.ContractAnalysis, error) {
	return uc.NewSession(nil).Analyze(ctx, doc)
}

// NewSession returns a single-flight session whose wizard reports transitions
// to observer.
func (uc *ContractAnalysisUseCase) NewSession(observer func(from, to domain.WizardState)) *AnalysisSession {
	return &AnalysisSession{
		uc:     uc,
		wizard: domain.NewWizard(observer),
	}
}

type AnalysisSession struct {
	uc     *ContractAnalysisUseCase
	wizard *domain.Wizard
}

func (s *AnalysisSession) State() domain.WizardState {
	return s.wizard.State()
}

// Reset abandons the current result and returns to upload.
func (s *AnalysisSession) Reset() {
	s.wizard.Reset()
}

func (s *AnalysisSession) Analyze(ctx context.Context, doc *domain.UploadedDocument) (*domain.ContractAnalysis, error) {
	if err := validateDocument(doc); err != nil {
		s.uc.recordAnalysis(analysisOutcomeRejected)
		return nil, err
	}
	if err := s.wizard.Start(); err != nil {
		s.uc.recordAnalysis(analysisOutcomeRejected)
		if errors.Is(err, domain.ErrInvalidTransition) {
			return nil, fmt.Errorf("%w: %w", errAnalysisInProgress, err)
		}
		return nil, err
	}

	analysis, outcome, err := s.run(ctx, doc)
	if err != nil {
		s.wizard.Reset()
		s.uc.recordAnalysis(outcome)
		return nil, err
	}
	if err := s.wizard.Advance(domain.WizardComplete); err != nil {
		s.wizard.Reset()
		s.uc.recordAnalysis(analysisOutcomeFailed)
		return nil, err
	}
	s.uc.recordAnalysis(outcome)
	return analysis, nil
}

func (s *AnalysisSession) run(ctx context.Context, doc *domain.UploadedDocument) (*domain.ContractAnalysis, string, error) {
	uc := s.uc
	parsed, err := uc.gateway.ParseDocument(ctx, doc)
	if err != nil {
		return nil, analysisOutcomeFailed, fmt.Errorf("parse document: %w", err)
	}

	normalized, err := uc.normalizer.Normalize(ctx, parsed)
	if err != nil {
		if domain.IsKind(err, domain.ErrNoTextExtracted) {
			return nil, analysisOutcomeNoText, err
		}
		return nil, analysisOutcomeFailed, fmt.Errorf("normalize parse result: %w", err)
	}
	if strings.TrimSpace(normalized.Text) == "" {
		return nil, analysisOutcomeNoText, domain.WrapError(domain.ErrNoTextExtracted, "normalize", errors.New("blank text"))
	}
	if uc.metrics != nil {
		uc.metrics.RecordNormalizerStrategy(string(normalized.Strategy))
	}
	uc.logger.InfoContext(ctx, "contract_text_extracted",
		"filename", doc.FilenameOrDefault(),
		"strategy", string(normalized.Strategy),
		"chars", len(normalized.Text),
	)

	if err := s.wizard.Advance(domain.WizardAnalyzing); err != nil {
		return nil, analysisOutcomeFailed, err
	}

	reply, err := uc.gateway.ChatCompletion(ctx, domain.ChatRequest{
		Messages: []domain.ChatMessage{
			{Role: domain.RoleSystem, Content: contractAnalystSystemPrompt},
			{Role: domain.RoleUser, Content: buildContractAnalysisPrompt(normalized.Text)},
		},
		ReasoningEffort: contractAnalysisReasoningEffort,
	})
	if err != nil {
		return nil, analysisOutcomeFailed, fmt.Errorf("analyze contract: %w", err)
	}

	analysis, err := decodeContractAnalysis(reply)
	outcome := analysisOutcomeCompleted
	if err != nil {
		analysis = uc.recoverMalformedReply(ctx, err)
		outcome = analysisOutcomeFallback
	}
	analysis.DocumentText = normalized.Text
	return &analysis, outcome, nil
}

// recoverMalformedReply substitutes the fallback analysis for a reply that
// cannot be read. It is the only place ErrModelReplyMalformed is handled.
func (uc *ContractAnalysisUseCase) recoverMalformedReply(ctx context.Context, err error) domain.ContractAnalysis {
	uc.logger.WarnContext(ctx, "contract_analysis_fallback", "error", err.Error())
	return domain.FallbackContractAnalysis()
}

func (uc *ContractAnalysisUseCase) recordAnalysis(outcome string) {
	if uc.metrics != nil {
		uc.metrics.RecordAnalysis(outcome)
	}
}

func decodeContractAnalysis(reply json.RawMessage) (domain.ContractAnalysis, error) {
	var completion domain.ChatCompletion
	if err := json.Unmarshal(reply, &completion); err != nil {
		return domain.ContractAnalysis{}, domain.WrapError(domain.ErrModelReplyMalformed, "decode_completion", err)
	}
	content, ok := completion.FirstContent()
	if !ok || strings.TrimSpace(content) == "" {
		return domain.ContractAnalysis{}, domain.WrapError(domain.ErrModelReplyMalformed, "read_reply", errors.New("reply has no content"))
	}

	var analysis domain.ContractAnalysis
	if err := json.Unmarshal([]byte(extractJSONObject(content)), &analysis); err != nil {
		return domain.ContractAnalysis{}, domain.WrapError(domain.ErrModelReplyMalformed, "decode_analysis", err)
	}
	if !analysis.RiskAssessment.RiskLevel.Valid() {
		return domain.ContractAnalysis{}, domain.WrapError(
			domain.ErrModelReplyMalformed,
			"decode_analysis",
			fmt.Errorf("unknown risk level %q", analysis.RiskAssessment.RiskLevel),
		)
	}
	return analysis, nil
}
