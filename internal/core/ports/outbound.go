package ports

import (
	"context"
	"encoding/json"

	"github.com/kirillkom/docai-relay/internal/core/domain"
)

// DocumentAIGateway talks to the document-AI provider, or to something shaped
// like it. Returned payloads are the provider's JSON, unmodified.
type DocumentAIGateway interface {
	ParseDocument(ctx context.Context, doc *domain.UploadedDocument) (json.RawMessage, error)
	ExtractInformation(ctx context.Context, doc *domain.UploadedDocument, schema json.RawMessage) (json.RawMessage, error)
	ChatCompletion(ctx context.Context, req domain.ChatRequest) (json.RawMessage, error)
}

// TextNormalizer turns a heterogeneous parse payload into one plain-text string.
type TextNormalizer interface {
	Normalize(ctx context.Context, raw json.RawMessage) (domain.NormalizedText, error)
}

// SchemaValidator checks a caller-supplied JSON Schema before it is forwarded.
type SchemaValidator interface {
	ValidateSchema(schema json.RawMessage) error
}

// AnalysisMetrics records orchestrator outcomes. Implementations must be safe
// for concurrent use.
type AnalysisMetrics interface {
	RecordNormalizerStrategy(strategy string)
	RecordAnalysis(outcome string)
}
