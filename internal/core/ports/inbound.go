package ports

import (
	"context"
	"encoding/json"

	"github.com/kirillkom/docai-relay/internal/core/domain"
)

// DocumentRelay is the inbound contract behind the /api relay endpoints.
type DocumentRelay interface {
	ParseDocument(ctx context.Context, doc *domain.UploadedDocument) (json.RawMessage, error)
	ExtractInformation(ctx context.Context, doc *domain.UploadedDocument, schema string) (json.RawMessage, error)
	Chat(ctx context.Context, req domain.ChatRequest) (json.RawMessage, error)
}

// ContractAnalyzer runs the upload -> parse -> analyze flow for one document.
type ContractAnalyzer interface {
	Analyze(ctx context.Context, doc *domain.UploadedDocument) (*domain.ContractAnalysis, error)
}
