package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kirillkom/docai-relay/internal/core/domain"
	"github.com/kirillkom/docai-relay/internal/core/ports"
)

// RelayUseCase validates caller input and forwards it to the gateway. Every
// rejection happens before the gateway is called.
type RelayUseCase struct {
	gateway   ports.DocumentAIGateway
	validator ports.SchemaValidator
	logger    *slog.Logger
}

func NewRelayUseCase(gateway ports.DocumentAIGateway, validator ports.SchemaValidator, logger *slog.Logger) *RelayUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &RelayUseCase{
		gateway:   gateway,
		validator: validator,
		logger:    logger,
	}
}

func (uc *RelayUseCase) ParseDocument(ctx context.Context, doc *domain.UploadedDocument) (json.RawMessage, error) {
	if err := validateDocument(doc); err != nil {
		return nil, err
	}
	return uc.gateway.ParseDocument(ctx, doc)
}

func (uc *RelayUseCase) ExtractInformation(ctx context.Context, doc *domain.UploadedDocument, schema string) (json.RawMessage, error) {
	if err := validateDocument(doc); err != nil {
		return nil, err
	}
	if strings.TrimSpace(schema) == "" {
		return nil, domain.ErrMissingSchema
	}
	raw := json.RawMessage(schema)
	if uc.validator != nil {
		if err := uc.validator.ValidateSchema(raw); err != nil {
			if !domain.IsKind(err, domain.ErrInvalidSchema) {
				err = domain.WrapError(domain.ErrInvalidSchema, "validate_schema", err)
			}
			return nil, err
		}
	}
	return uc.gateway.ExtractInformation(ctx, doc, raw)
}

func (uc *RelayUseCase) Chat(ctx context.Context, req domain.ChatRequest) (json.RawMessage, error) {
	if req.Messages == nil {
		return nil, domain.ErrInvalidMessages
	}
	for i, msg := range req.Messages {
		if !msg.Role.Valid() {
			return nil, fmt.Errorf("%w: messages[%d] has role %q", domain.ErrInvalidMessages, i, msg.Role)
		}
	}
	if strings.TrimSpace(req.ReasoningEffort) == "" {
		req.ReasoningEffort = domain.DefaultReasoningEffort
	}
	if req.Stream {
		uc.logger.DebugContext(ctx, "chat_stream_ignored")
	}
	req.Stream = false
	return uc.gateway.ChatCompletion(ctx, req)
}

func validateDocument(doc *domain.UploadedDocument) error {
	if doc == nil || len(doc.Content) == 0 {
		return domain.ErrMissingDocument
	}
	size := doc.Size
	if size < int64(len(doc.Content)) {
		size = int64(len(doc.Content))
	}
	if size > domain.MaxUploadBytes {
		return fmt.Errorf("%w: %d bytes exceeds %d", domain.ErrPayloadTooLarge, size, domain.MaxUploadBytes)
	}
	return nil
}
