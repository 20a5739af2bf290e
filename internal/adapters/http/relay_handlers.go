package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/kirillkom/docai-relay/internal/core/domain"
)

const (
	multipartOverheadBytes = 1 << 20
	multipartMemoryBytes   = 32 << 20
	chatBodyLimitBytes     = 10 << 20
)

func (rt *Router) parseDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	doc, err := readUpload(w, r)
	if err != nil {
		writeError(w, r, err, "Failed to parse document")
		return
	}

	result, err := rt.relay.ParseDocument(r.Context(), doc)
	if err != nil {
		writeError(w, r, err, "Failed to parse document")
		return
	}
	writeRawJSON(w, http.StatusOK, result)
}

func (rt *Router) extractInformation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	doc, err := readUpload(w, r)
	if err != nil {
		writeError(w, r, err, "Failed to extract information")
		return
	}

	result, err := rt.relay.ExtractInformation(r.Context(), doc, r.FormValue("schema"))
	if err != nil {
		writeError(w, r, err, "Failed to extract information")
		return
	}
	writeRawJSON(w, http.StatusOK, result)
}

func (rt *Router) chat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	req, err := decodeChatRequest(w, r)
	if err != nil {
		writeError(w, r, err, "Failed to chat with Solar LLM")
		return
	}

	result, err := rt.relay.Chat(r.Context(), req)
	if err != nil {
		writeError(w, r, err, "Failed to chat with Solar LLM")
		return
	}
	writeRawJSON(w, http.StatusOK, result)
}

func (rt *Router) analyzeContract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	doc, err := readUpload(w, r)
	if err != nil {
		writeError(w, r, err, "Failed to analyze contract")
		return
	}

	analysis, err := rt.analyzer.Analyze(r.Context(), doc)
	if err != nil {
		writeError(w, r, err, "Failed to analyze contract")
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

// readUpload reads the "document" multipart field. A missing field yields a nil
// document so the use case reports it; an oversize body is rejected here.
func readUpload(w http.ResponseWriter, r *http.Request) (*domain.UploadedDocument, error) {
	r.Body = http.MaxBytesReader(w, r.Body, domain.MaxUploadBytes+multipartOverheadBytes)
	if err := r.ParseMultipartForm(multipartMemoryBytes); err != nil {
		if isBodyTooLarge(err) {
			return nil, fmt.Errorf("%w: %w", domain.ErrPayloadTooLarge, err)
		}
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, domain.WrapError(domain.ErrInvalidInput, "read_multipart", err)
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, domain.WrapError(domain.ErrInvalidInput, "read_document", err)
	}
	defer file.Close()

	if header.Size > domain.MaxUploadBytes {
		return nil, fmt.Errorf("%w: %d bytes", domain.ErrPayloadTooLarge, header.Size)
	}
	content, err := io.ReadAll(file)
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "read_document", err)
	}
	return &domain.UploadedDocument{
		Filename: header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Size:     header.Size,
		Content:  content,
	}, nil
}

func isBodyTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	return errors.As(err, &maxBytesErr)
}

// decodeChatRequest insists that messages is a JSON array; roles are checked
// by the use case.
func decodeChatRequest(w http.ResponseWriter, r *http.Request) (domain.ChatRequest, error) {
	var body struct {
		Messages        json.RawMessage `json:"messages"`
		ReasoningEffort string          `json:"reasoningEffort"`
		Stream          bool            `json:"stream"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, chatBodyLimitBytes)).Decode(&body); err != nil {
		if isBodyTooLarge(err) {
			return domain.ChatRequest{}, fmt.Errorf("%w: %w", domain.ErrPayloadTooLarge, err)
		}
		return domain.ChatRequest{}, fmt.Errorf("%w: %w", domain.ErrInvalidMessages, err)
	}
	if len(body.Messages) == 0 || string(body.Messages) == "null" {
		return domain.ChatRequest{}, domain.ErrInvalidMessages
	}

	var messages []domain.ChatMessage
	if err := json.Unmarshal(body.Messages, &messages); err != nil {
		return domain.ChatRequest{}, fmt.Errorf("%w: %w", domain.ErrInvalidMessages, err)
	}
	if messages == nil {
		messages = []domain.ChatMessage{}
	}
	return domain.ChatRequest{
		Messages:        messages,
		ReasoningEffort: body.ReasoningEffort,
		Stream:          body.Stream,
	}, nil
}
