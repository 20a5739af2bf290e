package domain

import (
	"encoding/json"
	"fmt"
)

// ParseVariantKind tags the shapes a parse payload can take.
type ParseVariantKind string

const (
	VariantElements     ParseVariantKind = "elements"
	VariantContentText  ParseVariantKind = "content.text"
	VariantContentHTML  ParseVariantKind = "content.html"
	VariantTopLevelHTML ParseVariantKind = "html"
)

type ElementContent struct {
	Text     string `json:"text,omitempty"`
	HTML     string `json:"html,omitempty"`
	Markdown string `json:"markdown,omitempty"`
}

type Element struct {
	ID       int            `json:"id,omitempty"`
	Category string         `json:"category,omitempty"`
	Page     int            `json:"page,omitempty"`
	Content  ElementContent `json:"content"`
}

// ParseVariant is one candidate text source. Exactly one of Elements or Value is
// meaningful, selected by Kind.
type ParseVariant struct {
	Kind     ParseVariantKind
	Elements []Element
	Value    string
}

// ParseResult lists the variants present in an upstream payload in normalizer
// priority order.
type ParseResult struct {
	Variants []ParseVariant
}

type rawParsePayload struct {
	Elements json.RawMessage `json:"elements"`
	Content  *struct {
		Text json.RawMessage `json:"text"`
		HTML json.RawMessage `json:"html"`
	} `json:"content"`
	HTML json.RawMessage `json:"html"`
}

// DecodeParseResult accepts any JSON object. Fields whose type does not match
// the expected shape are skipped rather than failing the whole payload.
func DecodeParseResult(raw []byte) (ParseResult, error) {
	var payload rawParsePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ParseResult{}, fmt.Errorf("decode parse result: %w", err)
	}

	var result ParseResult
	if elements, ok := decodeElements(payload.Elements); ok {
		result.Variants = append(result.Variants, ParseVariant{Kind: VariantElements, Elements: elements})
	}
	if payload.Content != nil {
		if text, ok := decodeString(payload.Content.Text); ok {
			result.Variants = append(result.Variants, ParseVariant{Kind: VariantContentText, Value: text})
		}
		if markup, ok := decodeString(payload.Content.HTML); ok {
			result.Variants = append(result.Variants, ParseVariant{Kind: VariantContentHTML, Value: markup})
		}
	}
	if markup, ok := decodeString(payload.HTML); ok {
		result.Variants = append(result.Variants, ParseVariant{Kind: VariantTopLevelHTML, Value: markup})
	}
	return result, nil
}

func decodeElements(raw json.RawMessage) ([]Element, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	elements := make([]Element, 0, len(items))
	for _, item := range items {
		var element Element
		// A malformed element contributes an empty line, like one without content.text.
		_ = json.Unmarshal(item, &element)
		elements = append(elements, element)
	}
	return elements, true
}

func decodeString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", false
	}
	return value, true
}

// NormalizedText is the single best-effort text of a parse result and the
// variant it came from.
type NormalizedText struct {
	Text     string
	Strategy ParseVariantKind
}
