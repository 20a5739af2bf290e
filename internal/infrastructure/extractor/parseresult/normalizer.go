package parseresult

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/kirillkom/docai-relay/internal/core/domain"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	blankLineRun  = regexp.MustCompile(`\n\s*\n`)
)

type Normalizer struct {
	logger *slog.Logger
}

func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger}
}

// Normalize tries every variant in priority order and keeps the first one that
// yields non-blank text. A strategy that fails counts as blank.
func (n *Normalizer) Normalize(ctx context.Context, raw json.RawMessage) (domain.NormalizedText, error) {
	result, err := domain.DecodeParseResult(raw)
	if err != nil {
		return domain.NormalizedText{}, domain.WrapError(domain.ErrNoTextExtracted, "normalize", err)
	}

	for _, variant := range result.Variants {
		text := n.guarded(ctx, variant)
		n.logger.DebugContext(ctx, "normalizer_strategy",
			"strategy", string(variant.Kind),
			"text_length", len(text),
		)
		if strings.TrimSpace(text) != "" {
			return domain.NormalizedText{Text: text, Strategy: variant.Kind}, nil
		}
	}

	kinds := make([]string, 0, len(result.Variants))
	for _, variant := range result.Variants {
		kinds = append(kinds, string(variant.Kind))
	}
	return domain.NormalizedText{}, domain.WrapError(
		domain.ErrNoTextExtracted,
		"normalize",
		fmt.Errorf("document may be empty or in an unsupported format (variants=%v)", kinds),
	)
}

func (n *Normalizer) guarded(ctx context.Context, variant domain.ParseVariant) (text string) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.WarnContext(ctx, "normalizer_strategy_failed", "strategy", string(variant.Kind), "panic", r)
			text = ""
		}
	}()
	return applyStrategy(variant)
}

func applyStrategy(variant domain.ParseVariant) string {
	switch variant.Kind {
	case domain.VariantElements:
		lines := make([]string, 0, len(variant.Elements))
		for _, element := range variant.Elements {
			lines = append(lines, element.Content.Text)
		}
		return strings.Join(lines, "\n")
	case domain.VariantContentText:
		return variant.Value
	case domain.VariantContentHTML, domain.VariantTopLevelHTML:
		return StripHTML(variant.Value)
	default:
		return ""
	}
}
