package domain

import "testing"

func TestDecodeParseResultOrdersVariantsByPriority(t *testing.T) {
	raw := []byte(`{
		"html": "<p>top</p>",
		"content": {"html": "<p>c</p>", "text": "plain"},
		"elements": [{"id": 1, "category": "paragraph", "page": 1, "content": {"text": "A"}}]
	}`)

	result, err := DecodeParseResult(raw)
	if err != nil {
		t.Fatalf("DecodeParseResult() error = %v", err)
	}
	want := []ParseVariantKind{VariantElements, VariantContentText, VariantContentHTML, VariantTopLevelHTML}
	if len(result.Variants) != len(want) {
		t.Fatalf("expected %d variants, got %+v", len(want), result.Variants)
	}
	for i, kind := range want {
		if result.Variants[i].Kind != kind {
			t.Fatalf("variant %d: expected %s, got %s", i, kind, result.Variants[i].Kind)
		}
	}
	if result.Variants[0].Elements[0].Content.Text != "A" || result.Variants[0].Elements[0].Page != 1 {
		t.Fatalf("unexpected element: %+v", result.Variants[0].Elements[0])
	}
}

func TestDecodeParseResultSkipsMistypedFields(t *testing.T) {
	result, err := DecodeParseResult([]byte(`{"elements": "nope", "content": {"text": 42}, "html": "<b>x</b>"}`))
	if err != nil {
		t.Fatalf("DecodeParseResult() error = %v", err)
	}
	if len(result.Variants) != 1 || result.Variants[0].Kind != VariantTopLevelHTML {
		t.Fatalf("expected only top-level html variant, got %+v", result.Variants)
	}
}

func TestDecodeParseResultRejectsNonJSON(t *testing.T) {
	if _, err := DecodeParseResult([]byte("<html>")); err == nil {
		t.Fatalf("expected error for non-json payload")
	}
}
