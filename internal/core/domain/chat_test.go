package domain

import (
	"encoding/json"
	"testing"
)

func TestChatCompletionFirstContent(t *testing.T) {
	var completion ChatCompletion
	if err := json.Unmarshal([]byte(`{"choices":[{"message":{"role":"assistant","content":"hello"}}]}`), &completion); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	content, ok := completion.FirstContent()
	if !ok || content != "hello" {
		t.Fatalf("expected hello, got %q (ok=%v)", content, ok)
	}

	var structured ChatCompletion
	if err := json.Unmarshal([]byte(`{"choices":[{"message":{"content":{"invoice_number":"DEMO-001"}}}]}`), &structured); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	content, ok = structured.FirstContent()
	if !ok || content != `{"invoice_number":"DEMO-001"}` {
		t.Fatalf("expected raw object content, got %q", content)
	}

	if _, ok := (ChatCompletion{}).FirstContent(); ok {
		t.Fatalf("expected no content for empty choices")
	}
}
