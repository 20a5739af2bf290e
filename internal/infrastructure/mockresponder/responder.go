// Package mockresponder answers relay calls with canned payloads when no
// backend is reachable, e.g. when the UI is served from static hosting.
package mockresponder

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/kirillkom/docai-relay/internal/core/domain"
)

const (
	mockParseText = "This is a mock response for static deployment demo."
	mockChatText  = "This is a mock response from Solar LLM for the static demo. In a real deployment, this would connect to the Upstage API."
)

// Responder is an http.RoundTripper that never touches the network.
type Responder struct {
	served atomic.Int64
}

func New() *Responder {
	return &Responder{}
}

// Served reports how many requests were answered with canned payloads.
func (r *Responder) Served() int64 {
	return r.served.Load()
}

func (r *Responder) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body != nil {
		_, _ = io.Copy(io.Discard, req.Body)
		_ = req.Body.Close()
	}
	r.served.Add(1)

	body := Payload(req.URL.Path)
	return &http.Response{
		Status:        "200 OK",
		StatusCode:    http.StatusOK,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        http.Header{"Content-Type": []string{"application/json"}},
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}, nil
}

// Payload selects the canned body by substring of the endpoint path.
func Payload(endpoint string) []byte {
	switch {
	case strings.Contains(endpoint, "document-parse"):
		return mustJSON(map[string]any{
			"elements": []domain.Element{
				{
					ID:       1,
					Category: "text",
					Page:     1,
					Content: domain.ElementContent{
						HTML:     "<p>" + mockParseText + "</p>",
						Markdown: mockParseText,
						Text:     mockParseText,
					},
				},
			},
		})
	case strings.Contains(endpoint, "information-extract"):
		return chatShaped(mustJSON(map[string]any{
			"invoice_number": "DEMO-001",
			"total_amount":   1234.56,
			"vendor_name":    "Demo Company",
		}))
	case strings.Contains(endpoint, "contract-analyze"):
		analysis := mockAnalysis()
		analysis.DocumentText = mockParseText
		return mustJSON(analysis)
	case strings.Contains(endpoint, "solar-chat"):
		return chatShaped(mustJSON(mockAnalysis()))
	default:
		return mustJSON(map[string]string{"message": "Mock response for static demo"})
	}
}

func mockAnalysis() domain.ContractAnalysis {
	return domain.ContractAnalysis{
		KeyTerms: domain.KeyTerms{
			Parties:           []string{"Demo Company", "Example Client LLC"},
			EffectiveDate:     "2024-01-01",
			ExpirationDate:    "2024-12-31",
			TotalValue:        "$12,000",
			PaymentTerms:      "Monthly invoices payable within 30 days",
			TerminationClause: "Either party may terminate with 30 days written notice",
		},
		RiskAssessment: domain.RiskAssessment{
			RiskLevel:       domain.RiskLow,
			RiskFactors:     []string{"Mock data for static demo"},
			Recommendations: []string{"Connect a backend to analyze real contracts"},
		},
		Summary: mockChatText,
		Obligations: []domain.PartyObligations{
			{Party: "Demo Company", Obligations: []string{"Deliver monthly services"}},
			{Party: "Example Client LLC", Obligations: []string{"Pay invoices on time"}},
		},
	}
}

func chatShaped(content []byte) []byte {
	return mustJSON(map[string]any{
		"choices": []map[string]any{
			{
				"index": 0,
				"message": map[string]any{
					"role":    "assistant",
					"content": string(content),
				},
				"finish_reason": "stop",
			},
		},
	})
}

func mustJSON(v any) []byte {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}
