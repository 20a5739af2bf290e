package schema

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kirillkom/docai-relay/internal/core/domain"
)

func TestValidateSchemaAcceptsObjectSchema(t *testing.T) {
	v := NewValidator()
	schema := json.RawMessage(`{
		"type": "object",
		"properties": {
			"invoice_number": {"type": "string", "description": "Invoice number"},
			"total_amount": {"type": "number"},
			"line_items": {"type": "array", "items": {"type": "object", "properties": {"quantity": {"type": "number"}}}}
		}
	}`)
	require.NoError(t, v.ValidateSchema(schema))
}

func TestValidateSchemaRejectsBrokenInputAsInvalidSchema(t *testing.T) {
	v := NewValidator()
	cases := map[string]string{
		"empty":        "  ",
		"not json":     "{type: object",
		"array root":   `[{"type":"object"}]`,
		"number root":  `[1]`,
		"string root":  `"object"`,
		"bad type":     `{"type": 12}`,
		"bad required": `{"type": "object", "required": "name"}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			err := v.ValidateSchema(json.RawMessage(raw))
			require.Error(t, err)
			require.True(t, errors.Is(err, domain.ErrInvalidSchema), "expected invalid schema kind, got %v", err)
			require.True(t, errors.Is(err, domain.ErrInvalidInput))
		})
	}
}

func TestValidateSchemaErrorDoesNotMentionLocalFiles(t *testing.T) {
	err := NewValidator().ValidateSchema(json.RawMessage(`{"type": 12}`))
	require.Error(t, err)
	require.NotContains(t, err.Error(), "file://")
	require.Contains(t, err.Error(), "mem://extraction_schema.json")
}
