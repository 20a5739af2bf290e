package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/kirillkom/docai-relay/internal/core/domain"
)

// Absolute so the compiler never resolves it against the working directory.
const resourceURL = "mem://extraction_schema.json"

// Validator compiles caller schemas locally so a broken schema never reaches
// the provider. Every failure carries domain.ErrInvalidSchema.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) ValidateSchema(raw json.RawMessage) error {
	if err := validate(raw); err != nil {
		return domain.WrapError(domain.ErrInvalidSchema, "validate_schema", err)
	}
	return nil
}

func validate(raw json.RawMessage) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return errors.New("schema is empty")
	}

	var root any
	if err := json.Unmarshal(trimmed, &root); err != nil {
		return fmt.Errorf("schema is not valid json: %w", err)
	}
	if _, ok := root.(map[string]any); !ok {
		return errors.New("schema must be a json object")
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(resourceURL, bytes.NewReader(trimmed)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	if _, err := compiler.Compile(resourceURL); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	return nil
}
