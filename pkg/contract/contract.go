// Package contract exposes the OpenAPI description of the backend endpoint
// the form submits to.
package contract

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed bfhl.yaml
var document []byte

// OperationID identifies the submission operation in the embedded document.
const OperationID = "post-bfhl"

// Contract summarises the submission operation.
type Contract struct {
	Method        string
	Path          string
	RequestFields []string
	ResponseKeys  []string
}

// Raw returns the embedded OpenAPI document.
func Raw() []byte {
	return append([]byte(nil), document...)
}

// Load parses and validates the embedded document.
func Load(ctx context.Context) (Contract, error) {
	return Parse(ctx, document)
}

// Parse extracts the submission operation from raw.
func Parse(ctx context.Context, raw []byte) (Contract, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(raw) == 0 {
		return Contract{}, errors.New("contract: document is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return Contract{}, fmt.Errorf("contract: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return Contract{}, fmt.Errorf("contract: validate: %w", err)
	}
	if doc.Paths == nil {
		return Contract{}, errors.New("contract: document does not contain any paths")
	}

	for path, item := range doc.Paths.Map() {
		if item == nil || item.Post == nil || item.Post.OperationID != OperationID {
			continue
		}
		return Contract{
			Method:        "POST",
			Path:          path,
			RequestFields: requestFields(item.Post.RequestBody),
			ResponseKeys:  responseKeys(item.Post.Responses),
		}, nil
	}
	return Contract{}, fmt.Errorf("contract: operation %q not found", OperationID)
}

// HasResponseKey reports whether key is a declared response property.
func (c Contract) HasResponseKey(key string) bool {
	for _, candidate := range c.ResponseKeys {
		if candidate == key {
			return true
		}
	}
	return false
}

func requestFields(body *openapi3.RequestBodyRef) []string {
	if body == nil || body.Value == nil {
		return nil
	}
	mt := body.Value.Content.Get("multipart/form-data")
	if mt == nil {
		return nil
	}
	return schemaProperties(mt.Schema)
}

func responseKeys(responses *openapi3.Responses) []string {
	if responses == nil {
		return nil
	}
	for status, ref := range responses.Map() {
		if !strings.HasPrefix(status, "2") || ref == nil || ref.Value == nil {
			continue
		}
		mt := ref.Value.Content.Get("application/json")
		if mt == nil {
			continue
		}
		return schemaProperties(mt.Schema)
	}
	return nil
}

func schemaProperties(ref *openapi3.SchemaRef) []string {
	if ref == nil || ref.Value == nil || len(ref.Value.Properties) == 0 {
		return nil
	}
	out := make([]string, 0, len(ref.Value.Properties))
	for name := range ref.Value.Properties {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
