package contract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// SpecPath is the well-known location of the machine-readable contract on a
// running service.
const SpecPath = "/api-docs/openapi.json"

// Load parses an OpenAPI document and converts it into a Contract.
func Load(data []byte) (*Contract, error) {
	return load(data, "document")
}

// LoadFile reads and parses a local OpenAPI document.
func LoadFile(path string) (*Contract, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	return load(data, path)
}

// Fetch retrieves the contract from a running service at its well-known
// endpoint. A nil client falls back to http.DefaultClient.
func Fetch(ctx context.Context, baseURL string, client *http.Client) (*Contract, error) {
	if client == nil {
		client = http.DefaultClient
	}
	specURL := strings.TrimRight(baseURL, "/") + SpecPath

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, specURL, nil)
	if err != nil {
		return nil, &LoadError{Source: specURL, Err: err}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &LoadError{Source: specURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &LoadError{Source: specURL, Reason: fmt.Sprintf("unexpected status %s", resp.Status)}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &LoadError{Source: specURL, Err: err}
	}
	return load(data, specURL)
}

func load(data []byte, source string) (*Contract, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}
	if doc.Paths == nil {
		return nil, &LoadError{Source: source, Reason: "document has no paths"}
	}

	var ops []Operation
	for path, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil {
				continue
			}
			converted := Operation{
				ID:          op.OperationID,
				Method:      method,
				Path:        path,
				Summary:     op.Summary,
				Description: op.Description,
				Parameters:  convertParameters(item.Parameters, op),
				Response:    responseRef(op),
			}
			ops = append(ops, converted)
		}
	}

	title, version := "", ""
	if doc.Info != nil {
		title, version = doc.Info.Title, doc.Info.Version
	}
	c, err := New(title, version, ops)
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}
	return c, nil
}

// convertParameters merges path-item level parameters with operation level
// ones (operation wins on name+location) and appends the body parameter when
// the operation declares a JSON request body.
func convertParameters(shared openapi3.Parameters, op *openapi3.Operation) []ParameterSpec {
	var specs []ParameterSpec
	add := func(refs openapi3.Parameters) {
		for _, ref := range refs {
			if ref == nil || ref.Value == nil {
				continue
			}
			p := ref.Value
			spec := ParameterSpec{
				Name:        p.Name,
				In:          Location(p.In),
				Type:        schemaType(p.Schema),
				Required:    p.Required,
				Default:     schemaDefault(p.Schema),
				Description: p.Description,
			}
			replaced := false
			for i := range specs {
				if specs[i].Name == spec.Name && specs[i].In == spec.In {
					specs[i] = spec
					replaced = true
					break
				}
			}
			if !replaced {
				specs = append(specs, spec)
			}
		}
	}
	add(shared)
	add(op.Parameters)

	if rb := op.RequestBody; rb != nil && rb.Value != nil {
		if _, ok := rb.Value.Content["application/json"]; ok {
			specs = append(specs, ParameterSpec{
				Name:        "body",
				In:          InBody,
				Type:        "string",
				Required:    rb.Value.Required,
				Description: "JSON request body",
			})
		}
	}
	return specs
}

func schemaType(ref *openapi3.SchemaRef) string {
	if ref == nil || ref.Value == nil || ref.Value.Type == nil {
		return "string"
	}
	t := ref.Value.Type
	switch {
	case t.Is(openapi3.TypeInteger):
		return "integer"
	case t.Is(openapi3.TypeNumber):
		return "number"
	case t.Is(openapi3.TypeBoolean):
		return "boolean"
	default:
		return "string"
	}
}

func schemaDefault(ref *openapi3.SchemaRef) string {
	if ref == nil || ref.Value == nil || ref.Value.Default == nil {
		return ""
	}
	return fmt.Sprint(ref.Value.Default)
}

// responseRef extracts a human-readable reference to the success response
// shape: the schema $ref when present, the description otherwise.
func responseRef(op *openapi3.Operation) string {
	if op.Responses == nil {
		return ""
	}
	for _, status := range []string{"200", "201", "default"} {
		ref := op.Responses.Value(status)
		if ref == nil || ref.Value == nil {
			continue
		}
		if mt, ok := ref.Value.Content["application/json"]; ok && mt.Schema != nil && mt.Schema.Ref != "" {
			return mt.Schema.Ref
		}
		if ref.Value.Description != nil {
			return *ref.Value.Description
		}
	}
	return ""
}
