package contract

import (
	"encoding/json"

	"github.com/getkin/kin-openapi/openapi3"
)

// Document renders the contract back into an OpenAPI document. Services that
// build their contract from registered operation definitions use this to
// serve the machine-readable spec at the well-known endpoint, so the document
// a client fetches is the same one the server routes by.
func (c *Contract) Document() *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info:    &openapi3.Info{Title: c.Title, Version: c.Version},
		Paths:   openapi3.NewPaths(),
	}
	if doc.Info.Title == "" {
		doc.Info.Title = "service-kit API"
	}
	if doc.Info.Version == "" {
		doc.Info.Version = "0.0.0"
	}

	for _, op := range c.ops {
		out := openapi3.NewOperation()
		out.OperationID = op.ID
		out.Summary = op.Summary
		out.Description = op.Description

		for _, p := range op.Parameters {
			if p.In == InBody {
				rb := openapi3.NewRequestBody().WithRequired(p.Required)
				rb.Content = openapi3.NewContentWithJSONSchema(openapi3.NewObjectSchema())
				out.RequestBody = &openapi3.RequestBodyRef{Value: rb}
				continue
			}
			param := &openapi3.Parameter{
				Name:        p.Name,
				In:          string(p.In),
				Required:    p.Required,
				Description: p.Description,
				Schema:      openapi3.NewSchemaRef("", schemaFor(p.Type)),
			}
			out.AddParameter(param)
		}

		desc := op.Response
		if desc == "" {
			desc = "successful operation"
		}
		out.AddResponse(200, openapi3.NewResponse().WithDescription(desc))

		doc.AddOperation(op.Path, op.Method, out)
	}
	return doc
}

// MarshalJSON serializes the contract as its OpenAPI document.
func (c *Contract) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Document())
}

func schemaFor(typ string) *openapi3.Schema {
	switch typ {
	case "integer":
		return openapi3.NewIntegerSchema()
	case "number":
		return openapi3.NewFloat64Schema()
	case "boolean":
		return openapi3.NewBoolSchema()
	default:
		return openapi3.NewStringSchema()
	}
}
