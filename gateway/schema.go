package gateway

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Analytics request bodies are validated against JSON Schemas before
// decoding so malformed payloads produce a precise 400 instead of a zero
// value silently flowing into the aggregation.
//
// The schemas are deliberately permissive about item contents: the
// analytics types already tolerate missing and mixed-type fields from the
// upstream API. Only the envelope shape is enforced.

const stockSchemaJSON = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["products"],
	"properties": {
		"products": {
			"type": "array",
			"items": {"type": "object"}
		}
	}
}`

const ordersSchemaJSON = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["orders"],
	"properties": {
		"orders": {
			"type": "array",
			"items": {"type": "object"}
		}
	}
}`

var (
	stockSchema  = gojsonschema.NewStringLoader(stockSchemaJSON)
	ordersSchema = gojsonschema.NewStringLoader(ordersSchemaJSON)
)

// validateStockBody checks a stock analysis request body against its schema.
func validateStockBody(body []byte) error {
	return validateBody(stockSchema, body, "products")
}

// validateOrdersBody checks an order analysis request body against its schema.
func validateOrdersBody(body []byte) error {
	return validateBody(ordersSchema, body, "orders")
}

func validateBody(schema gojsonschema.JSONLoader, body []byte, field string) error {
	if len(body) == 0 {
		return fmt.Errorf("%s field is required", field)
	}

	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return stderrors.New("request body is not valid JSON")
	}

	if !result.Valid() {
		descs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			if desc.Type() == "required" {
				return fmt.Errorf("%s field is required", field)
			}
			descs = append(descs, desc.String())
		}
		return fmt.Errorf("invalid %s payload: %s", field, strings.Join(descs, "; "))
	}

	return nil
}
