package agentor

import (
	"encoding/json"
	"reflect"
)

// coercer resolves the response format for an answer type T and decodes the
// backend's final text into it. string is the opaque-text shape: no schema is
// attached and the text is returned as-is. Every other type derives a JSON
// Schema that is attached to the request so the backend constrains generation.
type coercer[T any] struct {
	schema map[string]any // nil for the opaque-text shape
}

func newCoercer[T any]() (*coercer[T], error) {
	if isTextShape[T]() {
		return &coercer[T]{}, nil
	}
	schemaMap, _, err := generateSchema[T](false)
	if err != nil {
		return nil, err
	}
	stripResponseMeta(schemaMap)
	return &coercer[T]{schema: schemaMap}, nil
}

// isTextShape reports whether T is exactly string.
func isTextShape[T any]() bool {
	return reflect.TypeFor[T]() == reflect.TypeFor[string]()
}

// apply attaches the response schema to the outbound options when T is
// structured.
func (c *coercer[T]) apply(opts *ChatOptions) {
	if c.schema == nil {
		return
	}
	opts.ResponseSchema = c.schema
	if opts.ResponseSchemaName == "" {
		opts.ResponseSchemaName = "ResponseFormat"
	}
}

// decode parses the terminal text into T. Parse failures are fatal DecodeErrors;
// retrying is up to the caller, never this layer.
func (c *coercer[T]) decode(text string) (T, error) {
	if c.schema == nil {
		return any(text).(T), nil
	}
	var out T
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		var zero T
		return zero, &DecodeError{Raw: text, Err: err}
	}
	return out, nil
}
