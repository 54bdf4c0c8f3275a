package agentor

// Validatable is implemented by argument structs that need custom business
// validation beyond the JSON Schema. Called after schema validation and
// unmarshaling; a non-nil error is reported to the model as an ExecutionError.
type Validatable interface {
	Validate() error
}

// schemaValidator validates a JSON-like value (e.g. map[string]any from
// json.Unmarshal). *jsonschema.Resolved implements it.
type schemaValidator interface {
	Validate(v any) error
}

// validateAgainstSchema runs layer-1 validation on an already-parsed value.
// Callers unmarshal first and report parse errors themselves.
func validateAgainstSchema(validate schemaValidator, v any) error {
	if err := validate.Validate(v); err != nil {
		return &ExecutionError{Reason: err.Error(), Err: ErrValidation}
	}
	return nil
}

// validateCustom runs layer-2 (Validatable) if args implements it.
func validateCustom(args any) error {
	if v, ok := args.(Validatable); ok {
		return v.Validate()
	}
	return nil
}
