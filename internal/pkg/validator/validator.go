package validator

// Validator validates request and domain structs using tag-based rules.
type Validator interface {
	Validate(data any) error
}
