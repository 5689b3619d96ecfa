package validator

import (
	"github.com/go-playground/validator/v10"
)

// Validator validates already-typed structures inside services, independent
// of whatever binding the transport layer performed.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	return &Validator{validate: validator.New()}
}

// Struct validates v against its `validate` tags.
func (v *Validator) Struct(val interface{}) error {
	return v.validate.Struct(val)
}

// Var validates a single value against the given rules.
func (v *Validator) Var(val interface{}, rules string) error {
	return v.validate.Var(val, rules)
}
