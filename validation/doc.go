// Package validation validates structs through go-playground/validator tags
// and reports failures as an INVALID_INPUT AppError listing every field.
//
//	type Options struct {
//	    Language string `json:"language" validate:"oneof=auto zh en ja ko"`
//	}
//	err := validation.Validate(opts)
package validation
