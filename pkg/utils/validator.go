package utils

import (
	"sync"

	validatorv10 "github.com/go-playground/validator/v10"
)

// RequestValidator wraps validator/v10 behind the small interface the
// handlers use.
type RequestValidator struct {
	validate *validatorv10.Validate
}

var (
	validatorOnce     sync.Once
	validatorInstance *RequestValidator
)

// GetValidator returns the process-wide request validator.
func GetValidator() *RequestValidator {
	validatorOnce.Do(func() {
		validatorInstance = &RequestValidator{validate: validatorv10.New()}
	})
	return validatorInstance
}

// Validate checks struct tags and returns the first violation as an error.
func (v *RequestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
