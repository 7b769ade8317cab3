package config

import (
	"sync"

	"github.com/grovetools/presets/schema"
)

var (
	validatorOnce sync.Once
	validator     *schema.Validator
	validatorErr  error
)

// schemaValidator compiles the generated schema once per process.
func schemaValidator() (*schema.Validator, error) {
	validatorOnce.Do(func() {
		data, err := GenerateSchema()
		if err != nil {
			validatorErr = err
			return
		}
		validator, validatorErr = schema.NewValidator("presets.json", data)
	})
	return validator, validatorErr
}
