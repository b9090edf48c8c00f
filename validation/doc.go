// Package validation provides struct-tag validation backed by
// go-playground/validator. Failures are returned as *errors.AppError with a
// per-field breakdown in Details["fields"].
//
//	type Config struct {
//	    Port int `mapstructure:"port" validate:"min=0,max=65535"`
//	}
//	err := validation.ValidateStruct(&cfg)
package validation
