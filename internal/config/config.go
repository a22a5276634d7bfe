// Package config loads process configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/caarlos0/env/v11"
)

// validatable is implemented by config sections with constraints env tags
// cannot express.
type validatable interface {
	Validate() error
}

// New parses T from the environment and then validates T and each of its
// top-level sections.
func New[T any]() (T, error) {
	cfg, err := env.ParseAs[T]()
	if err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	if err := validate(cfg); err != nil {
		return cfg, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func validate(cfg any) error {
	if v, ok := cfg.(validatable); ok {
		return v.Validate()
	}

	rv := reflect.ValueOf(cfg)
	if rv.Kind() != reflect.Struct {
		return nil
	}

	var errs []error
	for i := range rv.NumField() {
		field := rv.Type().Field(i)
		if !field.IsExported() {
			continue
		}

		if v, ok := rv.Field(i).Interface().(validatable); ok {
			if err := v.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", field.Name, err))
			}
		}
	}

	return errors.Join(errs...)
}
