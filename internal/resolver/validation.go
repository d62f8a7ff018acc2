// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package resolver

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/mia-platform/logsink/internal/config"
	"github.com/mia-platform/logsink/internal/destination"
)

// platformSettings mirrors the platform fields that must be checked before a
// platform destination can be built.
type platformSettings struct {
	App       string  `json:"app" validate:"required,notblank"`
	Secret    string  `json:"secret" validate:"required,notblank"`
	Key       string  `json:"key" validate:"required,notblank"`
	Threshold *int    `json:"threshold" validate:"omitempty,gte=0,lte=1000"`
	ServerURL *string `json:"serverURL" validate:"omitempty,http_url"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// credentials made of whitespace only are rejected
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// validatePlatform checks every platform field and reports all the violations found.
func (r *Resolver) validatePlatform(cfg *config.DestinationConfig) error {
	settings := platformSettings{
		App:       cfg.App,
		Secret:    cfg.Secret,
		Key:       cfg.Key,
		Threshold: cfg.Threshold,
		ServerURL: cfg.ServerURL,
	}

	err := r.validate.Struct(settings)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	configErr := &InvalidConfigurationError{}
	for _, fieldErr := range validationErrs {
		field := Field(fieldErr.Field())
		configErr.Violations = append(configErr.Violations, Violation{
			Field:   field,
			Message: violationMessage(field, cfg),
		})
	}
	configErr.Field = configErr.Violations[0].Field

	return configErr
}

func violationMessage(field Field, cfg *config.DestinationConfig) string {
	switch field {
	case FieldApp:
		return "invalid app identifier"
	case FieldSecret:
		return "invalid secret"
	case FieldKey:
		return "invalid encryption key"
	case FieldThreshold:
		return fmt.Sprintf("invalid threshold %d, must be between %d and %d", *cfg.Threshold, destination.MinThreshold, destination.MaxThreshold)
	case FieldServerURL:
		return fmt.Sprintf("invalid server URL %q", *cfg.ServerURL)
	default:
		return fmt.Sprintf("invalid %s", field)
	}
}
