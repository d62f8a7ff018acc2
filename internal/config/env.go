// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

var (
	ErrEnvVariablesNotValid = errors.New("environment variables not valid")
)

// EnvConfig holds the settings read from the environment.
type EnvConfig struct {
	DestinationsFile string        `env:"LOGSINK_DESTINATIONS_FILE" envDefault:"destinations.yaml"`
	PlatformTimeout  time.Duration `env:"LOGSINK_PLATFORM_TIMEOUT" envDefault:"10s"`
	AsyncBuffer      int           `env:"LOGSINK_ASYNC_BUFFER" envDefault:"256"`
}

// LoadEnvConfig parses and validates the environment configuration.
func LoadEnvConfig() (*EnvConfig, error) {
	var envVars EnvConfig
	if err := env.Parse(&envVars); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEnvVariablesNotValid, err.Error())
	}

	if err := validateEnvironmentVariables(&envVars); err != nil {
		return nil, err
	}
	return &envVars, nil
}

func validateEnvironmentVariables(envVars *EnvConfig) error {
	envError := make([]string, 0)

	if envVars.DestinationsFile == "" {
		envError = append(envError, "LOGSINK_DESTINATIONS_FILE must not be empty")
	}
	if envVars.PlatformTimeout <= 0 {
		envError = append(envError, "LOGSINK_PLATFORM_TIMEOUT must be a positive duration")
	}
	if envVars.AsyncBuffer < 1 {
		envError = append(envError, "LOGSINK_ASYNC_BUFFER must be greater than zero")
	}

	if len(envError) > 0 {
		return fmt.Errorf("%w: %s", ErrEnvVariablesNotValid, strings.Join(envError, ", "))
	}
	return nil
}
