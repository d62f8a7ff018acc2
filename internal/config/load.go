// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	TypeField = "type"
)

var (
	// ErrParsing reports failures that occur while decoding destination files.
	ErrParsing = errors.New("error parsing")
	// ErrUnknownLevel reports a level name that is not recognized.
	ErrUnknownLevel = errors.New("unknown level")
)

// NewDestinationConfigsFromPath parses the file at path and returns every destination
// configuration it contains, one per YAML document. JSON files are accepted as well.
func NewDestinationConfigsFromPath(path string) ([]*DestinationConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return decodeDestinationConfigs(file, path)
}

func decodeDestinationConfigs(reader io.Reader, path string) ([]*DestinationConfig, error) {
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)

	configs := make([]*DestinationConfig, 0)
	for {
		config := new(DestinationConfig)
		err := decoder.Decode(&config)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			return nil, fmt.Errorf("%w %q: %w", ErrParsing, path, err)
		}

		// empty document
		if config == nil {
			continue
		}

		if config.Type == "" {
			return nil, fmt.Errorf("%w %q: missing required fields: %s", ErrParsing, path, TypeField)
		}

		configs = append(configs, config)
	}

	return configs, nil
}
