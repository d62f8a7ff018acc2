// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/gofiber/fiber/v2"

	"github.com/mia-platform/logsink/internal/config"
	"github.com/mia-platform/logsink/internal/logger"
)

var (
	ErrInvalidBody    = errors.New("invalid body")
	ErrMissingMessage = errors.New("missing message")
)

type statusResponse struct {
	Status  string `json:"status"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

func statusRoutes(app *fiber.App, name, version string) {
	handler := func(c *fiber.Ctx) error {
		return c.JSON(statusResponse{
			Status:  "OK",
			Name:    name,
			Version: version,
		})
	}

	app.Get("/-/healthz", handler)
	app.Get("/-/ready", handler)
}

// LogEntry is a single entry accepted by the ingestion route. An empty level
// is logged as info.
type LogEntry struct {
	Level   string         `json:"level,omitempty"`
	Message string         `json:"message"`
	Fields  map[string]any `json:"fields,omitempty"`
}

func (e LogEntry) args() []any {
	args := make([]any, 0, len(e.Fields)*2)
	for _, key := range slices.Sorted(maps.Keys(e.Fields)) {
		args = append(args, key, e.Fields[key])
	}
	return args
}

func (e LogEntry) level() (config.Level, error) {
	if e.Level == "" {
		return config.LevelInfo, nil
	}
	return config.ParseLevel(e.Level)
}

func decodeEntries(body []byte) ([]LogEntry, error) {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		var entries []LogEntry
		if err := json.Unmarshal(body, &entries); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidBody, err)
		}
		return entries, nil
	}

	var entry LogEntry
	if err := json.Unmarshal(body, &entry); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	return []LogEntry{entry}, nil
}

// ingestHandler validates every entry of the body before logging any of them.
func ingestHandler(c *fiber.Ctx) error {
	entries, err := decodeEntries(c.Body())
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	levels := make([]config.Level, len(entries))
	for idx, entry := range entries {
		level, err := entry.level()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("entry %d: %s", idx, err))
		}
		if entry.Message == "" {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("entry %d: %s", idx, ErrMissingMessage))
		}
		levels[idx] = level
	}

	log := logger.FromContext(c.UserContext())
	for idx, entry := range entries {
		log.Log(levels[idx].Destination().HCLogLevel(), entry.Message, entry.args()...)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
