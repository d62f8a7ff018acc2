// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

const (
	forwardedHostHeaderKey = "x-forwarded-host"
	forwardedForHeaderKey  = "x-forwarded-for"
	requestIDHeaderName    = "x-request-id"

	IncomingRequestMessage  = "incoming request"
	RequestCompletedMessage = "request completed"
)

// request contains the items of the request info log.
type request struct {
	Method    string `json:"method,omitempty"`
	Path      string `json:"path,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`
}

// response contains the items of the response info log.
type response struct {
	StatusCode int `json:"statusCode,omitempty"`
	BodyBytes  int `json:"bodyBytes"`
}

// host has the host information.
type host struct {
	Hostname      string `json:"hostname,omitempty"`
	ForwardedHost string `json:"forwardedHost,omitempty"`
	IP            string `json:"ip,omitempty"`
}

func removePort(host string) string {
	return strings.Split(host, ":")[0]
}

// RequestID returns the request id sent by the client, or a new random one.
func RequestID(c *fiber.Ctx) string {
	if requestID := c.Get(requestIDHeaderName); requestID != "" {
		return requestID
	}
	// Generate a random uuid string. e.g. 16c9c1f2-c001-40d3-bbfe-48857367e7b5
	requestID, err := uuid.NewRandom()
	if err != nil {
		panic(fmt.Errorf("error generating request id: %w", err))
	}
	return requestID.String()
}

func requestInfo(c *fiber.Ctx) request {
	return request{
		Method:    c.Method(),
		Path:      string(c.Request().URI().RequestURI()),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	}
}

func hostInfo(c *fiber.Ctx) host {
	return host{
		ForwardedHost: c.Get(forwardedHostHeaderKey),
		Hostname:      removePort(string(c.Request().Host())),
		IP:            c.Get(forwardedForHeaderKey),
	}
}

// responseInfo reads the final status and size, taking into account a fiber error
// returned by the handler that has not been written yet.
func responseInfo(c *fiber.Ctx, handlerErr error) response {
	var fiberErr *fiber.Error
	if errors.As(handlerErr, &fiberErr) {
		return response{StatusCode: fiberErr.Code, BodyBytes: len(fiberErr.Message)}
	}
	if handlerErr != nil {
		return response{StatusCode: http.StatusInternalServerError, BodyBytes: len(handlerErr.Error())}
	}

	return response{
		StatusCode: c.Response().StatusCode(),
		BodyBytes:  len(c.Response().Body()),
	}
}

// completedLevel raises the level of the completion log for failed requests.
func completedLevel(statusCode int) hclog.Level {
	switch {
	case statusCode >= http.StatusInternalServerError:
		return hclog.Error
	case statusCode >= http.StatusBadRequest:
		return hclog.Warn
	default:
		return hclog.Info
	}
}

// RequestMiddlewareLogger is a fiber middleware to log all requests
// It logs the incoming request and when request is completed, adding latency of the request.
// Requests whose path starts with one of excludedPrefix are not logged.
func RequestMiddlewareLogger(logger Logger, excludedPrefix []string) func(*fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		path := string(c.Request().URI().RequestURI())
		for _, prefix := range excludedPrefix {
			if strings.HasPrefix(path, prefix) {
				return c.Next()
			}
		}

		start := time.Now()

		requestID := RequestID(c)
		c.Set(requestIDHeaderName, requestID)
		loggerWithReqID := logger.WithName(requestID)
		c.SetUserContext(WithContext(c.UserContext(), loggerWithReqID))

		loggerWithReqID.Trace(IncomingRequestMessage,
			"request", requestInfo(c),
			"host", hostInfo(c),
		)

		err := c.Next()

		resp := responseInfo(c, err)
		loggerWithReqID.Log(completedLevel(resp.StatusCode), RequestCompletedMessage,
			"request", requestInfo(c),
			"response", resp,
			"host", hostInfo(c),
			"responseTime", float64(time.Since(start).Milliseconds()),
		)

		return err
	}
}
