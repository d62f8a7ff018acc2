// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package server contains the HTTP service of logsink.
// It sets up a Fiber application with the request logging middleware, the status
// routes and the ingestion route that forwards log entries to the logger carried
// by the request context, and with it to every registered destination sink.
package server
