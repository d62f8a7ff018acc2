// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package sink connects resolved destinations to hclog. Every destination becomes
// an hclog.SinkAdapter that can be registered on an hclog.InterceptLogger: console
// destinations write to a stream, file destinations write to a rotated file and
// platform destinations ship encrypted batches over HTTP.
package sink
