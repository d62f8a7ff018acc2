// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package destination defines the log destinations that logsink can configure.
// A destination is a plain value object: it carries the settings shared by every
// output (format, dispatch mode, minimum level and level labels) plus the fields
// specific to the console, file and remote platform variants.
package destination
