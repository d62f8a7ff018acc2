// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package resolver turns a config.DestinationConfig into a concrete destination.
// Every resolve call starts from the built-in defaults of the destination and
// applies only the optional fields that are present in the configuration; fields
// that are absent keep their default value. The level labels are overlaid one by
// one, so a configuration can change a single label without restating the others.
//
// A Resolver keeps no state between calls and performs no I/O: file locations are
// computed from the configured path without touching the file system.
package resolver
