// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package config describes the declarative destination configuration consumed by
// the resolver, and loads it from YAML files and environment variables.
package config
