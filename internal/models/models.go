// Copyright 2026 Sesame Labs
// Licensed under the EUPL-1.2

// Package models contains the database-backed data structures.
package models
