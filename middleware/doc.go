// Copyright (c) 2025 Kossi Gaba.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package middleware provides HTTP middleware and JSON helpers shared by
// all handlers: request logging, CORS, body parsing, error responses, and
// session enforcement via Bearer tokens.
package middleware
