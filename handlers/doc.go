// Copyright (c) 2025 Kossi Gaba.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package handlers implements the HTTP API: registration and login,
// election lifecycle, candidacies, token-gated voting, weighted results
// and admin statistics.
package handlers
