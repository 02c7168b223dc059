// Package mcp provides an MCP (Model Context Protocol) server adapter for
// courtfetch. It lets AI assistants look up cases and read stored orders.
package mcp

import "errors"

// ErrMissingCaseService is returned when the case service is not provided.
var ErrMissingCaseService = errors.New("mcp: case service is required")
