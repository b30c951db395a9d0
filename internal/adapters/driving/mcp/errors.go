// Package mcp provides an MCP (Model Context Protocol) server adapter
// for HRDesk. It exposes policy retrieval and the answer cache as tools
// an AI assistant can call during a conversation.
package mcp

import "errors"

// ErrMissingRetriever is returned when the retriever is not provided.
var ErrMissingRetriever = errors.New("mcp: retriever is required")
