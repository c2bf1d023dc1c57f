// Package mcp provides an MCP (Model Context Protocol) server adapter for topicchat.
// It lets AI assistants list topics, select one and ask questions through the
// same chat session the terminal surfaces use.
package mcp

import "errors"

// ErrMissingChatService is returned when the chat service is not provided.
var ErrMissingChatService = errors.New("mcp: chat service is required")
