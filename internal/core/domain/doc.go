// Package domain defines the core business entities for topicchat.
//
// This package is part of the hexagonal architecture's innermost layer.
// It defines the fundamental types:
//
//   - Topic: A subject area the backend can answer questions about
//   - Message: A user, assistant or system entry in the transcript
//   - Citation: Backend-supplied provenance (page + document) for an answer
//   - SessionState: A point-in-time copy of the chat session
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. All other packages depend on
// domain, never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library, golang.org/x/text
//   - Cannot Import: Any internal/ package, any other external dependency
package domain
