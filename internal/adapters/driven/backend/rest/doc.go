// Package rest provides the HTTP/JSON adapter for the chat backend.
//
// The backend exposes three endpoints:
//
//	GET  /get-topics        -> {"topics": [...]}
//	POST /initialize-topic  {"topic"} -> {"success": true, "message"?}
//	POST /ask               {"question", "topic"} -> {"answer", "sources"?, "word_count"?, "topic"?}
//
// Every response passes through one validator that turns a non-2xx status
// into *domain.HTTPError and a body carrying an "error" field into
// *domain.ApplicationError. Transient failures are retried by RetryPolicy
// and outbound requests can be throttled with a token bucket.
package rest
