// Package file provides the file-based configuration store.
//
// Configuration lives in a TOML file (by default ~/.topicchat/config.toml).
// Nested tables are flattened to dot-notation keys on load and nested again
// on save, so "backend.url" maps to the url key of the [backend] table.
package file
