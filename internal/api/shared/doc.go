// Package shared holds the request and response helpers used by the API
// handlers and middleware: trace IDs, JSON decoding and validation, and the
// standard JSON error envelope.
package shared
