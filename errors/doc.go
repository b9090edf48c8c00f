// Package errors provides the relay's structured error type: machine-readable
// codes, HTTP status mapping and retryable detection. Failed requests are
// rendered as a JSON envelope carrying the code, the request path and the
// request id.
package errors
