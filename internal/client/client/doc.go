// Package client talks to the gophauth HTTP API.
//
// # Overview
//
// Client is the transport-agnostic contract used by the CLI: Register, Login,
// Profile and Ping. HTTPClient implements it over net/http and JSON.
//
// # Error Handling
//
// Server answers are mapped to sentinel errors that callers match with
// errors.Is: ErrUnavailable (network failure), ErrUnauthorized (401),
// ErrBadRequest (400) and ErrServer (5xx). The server's message, when there
// is one, is kept in the error text.
//
// All operations accept context.Context and honor cancellation.
package client
