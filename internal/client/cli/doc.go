// Package cli provides the interactive gophauth command-line client.
//
// It wires configuration, the HTTP API client and a small REPL:
//
//   - register: create an account (full name, email, password)
//   - login: exchange credentials for a session token
//   - profile: fetch the protected profile with the current token
//   - logout: forget the token
//
// Passwords are read without echo when stdin is a terminal and wiped from
// memory after use. The REPL is started via App.Run(ctx), which blocks
// until the user exits or stdin is closed.
package cli
