// Package daemon runs cardhound as a long-lived service: it enforces
// single-instance execution with a file lock and serves the HTTP API
// over the shared store and lookup engine.
package daemon
