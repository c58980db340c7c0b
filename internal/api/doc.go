// Package api defines the request/response payloads of the HTTP surface
// and a service layer over the store and lookup engine shared by the
// daemon handlers and the CLI.
package api
