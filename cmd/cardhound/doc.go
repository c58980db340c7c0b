// Package main hosts the cardhound CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into
// lookups, collection maintenance, rate-budget inspection, cache and
// call-log queries, and configuration scaffolding. The CLI operates on
// the same database and rate-state file as the daemon; the file lock and
// WAL journal keep concurrent use safe.
//
// Keep this package lean: add new functionality by extending the
// internal packages first, then surface it through dedicated commands or
// flags here.
package main
