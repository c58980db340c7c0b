// Package store manages cardhound persistence backed by SQLite: the card
// inventory, the search result cache, and the append-only API call log.
package store
