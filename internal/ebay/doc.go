// Package ebay provides the Browse API search client and the OAuth
// client-credentials token manager behind it.
//
// Responses are mapped onto typed structs at this boundary so downstream
// scoring code never handles missing-key access on raw JSON.
package ebay
