// Package config loads and validates cardhound configuration from TOML.
//
// Configuration is resolved in three passes: defaults, file decode, then
// normalize/validate. Path fields are tilde-expanded during normalization.
// The brand-prefix and insert-synonym tables used by the match engine live
// here as configuration data so operators can correct them without a code
// change.
package config
