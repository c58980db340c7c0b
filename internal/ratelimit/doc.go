// Package ratelimit enforces the daily external-call quota.
//
// The counter lives in a JSON state file guarded by an advisory file lock
// so the daemon and CLI processes draw from one shared budget. The counter
// resets at the local day boundary or by explicit admin reset.
package ratelimit
