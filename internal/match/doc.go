// Package match builds marketplace search queries from card descriptors and
// scores result titles against them.
//
// The scorer is deliberately asymmetric toward rejection: a wrong player,
// year, or brand silently folded into a price estimate is worse than a real
// listing being excluded, so every mandatory facet failure rejects the
// listing outright.
package match
