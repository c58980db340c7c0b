// Package lookup orchestrates a full price lookup: query construction,
// cache consultation, rate governance, the live search, relevance
// filtering with progressive broadening, and price aggregation. It is the
// only package that composes the ebay, match, pricing, ratelimit, and
// store layers.
package lookup
