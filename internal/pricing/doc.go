// Package pricing derives a representative price from accepted listings.
//
// Marketplace search results arrive sorted by price, so any "first N"
// sample is systematically biased. The summary instead trims by rank
// percentile: the median covers every collected price while the average is
// computed over the interquartile subset only.
package pricing
