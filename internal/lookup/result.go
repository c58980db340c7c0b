package lookup

import (
	"cardhound/internal/match"
	"cardhound/internal/pricing"
)

const (
	// maxResultItems caps how many scored listings a result carries.
	maxResultItems = 10
	// maxSampleImages caps the representative photos attached to a result.
	maxSampleImages = 3
)

// Result is the outcome of one lookup. An empty Items slice with a zero
// Pricing summary is a successful "no match" outcome, not an error.
type Result struct {
	RequestID     string                `json:"request_id"`
	Query         string                `json:"query"`
	Strategy      match.Strategy        `json:"strategy"`
	Broadened     bool                  `json:"broadened"`
	BroadenNote   string                `json:"broaden_note,omitempty"`
	TotalUpstream int                   `json:"total_upstream"`
	Scanned       int                   `json:"scanned"`
	RejectedCount int                   `json:"rejected_count"`
	CacheHit      bool                  `json:"cache_hit"`
	Items         []match.ScoredListing `json:"items"`
	Pricing       pricing.Summary       `json:"pricing"`
	SampleImages  []string              `json:"sample_images,omitempty"`
}

// Matched reports whether any listing survived filtering.
func (r *Result) Matched() bool {
	return r != nil && len(r.Items) > 0
}

// CheckOutcome records the per-card result of a batch tracked-card sweep.
// Err carries the failure message so one broken card never aborts the
// sweep.
type CheckOutcome struct {
	CardID int64   `json:"card_id"`
	Player string  `json:"player"`
	Result *Result `json:"result,omitempty"`
	Err    string  `json:"error,omitempty"`
}

func buildResultItems(accepted []match.ScoredListing) []match.ScoredListing {
	if len(accepted) > maxResultItems {
		accepted = accepted[:maxResultItems]
	}
	return accepted
}

func sampleImages(accepted []match.ScoredListing) []string {
	var images []string
	for _, scored := range accepted {
		url := scored.Listing.Image.ImageURL
		if url == "" {
			continue
		}
		images = append(images, url)
		if len(images) == maxSampleImages {
			break
		}
	}
	return images
}

func acceptedPrices(accepted []match.ScoredListing) []float64 {
	var prices []float64
	for _, scored := range accepted {
		if amount, ok := scored.Listing.Price.Amount(); ok {
			prices = append(prices, amount)
		}
	}
	return prices
}
