package api

import (
	"cardhound/internal/lookup"
	"cardhound/internal/match"
	"cardhound/internal/ratelimit"
	"cardhound/internal/store"
)

// LookupRequest describes one card to price. Alternatively Query runs a
// raw search string verbatim, skipping scoring and broadening.
type LookupRequest struct {
	Query string `json:"query,omitempty"`

	Player   string `json:"player,omitempty"`
	Year     string `json:"year,omitempty"`
	SetName  string `json:"set_name,omitempty"`
	Number   string `json:"card_number,omitempty"`
	Variety  string `json:"variety,omitempty"`
	Parallel string `json:"parallel,omitempty"`
	Signed   bool   `json:"autograph,omitempty"`
	Grade    string `json:"graded,omitempty"`
	Numbered string `json:"numbered,omitempty"`
}

// Descriptor converts the request into match attributes.
func (r LookupRequest) Descriptor() match.Descriptor {
	return match.Descriptor{
		Year:     r.Year,
		Brand:    r.SetName,
		Subject:  r.Player,
		Number:   r.Number,
		Variety:  r.Variety,
		Parallel: r.Parallel,
		Signed:   r.Signed,
		Grade:    r.Grade,
		Numbered: r.Numbered,
	}
}

// CardRequest carries the editable fields of a card.
type CardRequest struct {
	SetName    string   `json:"set_name"`
	CardNumber string   `json:"card_number"`
	Player     string   `json:"player"`
	Team       string   `json:"team"`
	Year       string   `json:"year"`
	Variety    string   `json:"variety"`
	Parallel   string   `json:"parallel"`
	Autograph  bool     `json:"autograph"`
	Numbered   string   `json:"numbered"`
	Graded     string   `json:"graded"`
	PricePaid  *float64 `json:"price_paid"`
	Quantity   int      `json:"quantity"`
	Tracked    bool     `json:"tracked"`
	Notes      string   `json:"notes"`
}

// LookupResponse wraps a lookup outcome.
type LookupResponse struct {
	Result *lookup.Result `json:"result"`
}

// CardResponse wraps a single card.
type CardResponse struct {
	Card *store.Card `json:"card"`
}

// CardListResponse wraps a card listing.
type CardListResponse struct {
	Cards []*store.Card `json:"cards"`
}

// CheckPriceResponse pairs the refreshed card with the lookup that
// produced its new value.
type CheckPriceResponse struct {
	Card   *store.Card    `json:"card"`
	Result *lookup.Result `json:"result"`
}

// CheckTrackedResponse reports a tracked-card sweep.
type CheckTrackedResponse struct {
	Outcomes []lookup.CheckOutcome `json:"outcomes"`
}

// RateLimitResponse reports the day's API budget.
type RateLimitResponse struct {
	Stats ratelimit.Stats `json:"stats"`
}

// CacheStatsResponse reports search cache statistics.
type CacheStatsResponse struct {
	Stats store.CacheStats `json:"stats"`
}

// CacheClearResponse reports how many cache rows were removed.
type CacheClearResponse struct {
	Removed int64 `json:"removed"`
}

// CallsResponse wraps recent call-log records.
type CallsResponse struct {
	Calls []*store.CallLogRecord `json:"calls"`
}

// CallSummaryResponse wraps call-log aggregates.
type CallSummaryResponse struct {
	Summary store.CallSummary `json:"summary"`
}

// HealthResponse reports daemon liveness.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
