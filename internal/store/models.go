package store

import (
	"time"

	"cardhound/internal/match"
)

// Card is one inventory entry.
type Card struct {
	ID            int64      `json:"id"`
	SetName       string     `json:"set_name"`
	CardNumber    string     `json:"card_number"`
	Player        string     `json:"player"`
	Team          string     `json:"team"`
	Year          string     `json:"year"`
	Variety       string     `json:"variety"`
	Parallel      string     `json:"parallel"`
	Autograph     bool       `json:"autograph"`
	Numbered      string     `json:"numbered"`
	Graded        string     `json:"graded"`
	PricePaid     *float64   `json:"price_paid"`
	CurrentValue  *float64   `json:"current_value"`
	Quantity      int        `json:"quantity"`
	Tracked       bool       `json:"tracked"`
	Notes         string     `json:"notes"`
	ImageURL      string     `json:"image_url"`
	LastCheckedAt *time.Time `json:"last_checked_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Descriptor maps the card onto the attributes the match engine searches
// and scores with.
func (c Card) Descriptor() match.Descriptor {
	return match.Descriptor{
		Year:     c.Year,
		Brand:    c.SetName,
		Subject:  c.Player,
		Number:   c.CardNumber,
		Variety:  c.Variety,
		Parallel: c.Parallel,
		Signed:   c.Autograph,
		Grade:    c.Graded,
		Numbered: c.Numbered,
	}
}

// CardFilter narrows List results. Zero values match everything.
type CardFilter struct {
	Player  string
	Year    string
	SetName string
	Tracked *bool
}

// CacheStats summarizes the search cache contents.
type CacheStats struct {
	Entries   int   `json:"entries"`
	TotalHits int64 `json:"total_hits"`
	Expired   int   `json:"expired"`
}

// CallLogRecord is one append-only audit entry for a lookup attempt.
type CallLogRecord struct {
	ID           int64     `json:"id"`
	RequestID    string    `json:"request_id"`
	Endpoint     string    `json:"endpoint"`
	Query        string    `json:"search_query"`
	CardID       *int64    `json:"card_id"`
	StatusCode   int       `json:"response_status"`
	LatencyMS    int64     `json:"response_time_ms"`
	ItemCount    int       `json:"items_returned"`
	CacheHit     bool      `json:"cache_hit"`
	Success      bool      `json:"success"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// CallSummary aggregates the call log for dashboards.
type CallSummary struct {
	TotalCalls   int64   `json:"total_calls"`
	LiveCalls    int64   `json:"live_calls"`
	CacheHits    int64   `json:"cache_hits"`
	Failures     int64   `json:"failures"`
	AvgLatencyMS float64 `json:"avg_latency_ms"`
}
