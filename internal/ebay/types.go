package ebay

import "strconv"

// Price is an amount plus its ISO currency code.
type Price struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// Amount parses the price value, reporting whether it was usable.
func (p Price) Amount() (float64, bool) {
	if p.Value == "" {
		return 0, false
	}
	amount, err := strconv.ParseFloat(p.Value, 64)
	if err != nil || amount < 0 {
		return 0, false
	}
	return amount, true
}

// Image references a listing photo.
type Image struct {
	ImageURL string `json:"imageUrl"`
}

// Seller identifies the listing's seller account.
type Seller struct {
	Username           string `json:"username"`
	FeedbackPercentage string `json:"feedbackPercentage"`
	FeedbackScore      int    `json:"feedbackScore"`
}

// ItemSummary is a single Browse API search result.
type ItemSummary struct {
	ItemID     string `json:"itemId"`
	Title      string `json:"title"`
	Price      Price  `json:"price"`
	Image      Image  `json:"image"`
	ItemWebURL string `json:"itemWebUrl"`
	Condition  string `json:"condition"`
	Seller     Seller `json:"seller"`
}

// SearchResponse models the Browse API item summary search payload.
type SearchResponse struct {
	Total         int           `json:"total"`
	ItemSummaries []ItemSummary `json:"itemSummaries"`
}
