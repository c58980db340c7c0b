package match

import (
	"sort"
	"strings"

	"cardhound/internal/ebay"
)

// Facet names one scored aspect of a listing title.
type Facet string

const (
	FacetSubject   Facet = "subject"
	FacetYear      Facet = "year"
	FacetBrand     Facet = "brand"
	FacetVariety   Facet = "variety"
	FacetParallel  Facet = "parallel"
	FacetNumbering Facet = "numbering"
	FacetGrade     Facet = "grade"
	FacetSigned    Facet = "signed"
)

// Facet weights. The mandatory facets sum to 100; bonus facets push
// borderline titles up but the total is clamped.
const (
	weightSubject     = 40
	weightSubjectLast = 20
	weightYear        = 20
	weightBrand       = 20
	weightNumbering   = 20
	bonusGrade        = 10
	bonusSigned       = 10
	bonusVariety      = 5
	bonusParallel     = 5
	maxScore          = 100
)

// gradingTokens identify professionally graded listings when the descriptor
// does not name a specific grade.
var gradingTokens = []string{"psa", "bgs", "sgc", "cgc"}

// signedTokens identify autographed listings.
var signedTokens = []string{"autograph", "auto", "signed"}

// ScoredListing is a candidate listing plus its relevance verdict.
type ScoredListing struct {
	Listing  ebay.ItemSummary
	Score    int
	Facets   []Facet
	Accepted bool
	Reasons  []string
}

// Scorer evaluates listing titles against a descriptor.
type Scorer struct {
	minScore   int
	lotPhrases []string
}

// NewScorer builds a Scorer with the configured minimum score and lot
// phrase table.
func NewScorer(minScore int, tables Tables) *Scorer {
	return &Scorer{minScore: minScore, lotPhrases: tables.lotPhrases}
}

// ScoreListing assigns a relevance verdict to a single listing. Subject,
// year, and brand are mandatory when supplied on the descriptor: any of
// them missing from the title forces score 0 and an immediate reject. The
// last-name fallback on the subject facet is the only partial credit.
func (s *Scorer) ScoreListing(listing ebay.ItemSummary, d Descriptor) ScoredListing {
	title := strings.ToLower(listing.Title)
	result := ScoredListing{Listing: listing}

	if phrase, ok := s.lotPhrase(title, d.Number); ok {
		result.Reasons = append(result.Reasons, "multi-item listing: "+phrase)
		return result
	}

	subject := strings.ToLower(strings.TrimSpace(d.Subject))
	switch {
	case subject != "" && strings.Contains(title, subject):
		result.Score += weightSubject
		result.Facets = append(result.Facets, FacetSubject)
	case subject != "" && containsWord(title, strings.ToLower(d.LastName())):
		result.Score += weightSubjectLast
		result.Facets = append(result.Facets, FacetSubject)
	default:
		result.Score = 0
		result.Facets = nil
		result.Reasons = append(result.Reasons, "subject not found")
		return result
	}

	if year := strings.TrimSpace(d.Year); year != "" {
		if !strings.Contains(title, strings.ToLower(year)) {
			result.Score = 0
			result.Facets = nil
			result.Reasons = append(result.Reasons, "year not found")
			return result
		}
		result.Score += weightYear
		result.Facets = append(result.Facets, FacetYear)
	} else {
		// No year supplied: the facet passes automatically.
		result.Score += weightYear
	}

	if brand := strings.ToLower(strings.TrimSpace(d.Brand)); brand != "" {
		if !strings.Contains(title, brand) {
			result.Score = 0
			result.Facets = nil
			result.Reasons = append(result.Reasons, "brand not found")
			return result
		}
		result.Score += weightBrand
		result.Facets = append(result.Facets, FacetBrand)
	} else {
		result.Score += weightBrand
	}

	if number := strings.TrimSpace(d.Number); number != "" {
		if titleHasNumbering(title, strings.ToLower(number)) {
			result.Score += weightNumbering
			result.Facets = append(result.Facets, FacetNumbering)
		}
		// Absent numbering is never a rejection on its own.
	} else {
		result.Score += weightNumbering
	}

	if variety := strings.ToLower(strings.TrimSpace(d.Variety)); variety != "" && strings.Contains(title, variety) {
		result.Score += bonusVariety
		result.Facets = append(result.Facets, FacetVariety)
	}
	if parallel := strings.ToLower(strings.TrimSpace(d.Parallel)); parallel != "" && strings.Contains(title, parallel) {
		result.Score += bonusParallel
		result.Facets = append(result.Facets, FacetParallel)
	}

	if grade := strings.ToLower(strings.TrimSpace(d.Grade)); grade != "" {
		if strings.Contains(title, grade) {
			result.Score += bonusGrade
			result.Facets = append(result.Facets, FacetGrade)
		}
	} else if containsAny(title, gradingTokens) {
		result.Score += bonusGrade
		result.Facets = append(result.Facets, FacetGrade)
	}

	if d.Signed && containsAny(title, signedTokens) {
		result.Score += bonusSigned
		result.Facets = append(result.Facets, FacetSigned)
	}

	if result.Score > maxScore {
		result.Score = maxScore
	}

	if result.Score >= s.minScore {
		result.Accepted = true
	} else {
		result.Reasons = append(result.Reasons, "below minimum score")
	}
	return result
}

// Filter scores every listing and partitions accepted from rejected.
// Accepted listings are sorted by score descending, ties broken by
// ascending price.
func (s *Scorer) Filter(listings []ebay.ItemSummary, d Descriptor) (accepted []ScoredListing, rejected int) {
	for _, listing := range listings {
		scored := s.ScoreListing(listing, d)
		if scored.Accepted {
			accepted = append(accepted, scored)
		} else {
			rejected++
		}
	}

	sort.SliceStable(accepted, func(i, j int) bool {
		if accepted[i].Score != accepted[j].Score {
			return accepted[i].Score > accepted[j].Score
		}
		return listingPrice(accepted[i]) < listingPrice(accepted[j])
	})
	return accepted, rejected
}

// lotPhrase reports whether the title is a multi-item listing. A listing
// that literally names the wanted item number is kept even when a lot
// phrase appears.
func (s *Scorer) lotPhrase(title, number string) (string, bool) {
	needle := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(number)), "#", "")
	for _, phrase := range s.lotPhrases {
		if !strings.Contains(title, phrase) {
			continue
		}
		if needle != "" && strings.Contains(strings.ReplaceAll(title, "#", ""), needle) {
			continue
		}
		return phrase, true
	}
	return "", false
}

// titleHasNumbering checks the phrasings sellers use for card numbers.
func titleHasNumbering(title, number string) bool {
	for _, candidate := range []string{"#" + number, "/" + number, "no. " + number, "card " + number} {
		if strings.Contains(title, candidate) {
			return true
		}
	}
	return containsWord(title, number)
}

// containsWord reports whether needle appears in text bounded by
// non-alphanumeric characters, so "jeter" does not match "jeterson".
func containsWord(text, needle string) bool {
	if needle == "" {
		return false
	}
	for start := 0; ; {
		idx := strings.Index(text[start:], needle)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(needle)
		beforeOK := idx == 0 || !isAlphanumeric(text[idx-1])
		afterOK := end == len(text) || !isAlphanumeric(text[end])
		if beforeOK && afterOK {
			return true
		}
		start = idx + 1
	}
}

func isAlphanumeric(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func containsAny(title string, tokens []string) bool {
	for _, token := range tokens {
		if containsWord(title, token) {
			return true
		}
	}
	return false
}

func listingPrice(scored ScoredListing) float64 {
	amount, ok := scored.Listing.Price.Amount()
	if !ok {
		// Listings without a usable price sort last within their score band.
		return float64(1 << 40)
	}
	return amount
}
