package match

import (
	"regexp"
	"strings"

	"cardhound/internal/config"
	"cardhound/internal/services"
)

var errSubjectRequired = services.Wrap(services.ErrValidation, "match", "descriptor", "subject is required", nil)

// Strategy names a preset choosing which descriptor facets contribute query
// terms.
type Strategy string

const (
	// StrategyStrict includes every supplied facet.
	StrategyStrict Strategy = "strict"
	// StrategyNoPrintRun drops the serial-numbering term.
	StrategyNoPrintRun Strategy = "no_print_run"
	// StrategyCore additionally drops variety and parallel terms. The item
	// number is never dropped: without it a query matches any card from the
	// same player and year.
	StrategyCore Strategy = "core"
)

// printRunPattern extracts the trailing denominator of a serial numbering
// string. Sellers phrase the numerator inconsistently ("05/49", "5 of 49")
// but the denominator is stable.
var printRunPattern = regexp.MustCompile(`/(\d+)$`)

// Tables holds the hand-curated synonym data the builder expands terms
// through. Construct from config so corrections are operator-editable.
type Tables struct {
	brandPrefixes  map[string][]string
	brandSpellings map[string][]string
	insertSynonyms map[string][]string
	lotPhrases     []string
}

// NewTables adapts the configured match tables.
func NewTables(cfg config.Match) Tables {
	return Tables{
		brandPrefixes:  cfg.BrandPrefixes,
		brandSpellings: cfg.BrandSpellings,
		insertSynonyms: cfg.InsertSynonyms,
		lotPhrases:     cfg.LotPhrases,
	}
}

// BuildQuery turns a descriptor into a normalized search query under the
// given strategy. Terms are deduplicated preserving first occurrence and
// joined with single spaces; the resulting string is the cache key.
func BuildQuery(d Descriptor, strategy Strategy, tables Tables) string {
	terms := []string{d.Year, d.Subject}
	terms = append(terms, tables.brandTerms(d.Brand)...)
	if d.Number != "" {
		terms = append(terms, "#"+d.Number)
	}
	if strategy == StrategyStrict || strategy == StrategyNoPrintRun {
		if d.Variety != "" {
			terms = append(terms, tables.varietyTerms(d.Variety)...)
		}
		if d.Parallel != "" {
			terms = append(terms, d.Parallel)
		}
	}
	if d.Signed {
		terms = append(terms, "autograph")
	}
	if d.Grade != "" {
		terms = append(terms, d.Grade)
	}
	if strategy == StrategyStrict && d.Numbered != "" {
		terms = append(terms, printRunTerm(d.Numbered))
	}
	return strings.Join(uniqueTerms(terms), " ")
}

// brandTerms returns the brand itself plus any expansions: a parent
// manufacturer prefix when the brand is a known sub-brand, and fixed extra
// spellings for brands with multiple naming conventions. Brands not on the
// prefix list never receive a prefix; prefixing other manufacturers' brands
// matches the wrong products entirely.
func (t Tables) brandTerms(brand string) []string {
	brand = strings.TrimSpace(brand)
	if brand == "" {
		return nil
	}
	terms := []string{brand}
	lower := strings.ToLower(brand)

	for parent, subBrands := range t.brandPrefixes {
		parentLower := strings.ToLower(parent)
		if strings.Contains(lower, parentLower) {
			continue
		}
		for _, sub := range subBrands {
			if strings.Contains(lower, strings.ToLower(sub)) {
				terms = append(terms, parent+" "+brand)
				break
			}
		}
	}

	for key, spellings := range t.brandSpellings {
		if strings.Contains(lower, strings.ToLower(key)) {
			terms = append(terms, spellings...)
		}
	}

	return terms
}

// varietyTerms expands an insert/variety name through its known alternate
// spellings.
func (t Tables) varietyTerms(variety string) []string {
	terms := []string{variety}
	lower := strings.ToLower(variety)
	for key, synonyms := range t.insertSynonyms {
		if strings.Contains(lower, strings.ToLower(key)) {
			terms = append(terms, synonyms...)
		}
	}
	return terms
}

// printRunTerm reduces a serial numbering string to its denominator form
// ("05/49" -> "/49"). Strings without a trailing denominator are used as-is.
func printRunTerm(numbered string) string {
	if m := printRunPattern.FindStringSubmatch(strings.TrimSpace(numbered)); m != nil {
		return "/" + m[1]
	}
	return numbered
}

func uniqueTerms(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	ordered := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		if _, exists := seen[term]; exists {
			continue
		}
		seen[term] = struct{}{}
		ordered = append(ordered, term)
	}
	return ordered
}
