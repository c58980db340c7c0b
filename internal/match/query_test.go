package match

import (
	"strings"
	"testing"

	"cardhound/internal/config"
)

func testTables() Tables {
	return NewTables(config.Default().Match)
}

func TestBuildQueryStrictIncludesAllFacets(t *testing.T) {
	d := Descriptor{
		Year:     "2023",
		Brand:    "Topps",
		Subject:  "Julio Rodriguez",
		Number:   "44",
		Variety:  "All-Star",
		Parallel: "Refractor",
		Signed:   true,
		Grade:    "PSA 10",
		Numbered: "05/49",
	}
	query := BuildQuery(d, StrategyStrict, testTables())

	for _, want := range []string{"2023", "Julio Rodriguez", "Topps", "#44", "All-Star", "Refractor", "autograph", "PSA 10", "/49"} {
		if !strings.Contains(query, want) {
			t.Errorf("query %q missing term %q", query, want)
		}
	}
	if strings.Contains(query, "05/49") {
		t.Errorf("query %q should carry the denominator form only", query)
	}
}

func TestBuildQueryBroadeningDropsFacetsInOrder(t *testing.T) {
	d := Descriptor{
		Year:     "2023",
		Brand:    "Topps",
		Subject:  "Julio Rodriguez",
		Number:   "44",
		Variety:  "All-Star",
		Parallel: "Refractor",
		Numbered: "05/49",
	}

	noPrintRun := BuildQuery(d, StrategyNoPrintRun, testTables())
	if strings.Contains(noPrintRun, "/49") {
		t.Errorf("no_print_run query %q should drop the print run", noPrintRun)
	}
	if !strings.Contains(noPrintRun, "Refractor") {
		t.Errorf("no_print_run query %q should keep the parallel", noPrintRun)
	}

	core := BuildQuery(d, StrategyCore, testTables())
	for _, dropped := range []string{"/49", "All-Star", "Refractor"} {
		if strings.Contains(core, dropped) {
			t.Errorf("core query %q should drop %q", core, dropped)
		}
	}
	// The item number survives every level of broadening.
	if !strings.Contains(core, "#44") {
		t.Errorf("core query %q must keep the item number", core)
	}
}

func TestBrandPrefixAsymmetry(t *testing.T) {
	tables := testTables()

	prizm := tables.brandTerms("Prizm")
	if !containsTerm(prizm, "Panini Prizm") {
		t.Errorf("Prizm terms %v should include the Panini prefix", prizm)
	}

	// Brands not manufactured by Panini must never receive the prefix.
	for _, brand := range []string{"Topps", "Upper Deck", "Bowman"} {
		terms := tables.brandTerms(brand)
		for _, term := range terms {
			if strings.HasPrefix(term, "Panini") {
				t.Errorf("%s terms %v must not include a Panini prefix", brand, terms)
			}
		}
	}

	// Brands already naming the parent are not double-prefixed.
	already := tables.brandTerms("Panini Prizm")
	if containsTerm(already, "Panini Panini Prizm") {
		t.Errorf("terms %v double-prefixed the parent", already)
	}
}

func TestBrandSpellingsAdded(t *testing.T) {
	terms := testTables().brandTerms("Donruss Optic")
	if !containsTerm(terms, "Panini Donruss Optic") {
		t.Errorf("Donruss Optic terms %v missing configured spelling", terms)
	}
}

func TestVarietySynonymExpansion(t *testing.T) {
	query := BuildQuery(Descriptor{Subject: "Bobby Witt Jr", Variety: "T-Minus"}, StrategyStrict, testTables())
	if !strings.Contains(query, "T-Minus 3 2 1") {
		t.Errorf("query %q missing insert synonym", query)
	}
}

func TestPrintRunTerm(t *testing.T) {
	cases := map[string]string{
		"05/49": "/49",
		"1/1":   "/1",
		"25":    "25",
		" /99":  "/99",
	}
	for input, want := range cases {
		if got := printRunTerm(input); got != want {
			t.Errorf("printRunTerm(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestQueryTermsDeduplicatedInOrder(t *testing.T) {
	d := Descriptor{Year: "1993", Brand: "Topps", Subject: "Topps", Number: ""}
	query := BuildQuery(d, StrategyStrict, testTables())
	if query != "1993 Topps" {
		t.Errorf("query = %q, want %q", query, "1993 Topps")
	}
}

func containsTerm(terms []string, want string) bool {
	for _, term := range terms {
		if term == want {
			return true
		}
	}
	return false
}
