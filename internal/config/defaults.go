package config

const (
	defaultDataDir        = "~/.local/share/cardhound"
	defaultLogDir         = "~/.local/share/cardhound/logs"
	defaultAPIBind        = "127.0.0.1:7491"
	defaultAuthURL        = "https://api.ebay.com/identity/v1/oauth2/token"
	defaultBrowseURL      = "https://api.ebay.com/buy/browse/v1"
	defaultOAuthScope     = "https://api.ebay.com/oauth/api_scope"
	defaultMarketplaceID  = "EBAY_US"
	defaultCategoryID     = "261328" // Sports Trading Cards > Baseball Cards
	defaultSearchLimit    = 100
	defaultRequestTimeout = 10
	defaultDailyQuota     = 5000
	defaultCacheTTL       = 60
	defaultMinScore       = 60
	defaultLogFormat      = "text"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Ebay: Ebay{
			AuthURL:        defaultAuthURL,
			BrowseURL:      defaultBrowseURL,
			OAuthScope:     defaultOAuthScope,
			MarketplaceID:  defaultMarketplaceID,
			CategoryID:     defaultCategoryID,
			SearchLimit:    defaultSearchLimit,
			RequestTimeout: defaultRequestTimeout,
			DailyQuota:     defaultDailyQuota,
			CacheTTL:       defaultCacheTTL,
		},
		Match: Match{
			MinScore:       defaultMinScore,
			BrandPrefixes:  defaultBrandPrefixes(),
			BrandSpellings: defaultBrandSpellings(),
			InsertSynonyms: defaultInsertSynonyms(),
			LotPhrases:     defaultLotPhrases(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// defaultBrandPrefixes lists the sub-brands manufactured by each parent
// manufacturer. Only brands on this list receive the parent prefix; adding
// the prefix to other manufacturers' brands matches the wrong products and
// corrupts pricing.
func defaultBrandPrefixes() map[string][]string {
	return map[string][]string{
		"Panini": {
			"donruss", "prizm", "select", "chronicles", "optic",
			"prestige", "contenders", "mosaic", "absolute", "crown royale",
			"national treasures", "immaculate", "flawless", "noir",
			"encased", "limited", "spectra", "phoenix",
		},
	}
}

// defaultBrandSpellings adds fixed alternate spellings for brands that
// sellers title under more than one naming convention.
func defaultBrandSpellings() map[string][]string {
	return map[string][]string{
		"donruss optic": {"Panini Donruss Optic", "Donruss Optic"},
		"topps chrome":  {"Topps Chrome"},
	}
}

// defaultInsertSynonyms maps an insert line to the spellings sellers use
// for it.
func defaultInsertSynonyms() map[string][]string {
	return map[string][]string{
		"t-minus": {"T-Minus", "T-Minus 3 2 1", "T-Minus 3...2...1!", "T Minus 3 2 1"},
	}
}

// defaultLotPhrases flags multi-item listings that would poison a
// single-card price estimate.
func defaultLotPhrases() []string {
	return []string{"pick your", "choose", "lot", "player list", "bundle", "box break"}
}
