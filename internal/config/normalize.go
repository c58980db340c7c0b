package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeEbay()
	c.normalizeMatch()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)
	return nil
}

func (c *Config) normalizeEbay() {
	if c.Ebay.ClientID == "" {
		if value, ok := os.LookupEnv("EBAY_CLIENT_ID"); ok {
			c.Ebay.ClientID = strings.TrimSpace(value)
		}
	}
	if c.Ebay.ClientSecret == "" {
		if value, ok := os.LookupEnv("EBAY_CLIENT_SECRET"); ok {
			c.Ebay.ClientSecret = strings.TrimSpace(value)
		}
	}
	c.Ebay.AuthURL = strings.TrimRight(strings.TrimSpace(c.Ebay.AuthURL), "/")
	if c.Ebay.AuthURL == "" {
		c.Ebay.AuthURL = defaultAuthURL
	}
	c.Ebay.BrowseURL = strings.TrimRight(strings.TrimSpace(c.Ebay.BrowseURL), "/")
	if c.Ebay.BrowseURL == "" {
		c.Ebay.BrowseURL = defaultBrowseURL
	}
	c.Ebay.OAuthScope = strings.TrimSpace(c.Ebay.OAuthScope)
	if c.Ebay.OAuthScope == "" {
		c.Ebay.OAuthScope = defaultOAuthScope
	}
	c.Ebay.MarketplaceID = strings.TrimSpace(c.Ebay.MarketplaceID)
	if c.Ebay.MarketplaceID == "" {
		c.Ebay.MarketplaceID = defaultMarketplaceID
	}
	c.Ebay.CategoryID = strings.TrimSpace(c.Ebay.CategoryID)
	if c.Ebay.CategoryID == "" {
		c.Ebay.CategoryID = defaultCategoryID
	}
	if c.Ebay.SearchLimit <= 0 {
		c.Ebay.SearchLimit = defaultSearchLimit
	}
	if c.Ebay.RequestTimeout <= 0 {
		c.Ebay.RequestTimeout = defaultRequestTimeout
	}
	if c.Ebay.DailyQuota <= 0 {
		c.Ebay.DailyQuota = defaultDailyQuota
	}
	if c.Ebay.CacheTTL <= 0 {
		c.Ebay.CacheTTL = defaultCacheTTL
	}
}

func (c *Config) normalizeMatch() {
	if c.Match.MinScore <= 0 {
		c.Match.MinScore = defaultMinScore
	}
	if len(c.Match.BrandPrefixes) == 0 {
		c.Match.BrandPrefixes = defaultBrandPrefixes()
	}
	if len(c.Match.BrandSpellings) == 0 {
		c.Match.BrandSpellings = defaultBrandSpellings()
	}
	if len(c.Match.InsertSynonyms) == 0 {
		c.Match.InsertSynonyms = defaultInsertSynonyms()
	}
	if len(c.Match.LotPhrases) == 0 {
		c.Match.LotPhrases = defaultLotPhrases()
	}

	phrases := make([]string, 0, len(c.Match.LotPhrases))
	seen := make(map[string]struct{}, len(c.Match.LotPhrases))
	for _, phrase := range c.Match.LotPhrases {
		normalized := strings.ToLower(strings.TrimSpace(phrase))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		phrases = append(phrases, normalized)
	}
	c.Match.LotPhrases = phrases
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "text":
		c.Logging.Format = "text"
	case "json":
	default:
		c.Logging.Format = "text"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
