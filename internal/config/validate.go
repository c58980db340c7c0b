package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateEbay(); err != nil {
		return err
	}
	if err := c.validateMatch(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateEbay() error {
	if c.Ebay.ClientID == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/cardhound/config.toml"
		}
		return fmt.Errorf("ebay.client_id is required. Set EBAY_CLIENT_ID env var or edit %s (create with 'cardhound config init')", defaultPath)
	}
	if c.Ebay.ClientSecret == "" {
		return errors.New("ebay.client_secret is required. Set EBAY_CLIENT_SECRET env var or edit the config file")
	}
	if c.Ebay.SearchLimit > 200 {
		return errors.New("ebay.search_limit must not exceed 200")
	}
	return nil
}

func (c *Config) validateMatch() error {
	if c.Match.MinScore < 0 || c.Match.MinScore > 100 {
		return errors.New("match.min_score must be between 0 and 100")
	}
	return nil
}
