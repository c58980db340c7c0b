package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	DataDir  string `toml:"data_dir"`
	LogDir   string `toml:"log_dir"`
	APIBind  string `toml:"api_bind"`
	APIToken string `toml:"api_token"`
}

// Ebay contains credentials and tuning for the eBay Browse API.
type Ebay struct {
	ClientID       string `toml:"client_id"`
	ClientSecret   string `toml:"client_secret"`
	AuthURL        string `toml:"auth_url"`
	BrowseURL      string `toml:"browse_url"`
	OAuthScope     string `toml:"oauth_scope"`
	MarketplaceID  string `toml:"marketplace_id"`
	CategoryID     string `toml:"category_id"`
	SearchLimit    int    `toml:"search_limit"`
	RequestTimeout int    `toml:"request_timeout"` // seconds
	DailyQuota     int    `toml:"daily_quota"`
	CacheTTL       int    `toml:"cache_ttl_minutes"`
}

// Match contains the relevance-filter tuning tables.
//
// BrandPrefixes maps a parent manufacturer to the sub-brand substrings it
// manufactures. A brand matching one of the sub-brands gains an additional
// "<Parent> <brand>" search term; brands not on the list never receive the
// prefix. BrandSpellings adds fixed extra spellings for brands with more
// than one naming convention. InsertSynonyms expands insert/variety names
// through their known alternate spellings.
type Match struct {
	MinScore       int                 `toml:"min_score"`
	BrandPrefixes  map[string][]string `toml:"brand_prefixes"`
	BrandSpellings map[string][]string `toml:"brand_spellings"`
	InsertSynonyms map[string][]string `toml:"insert_synonyms"`
	LotPhrases     []string            `toml:"lot_phrases"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for cardhound.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Ebay    Ebay    `toml:"ebay"`
	Match   Match   `toml:"match"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/cardhound/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("cardhound.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// WriteSample writes the annotated sample configuration to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o600); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// EnsureDirectories creates the configured data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the location of the sqlite database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "cardhound.db")
}

// RateStatePath returns the location of the shared daily rate-limit state file.
func (c *Config) RateStatePath() string {
	return filepath.Join(c.Paths.DataDir, "ebay_rate_limit.json")
}

// RequestTimeout returns the external call timeout as a duration.
func (e Ebay) Timeout() time.Duration {
	return time.Duration(e.RequestTimeout) * time.Second
}

// CacheDuration returns the search cache TTL as a duration.
func (e Ebay) CacheDuration() time.Duration {
	return time.Duration(e.CacheTTL) * time.Minute
}

// ExpandPath resolves ~ and relative segments to an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return home, nil
	}
	if strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", trimmed, err)
	}
	return abs, nil
}
